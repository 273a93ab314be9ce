package grid

import "testing"

func TestRectUnionIgnoresEmpty(t *testing.T) {
	a := Rect{Left: 2, Top: 3, Right: 5, Bottom: 4}
	if got := a.Union(Rect{}); got != a {
		t.Fatalf("union with empty = %v, want %v", got, a)
	}
	if got := (Rect{}).Union(a); got != a {
		t.Fatalf("empty union a = %v, want %v", got, a)
	}
	b := Rect{Left: 0, Top: 1, Right: 3, Bottom: 9}
	want := Rect{Left: 0, Top: 1, Right: 5, Bottom: 9}
	if got := a.Union(b); got != want {
		t.Fatalf("union = %v, want %v", got, want)
	}
}

func TestRectClampKeepsWellFormed(t *testing.T) {
	size := Point{X: 80, Y: 24}
	r := Rect{Left: -5, Top: 100, Right: 200, Bottom: 3}.Clamp(size)
	if r.Left != 0 || r.Top != 24 || r.Right != 80 || r.Bottom != 24 {
		t.Fatalf("clamped = %v", r)
	}
	if r.Left > r.Right || r.Top > r.Bottom {
		t.Fatalf("clamp produced malformed rect %v", r)
	}
}

func TestRangeClampAndUnion(t *testing.T) {
	g := Range{Lo: -3, Hi: 1000}.Clamp(24)
	if g.Lo != 0 || g.Hi != 24 {
		t.Fatalf("clamped = %v", g)
	}
	g = Range{Lo: 30, Hi: 10}.Clamp(24)
	if !g.Empty() {
		t.Fatalf("inverted range must clamp to empty, got %v", g)
	}
	u := (Range{Lo: 2, Hi: 4}).Union(Range{Lo: 7, Hi: 9})
	if u.Lo != 2 || u.Hi != 9 {
		t.Fatalf("union = %v", u)
	}
	if got := (Range{}).Union(Range{Lo: 3, Hi: 5}); got.Lo != 3 || got.Hi != 5 {
		t.Fatalf("empty union = %v", got)
	}
}
