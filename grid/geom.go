package grid

// Point is a coordinate pair, in cells or pixels depending on context.
type Point struct {
	X int
	Y int
}

// Rect is a half-open rectangle covering [Left,Right) x [Top,Bottom).
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Union returns the bounding rectangle of r and o. An empty operand does not
// contribute to the result.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Left:   min(r.Left, o.Left),
		Top:    min(r.Top, o.Top),
		Right:  max(r.Right, o.Right),
		Bottom: max(r.Bottom, o.Bottom),
	}
}

// Clamp restricts r to the grid [0,size.X) x [0,size.Y), keeping it
// well-formed (Left<=Right, Top<=Bottom).
func (r Rect) Clamp(size Point) Rect {
	r.Left = clamp(r.Left, 0, size.X)
	r.Top = clamp(r.Top, 0, size.Y)
	r.Right = clamp(r.Right, r.Left, size.X)
	r.Bottom = clamp(r.Bottom, r.Top, size.Y)
	return r
}

// Range is a half-open interval [Lo,Hi) of row or column indices.
type Range struct {
	Lo int
	Hi int
}

// Empty reports whether g contains no indices.
func (g Range) Empty() bool {
	return g.Lo >= g.Hi
}

// Len returns the number of indices in g, or 0 when empty.
func (g Range) Len() int {
	if g.Empty() {
		return 0
	}
	return g.Hi - g.Lo
}

// Union returns the smallest interval containing g and o. An empty operand
// does not contribute to the result.
func (g Range) Union(o Range) Range {
	if g.Empty() {
		return o
	}
	if o.Empty() {
		return g
	}
	return Range{Lo: min(g.Lo, o.Lo), Hi: max(g.Hi, o.Hi)}
}

// Clamp restricts g into [0,limit], keeping Lo<=Hi.
func (g Range) Clamp(limit int) Range {
	g.Lo = clamp(g.Lo, 0, limit)
	g.Hi = clamp(g.Hi, g.Lo, limit)
	return g
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
