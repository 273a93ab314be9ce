package gotext

import (
	"testing"

	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/npillmayer/termshape/textshape"
)

func TestFixedPointConversionRoundTrips(t *testing.T) {
	for _, v := range []float32{0, 1, 8, 12.5, 100.25} {
		if got := fromFixed(toFixed(v)); got != v {
			t.Fatalf("round trip of %v = %v", v, got)
		}
	}
}

func TestPlacementFillConvertsToDIP(t *testing.T) {
	out := shaping.Output{Glyphs: []shaping.Glyph{
		{XAdvance: fixed.I(8), XOffset: fixed.I(1), YOffset: fixed.I(-2)},
		{XAdvance: fixed.I(4)},
	}}
	advances := make([]float32, 2)
	offsets := make([]textshape.GlyphOffset, 2)

	fillPlacements(out, 2, advances, offsets)

	if advances[0] != 8 || advances[1] != 4 {
		t.Fatalf("advances = %v, want [8 4]", advances)
	}
	if offsets[0] != (textshape.GlyphOffset{X: 1, Y: -2}) {
		t.Fatalf("offsets[0] = %+v", offsets[0])
	}
}

func TestPlacementFillZeroesStaleTail(t *testing.T) {
	// The scratch buffers carry values from a previous run; a re-shape
	// yielding fewer glyphs than negotiated must not leave them behind.
	advances := []float32{99, 99, 99, 99}
	offsets := []textshape.GlyphOffset{{X: 9}, {X: 9}, {X: 9}, {X: 9}}
	out := shaping.Output{Glyphs: []shaping.Glyph{{XAdvance: fixed.I(8)}}}

	fillPlacements(out, 4, advances, offsets)

	if advances[0] != 8 {
		t.Fatalf("advances[0] = %v, want 8", advances[0])
	}
	for i := 1; i < 4; i++ {
		if advances[i] != 0 || offsets[i] != (textshape.GlyphOffset{}) {
			t.Fatalf("slot %d kept stale placement: advance=%v offset=%+v",
				i, advances[i], offsets[i])
		}
	}
}
