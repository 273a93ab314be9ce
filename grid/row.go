package grid

import "github.com/npillmayer/termshape/textshape"

// FontMapping attributes the glyph sub-range [GlyphFrom,GlyphTo) of a row to
// one resolved font face at a given em size.
type FontMapping struct {
	Face      textshape.Face
	EmSize    float32
	GlyphFrom int
	GlyphTo   int
}

// LineKinds is a bitmask of grid-line decorations for a column range.
type LineKinds uint8

const (
	LineLeft LineKinds = 1 << iota
	LineTop
	LineRight
	LineBottom
	LineUnderline
	LineDoubleUnderline
	LineStrikethrough
)

// GridLineRange requests decoration lines over the columns [From,To).
type GridLineRange struct {
	Kinds LineKinds
	Color uint32
	From  int
	To    int
}

// ShapedRow is the shaped output record of one grid row.
//
// GlyphIndices, GlyphAdvances, GlyphOffsets and Colors are parallel slices
// of equal length; Mappings partitions [0,len(GlyphIndices)) without gaps or
// overlaps, in increasing order. Top and Bottom are the row's pixel bounds.
type ShapedRow struct {
	GlyphIndices   []textshape.GlyphID
	GlyphAdvances  []float32
	GlyphOffsets   []textshape.GlyphOffset
	Colors         []uint32
	Mappings       []FontMapping
	GridLineRanges []GridLineRange
	SelectionFrom  int
	SelectionTo    int
	Top            int
	Bottom         int
}

// GlyphCount returns the number of shaped glyphs in the row.
func (r *ShapedRow) GlyphCount() int {
	return len(r.GlyphIndices)
}

// Clear empties the row's shaped content without releasing its buffers and
// resets the pixel bounds for grid row y at the given cell height.
func (r *ShapedRow) Clear(y, cellHeightPx int) {
	r.GlyphIndices = r.GlyphIndices[:0]
	r.GlyphAdvances = r.GlyphAdvances[:0]
	r.GlyphOffsets = r.GlyphOffsets[:0]
	r.Colors = r.Colors[:0]
	r.Mappings = r.Mappings[:0]
	r.GridLineRanges = r.GridLineRanges[:0]
	r.SelectionFrom = 0
	r.SelectionTo = 0
	r.Top = y * cellHeightPx
	r.Bottom = r.Top + cellHeightPx
}

// ShiftRows relocates rows by offset grid rows as a ring rotation: a
// negative offset moves rows toward index 0 (scroll up), a positive one
// toward the end. Rows falling off one edge re-enter at the other with their
// buffers intact, so every row record keeps unique ownership of its slices;
// the caller is expected to clear the re-entered rows.
func ShiftRows(rows []ShapedRow, offset int) {
	n := len(rows)
	if n == 0 {
		return
	}
	k := ((-offset)%n + n) % n
	if k == 0 {
		return
	}
	reverseRows(rows[:k])
	reverseRows(rows[k:])
	reverseRows(rows)
}

func reverseRows(rows []ShapedRow) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
