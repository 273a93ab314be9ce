package grid

// Bitmap stores one background color per cell, row-major.
type Bitmap struct {
	Cells  []uint32
	Width  int
	Height int
}

// NewBitmap allocates a zeroed w*h cell bitmap.
func NewBitmap(w, h int) *Bitmap {
	return &Bitmap{
		Cells:  make([]uint32, w*h),
		Width:  w,
		Height: h,
	}
}

// Row returns the cell colors of row y.
func (b *Bitmap) Row(y int) []uint32 {
	beg := y * b.Width
	return b.Cells[beg : beg+b.Width]
}

// FillRow sets the cells [x0,x1) of row y to color.
func (b *Bitmap) FillRow(y, x0, x1 int, color uint32) {
	row := b.Row(y)
	for x := x0; x < x1; x++ {
		row[x] = color
	}
}

// Shift moves the bitmap content by offset rows (negative = up) in one
// block copy. Source and destination ranges overlap; copy's memmove
// semantics keep the move safe in both directions. Cells uncovered by the
// shift keep their previous contents and are expected to be overwritten by
// the re-shaped rows.
func (b *Bitmap) Shift(offset int) {
	dst := max(0, offset) * b.Width
	src := -min(0, offset) * b.Width
	n := len(b.Cells) - max(src, dst)
	if n <= 0 {
		return
	}
	copy(b.Cells[dst:dst+n], b.Cells[src:src+n])
}
