package render

import "github.com/npillmayer/termshape/grid"

// Cluster is one indivisible unit of painted text: the runes of a grapheme
// cluster plus the number of grid columns it covers.
type Cluster struct {
	Text []rune
	Cols int
}

// CursorOptions describes the cursor for [Engine.PaintCursor].
type CursorOptions struct {
	Coord         grid.Point
	Color         uint32
	UseColor      bool
	Type          grid.CursorType
	HeightPct     uint8
	IsOn          bool
	IsDoubleWidth bool
}

// SetBrushes installs the active color pair and bold/italic key for
// subsequent PaintLine calls. A change of the bold/italic key flushes the
// staged line first: a style must never span a shaping unit.
func (e *Engine) SetBrushes(fg, bg uint32, bold, italic bool) (err error) {
	defer e.absorb("SetBrushes", &err)

	fg |= 0xff000000
	bg |= e.api.backgroundOpaqueMixin

	attrs := attrKey{bold: bold, italic: italic}
	if e.api.attributes != attrs {
		if err := e.flushBufferLine(); err != nil {
			return err
		}
	}
	e.api.currentFG = fg
	e.api.currentBG = bg
	e.api.attributes = attrs
	return nil
}

// SetDefaultBackground records the resolved default background color,
// writing it through into both settings snapshots. Neither snapshot's
// target/font/grid sub-objects change, so no resources rebuild.
func (e *Engine) SetDefaultBackground(bg uint32) {
	bg |= e.api.backgroundOpaqueMixin
	if e.api.s.Misc.BackgroundColor != bg {
		m := grid.MiscSettings{BackgroundColor: bg}
		e.api.s = e.api.s.WithMisc(m)
		e.p.s = e.p.s.WithMisc(m)
	}
}

// PaintLine appends a run of clusters at pos to the line staging buffer. A
// row change relative to the previous call flushes the previously staged
// line into the shaping pipeline. The covered columns receive the active
// color pair in the foreground scratch array and the background bitmap.
func (e *Engine) PaintLine(clusters []Cluster, pos grid.Point) (err error) {
	defer e.absorb("PaintLine", &err)
	if !e.inFrame {
		return ErrNoFrame
	}

	cx := e.p.s.CellCount.X
	cy := e.p.s.CellCount.Y
	y := clampi(pos.Y, 0, max(0, cy-1))

	if e.api.lastPaintLineCoord.Y != y {
		if err := e.flushBufferLine(); err != nil {
			return err
		}
	}

	// bufferLineColumn carries one more entry than bufferLine, the
	// past-the-end column. Pop it; it gets appended again below.
	if n := len(e.api.bufferLineColumn); n > 0 {
		e.api.bufferLineColumn = e.api.bufferLineColumn[:n-1]
	}

	x := clampi(pos.X, 0, cx)
	column := x
	for _, cl := range clusters {
		for _, r := range cl.Text {
			e.api.bufferLine = append(e.api.bufferLine, r)
			e.api.bufferLineColumn = append(e.api.bufferLineColumn, column)
		}
		column += cl.Cols
	}
	e.api.bufferLineColumn = append(e.api.bufferLineColumn, column)

	fillTo := min(column, cx)
	for i := x; i < fillTo; i++ {
		e.api.colorsForeground[i] = e.api.currentFG
	}
	e.p.background.FillRow(y, x, fillTo, e.api.currentBG)

	e.api.lastPaintLineCoord = grid.Point{X: x, Y: y}
	return nil
}

// PaintGridLines requests decoration lines over width columns starting at
// target.
func (e *Engine) PaintGridLines(kinds grid.LineKinds, color uint32, target grid.Point, width int) (err error) {
	defer e.absorb("PaintGridLines", &err)
	if !e.inFrame {
		return ErrNoFrame
	}

	cx := e.p.s.CellCount.X
	cy := e.p.s.CellCount.Y
	y := clampi(target.Y, 0, max(0, cy-1))
	from := clampi(target.X, 0, max(0, cx-1))
	to := clampi(target.X+width, from, cx)

	row := &e.p.rows[y]
	row.GridLineRanges = append(row.GridLineRanges, grid.GridLineRange{
		Kinds: kinds,
		Color: color | 0xff000000,
		From:  from,
		To:    to,
	})
	return nil
}

// PaintSelection marks the selection span of one row and adds it to the
// frame's damage.
func (e *Engine) PaintSelection(rect grid.Rect) (err error) {
	defer e.absorb("PaintSelection", &err)
	if !e.inFrame {
		return ErrNoFrame
	}

	// There is no dedicated notification after the last PaintLine of a row,
	// so the staged line must be flushed here before touching row state.
	if err := e.flushBufferLine(); err != nil {
		return err
	}

	cx := e.p.s.CellCount.X
	cy := e.p.s.CellCount.Y
	y := clampi(rect.Top, 0, max(0, cy-1))
	from := clampi(rect.Left, 0, max(0, cx-1))
	to := clampi(rect.Right, from, cx)

	row := &e.p.rows[y]
	row.SelectionFrom = from
	row.SelectionTo = to
	e.p.dirtyRect = e.p.dirtyRect.Union(grid.Rect{Left: from, Top: y, Right: to, Bottom: y + 1})
	return nil
}

// PaintCursor updates the cursor appearance settings (written through both
// snapshots when changed) and records the cursor rect and its damage.
func (e *Engine) PaintCursor(opts CursorOptions) (err error) {
	defer e.absorb("PaintCursor", &err)
	if !e.inFrame {
		return ErrNoFrame
	}

	if err := e.flushBufferLine(); err != nil {
		return err
	}

	color := uint32(invalidColor)
	if opts.UseColor {
		color = opts.Color | 0xff000000
	}
	cs := grid.CursorSettings{Color: color, Type: opts.Type, HeightPct: opts.HeightPct}
	if *e.api.s.Cursor != cs {
		e.api.s = e.api.s.WithCursor(cs)
		e.p.s = e.p.s.WithCursor(cs)
	}

	// Damage the previous cursor position.
	if r := e.api.invalidatedCursorArea; !r.Empty() {
		e.p.dirtyRect = e.p.dirtyRect.Union(r)
	}

	if opts.IsOn {
		cx := e.p.s.CellCount.X
		cy := e.p.s.CellCount.Y
		// The cursor coordinate can be stale while the window is being
		// resized and the cursor sits on the last viewport line.
		x := clampi(opts.Coord.X, 0, max(0, cx-1))
		y := clampi(opts.Coord.Y, 0, max(0, cy-1))
		w := 1
		if opts.IsDoubleWidth && opts.Type != grid.CursorVerticalBar {
			w = 2
		}
		right := clampi(x+w, 0, cx)
		e.p.cursorRect = grid.Rect{Left: x, Top: y, Right: right, Bottom: y + 1}
		e.p.dirtyRect = e.p.dirtyRect.Union(e.p.cursorRect)
	}
	return nil
}
