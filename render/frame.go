package render

import (
	"fmt"
	"math"

	"github.com/npillmayer/termshape/grid"
	"github.com/npillmayer/termshape/textshape"
)

// BeginFrame reconciles the proposed settings into the committed snapshot,
// applies the pending scroll to the row store and background bitmap, clamps
// and merges all pending invalidation, and clears every row in the final
// dirty range. It must be called exactly once before the frame's paint
// calls.
func (e *Engine) BeginFrame() (err error) {
	defer e.absorb("BeginFrame", &err)
	if e.inFrame {
		return ErrFrameActive
	}

	if e.p.s != e.api.s {
		e.handleSettingsUpdate()
	}

	cx := e.p.s.CellCount.X
	cy := e.p.s.CellCount.Y

	// Clamp invalidation input into valid ranges. Callers may race a resize
	// and hand us stale coordinates; those are clamped, never rejected.
	e.api.invalidatedCursorArea = e.api.invalidatedCursorArea.Clamp(e.p.s.CellCount)
	e.api.invalidatedRows = e.api.invalidatedRows.Clamp(cy)
	e.api.scrollOffset = clampi(e.api.scrollOffset, -cy, cy)

	// Scroll the row store by the pending offset and mark the uncovered
	// rows invalid.
	if offset := e.api.scrollOffset; offset != 0 {
		nothingInvalid := e.api.invalidatedRows.Empty()
		deltaPx := offset * e.p.s.Font.CellSize.Y

		if offset < 0 {
			// Scroll up, e.g. when new text is written at the bottom of the
			// buffer. Rows move toward index 0; the tail rows are exposed.
			endRow := cy + offset
			if nothingInvalid {
				e.api.invalidatedRows.Lo = endRow
			} else {
				e.api.invalidatedRows.Lo = min(e.api.invalidatedRows.Lo, endRow)
			}
			e.api.invalidatedRows.Hi = cy
		} else {
			// Scroll down. Rows move toward the end; the head rows are
			// exposed.
			e.api.invalidatedRows.Lo = 0
			if nothingInvalid {
				e.api.invalidatedRows.Hi = offset
			} else {
				e.api.invalidatedRows.Hi = max(e.api.invalidatedRows.Hi, offset)
			}
		}

		grid.ShiftRows(e.p.rows, offset)

		// Surviving rows keep their content but move by deltaPx; the rows
		// rotated back in are cleared below as part of the dirty range.
		lo, hi := 0, cy+offset
		if offset > 0 {
			lo, hi = offset, cy
		}
		for i := lo; i < hi; i++ {
			e.p.rows[i].Top += deltaPx
			e.p.rows[i].Bottom += deltaPx
		}

		e.p.background.Shift(offset)
	}

	for y := e.api.invalidatedRows.Lo; y < e.api.invalidatedRows.Hi; y++ {
		e.p.rows[y].Clear(y, e.p.s.Font.CellSize.Y)
	}

	e.p.dirtyRect = grid.Rect{Left: 0, Top: e.api.invalidatedRows.Lo, Right: cx, Bottom: e.api.invalidatedRows.Hi}
	e.p.cursorRect = grid.Rect{}
	e.p.scrollOffset = e.api.scrollOffset

	e.inFrame = true
	return nil
}

// EndFrame flushes the last staged line, hands the finished frame to the
// presenter (when one is attached), and resets the pending invalidation.
// The returned frame stays valid until the next BeginFrame. A failed
// EndFrame abandons the frame: the pending invalidation survives, so the
// half-built rows are rebuilt the next time a frame starts.
func (e *Engine) EndFrame() (frame *Frame, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errRender(fmt.Sprintf("EndFrame: %v", r))
			tracer().Errorf("frame aborted in EndFrame: %v", r)
		}
		if err != nil {
			e.inFrame = false
		}
	}()
	if !e.inFrame {
		return nil, ErrNoFrame
	}

	if err := e.flushBufferLine(); err != nil {
		return nil, err
	}

	frame = &Frame{
		DirtyRect:    e.p.dirtyRect,
		DirtyRows:    e.api.invalidatedRows,
		Rows:         e.p.rows,
		Background:   e.p.background,
		CursorRect:   e.p.cursorRect,
		ScrollOffset: e.p.scrollOffset,
		Settings:     e.p.s,
	}

	e.api.invalidatedCursorArea = grid.Rect{}
	e.api.invalidatedRows = grid.Range{}
	e.api.scrollOffset = 0
	e.inFrame = false

	if e.presenter != nil {
		if perr := e.presenter.PresentFrame(frame); perr != nil {
			tracer().Errorf("presenter rejected frame: %v", perr)
			return frame, perr
		}
	}
	return frame, nil
}

// handleSettingsUpdate commits the proposed snapshot. Sub-objects are
// compared by identity: the copy-on-write contract of package grid
// guarantees that a shared pointer implies unchanged contents.
func (e *Engine) handleSettingsUpdate() {
	targetChanged := e.p.s.Target != e.api.s.Target
	fontChanged := e.p.s.Font != e.api.s.Font
	cellCountChanged := e.p.s.CellCount != e.api.s.CellCount

	e.p.s = e.api.s

	if targetChanged && e.presenter != nil {
		e.presenter.ReleaseDeviceResources()
	}
	if fontChanged {
		e.recreateFontDependentResources()
	}
	if cellCountChanged {
		e.recreateCellCountDependentResources()
	}

	e.api.invalidatedRows = rangeAll
	tracer().Debugf("settings committed (target=%v font=%v cells=%v)",
		targetChanged, fontChanged, cellCountChanged)
}

func (e *Engine) recreateFontDependentResources() {
	font := e.p.s.Font
	d := &e.p.font

	d.dipPerPixel = 96.0 / float32(font.DPI)
	d.pixelPerDIP = float32(font.DPI) / 96.0
	d.cellSizeDIP.X = float32(font.CellSize.X) * d.dipPerPixel
	d.cellSizeDIP.Y = float32(font.CellSize.Y) * d.dipPerPixel
	d.axes = [2][2][]textshape.AxisValue{}

	// Indices 0/1/2 of the configured axis values are reserved for the
	// weight/italic/slant axes. A NaN value was not set by the user and must
	// be filled with a default, or bold/italic text would become impossible
	// once the axis table overrides the service's own axes.
	if len(font.AxisValues) >= 3 {
		for italic := 0; italic < 2; italic++ {
			for bold := 0; bold < 2; bold++ {
				axes := append([]textshape.AxisValue(nil), font.AxisValues...)
				switch {
				case bold == 1:
					axes[0].Value = boldWeight
				case math.IsNaN(float64(axes[0].Value)):
					axes[0].Value = float32(font.Weight)
				}
				switch {
				case italic == 1:
					axes[1].Value = 1
				case math.IsNaN(float64(axes[1].Value)):
					axes[1].Value = 0
				}
				switch {
				case italic == 1:
					axes[2].Value = -12
				case math.IsNaN(float64(axes[2].Value)):
					axes[2].Value = 0
				}
				d.axes[italic][bold] = axes
			}
		}
	}

	e.api.replacementFace = nil
	e.api.replacementGlyph = 0
	e.api.replacementLookedUp = false
}

func (e *Engine) recreateCellCountDependentResources() {
	cells := e.p.s.CellCount

	// Guess that every cell holds a surrogate pair's worth of text; glyph
	// buffers follow the usual shaping estimate of 3*textLength/2 + 16.
	projectedText := cells.X * 2
	projectedGlyph := 3*projectedText/2 + 16

	e.api.bufferLine = make([]rune, 0, projectedText)
	e.api.bufferLineColumn = make([]int, 0, projectedText+1)
	e.api.colorsForeground = make([]uint32, cells.X)

	e.api.clusterMap = make([]uint16, projectedText+1)
	e.api.glyphIndices = make([]textshape.GlyphID, projectedGlyph)
	e.api.glyphProps = make([]textshape.GlyphProp, projectedGlyph)
	e.api.glyphAdvances = make([]float32, projectedGlyph)
	e.api.glyphOffsets = make([]textshape.GlyphOffset, projectedGlyph)

	e.p.rows = make([]grid.ShapedRow, cells.Y)
	e.p.background = grid.NewBitmap(cells.X, cells.Y)
}
