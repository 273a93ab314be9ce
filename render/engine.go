package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/termshape/grid"
	"github.com/npillmayer/termshape/textshape"
)

var (
	// ErrNilService indicates that no font shaping service was supplied.
	ErrNilService = errors.New("render: nil font shaping service")
	// ErrNoFrame indicates a paint call outside of BeginFrame/EndFrame.
	ErrNoFrame = errors.New("render: paint call outside of an active frame")
	// ErrFrameActive indicates BeginFrame while a frame is already active.
	ErrFrameActive = errors.New("render: BeginFrame while a frame is active")
)

// boldWeight is the weight selected for bold text when the configured font
// carries no explicit weight axis.
const boldWeight = 700

// replacementChar is the codepoint substituted for characters no installed
// font covers.
const replacementChar = '�'

// invalidColor requests color inversion for the cursor.
const invalidColor = 0xffffffff

// rangeAll marks every row invalid; clamped to the cell count at frame start.
var rangeAll = grid.Range{Lo: 0, Hi: math.MaxInt32}

type attrKey struct {
	bold   bool
	italic bool
}

type pointF struct {
	X float32
	Y float32
}

// apiState is mutated by the caller under its data lock: proposed settings,
// raw invalidation, the line staging buffer, and the shaping scratch
// buffers. Scratch buffers live here (not in paintState) because their size
// is negotiated during shaping but their lifetime follows the cell count.
type apiState struct {
	s *grid.Settings

	invalidatedCursorArea grid.Rect
	invalidatedRows       grid.Range
	scrollOffset          int

	// Line staging buffer: bufferLineColumn holds one more entry than
	// bufferLine, the past-the-end column of the staged text.
	bufferLine         []rune
	bufferLineColumn   []int
	colorsForeground   []uint32
	currentFG          uint32
	currentBG          uint32
	attributes         attrKey
	lastPaintLineCoord grid.Point

	backgroundOpaqueMixin uint32

	clusterMap    []uint16
	glyphIndices  []textshape.GlyphID
	glyphProps    []textshape.GlyphProp
	glyphAdvances []float32
	glyphOffsets  []textshape.GlyphOffset

	replacementFace     textshape.Face
	replacementGlyph    textshape.GlyphID
	replacementLookedUp bool
}

// derivedFont caches values computed from the committed font settings.
type derivedFont struct {
	dipPerPixel float32
	pixelPerDIP float32
	cellSizeDIP pointF
	// axes[italic][bold] holds the resolved axis table per variant, or nil
	// when the font has no configured axis values.
	axes [2][2][]textshape.AxisValue
}

// paintState is owned by the paint pass: committed settings, the row store,
// the background bitmap and the accumulated damage of the current frame.
type paintState struct {
	s *grid.Settings

	rows       []grid.ShapedRow
	background *grid.Bitmap

	dirtyRect    grid.Rect
	cursorRect   grid.Rect
	scrollOffset int

	font derivedFont
}

// Engine is the per-frame shaping and damage-tracking pipeline. It is not
// safe for concurrent use; see the package documentation for the intended
// two-phase calling discipline.
type Engine struct {
	svc       textshape.Service
	presenter Presenter

	api apiState
	p   paintState

	inFrame bool
}

// Option configures an [Engine] during construction.
type Option func(*Engine)

// WithPresenter attaches a presentation backend which receives every
// finished frame.
func WithPresenter(p Presenter) Option {
	return func(e *Engine) { e.presenter = p }
}

// WithSettings installs the initial settings snapshot. The snapshot must
// follow the copy-on-write contract of package grid.
func WithSettings(s *grid.Settings) Option {
	return func(e *Engine) {
		if s != nil {
			e.api.s = s
		}
	}
}

// New creates an engine over the given font shaping service. All derived
// resources are allocated for the initial settings; the whole grid starts
// out invalid.
func New(svc textshape.Service, opts ...Option) (*Engine, error) {
	if svc == nil {
		return nil, ErrNilService
	}
	e := &Engine{svc: svc}
	e.api.s = grid.NewSettings()
	e.api.backgroundOpaqueMixin = 0xff000000
	for _, opt := range opts {
		opt(e)
	}
	e.p.s = e.api.s
	e.recreateFontDependentResources()
	e.recreateCellCountDependentResources()
	e.api.invalidatedRows = rangeAll
	return e, nil
}

// Settings returns the proposed settings snapshot. Callers must treat it as
// immutable and install changes through the Set* methods or
// [Engine.UpdateSettings].
func (e *Engine) Settings() *grid.Settings {
	return e.api.s
}

// UpdateSettings replaces the proposed settings snapshot with f's result.
// Returning nil from f keeps the current snapshot.
func (e *Engine) UpdateSettings(f func(*grid.Settings) *grid.Settings) {
	if s := f(e.api.s); s != nil {
		e.api.s = s
	}
}

// SetFont replaces the proposed font settings. Takes effect at the next
// BeginFrame, which rebuilds all font-dependent resources.
func (e *Engine) SetFont(f grid.FontSettings) {
	e.api.s = e.api.s.WithFont(f)
}

// SetTarget replaces the proposed target surface. A target change makes the
// presenter release its device-resident state at the next BeginFrame.
func (e *Engine) SetTarget(t grid.TargetSettings) {
	e.api.s = e.api.s.WithTarget(t)
}

// Resize sets the proposed cell grid dimensions. Takes effect at the next
// BeginFrame, which reallocates the row store and marks everything dirty.
func (e *Engine) Resize(cols, rows int) {
	e.api.s = e.api.s.WithCellCount(grid.Point{X: cols, Y: rows})
}

// Invalidate merges a row range into the pending invalidation. Out-of-range
// input is clamped at frame start, never rejected.
func (e *Engine) Invalidate(rows grid.Range) {
	e.api.invalidatedRows = e.api.invalidatedRows.Union(rows)
}

// InvalidateCursor merges a cell rect covering the previous cursor position
// into the pending invalidation.
func (e *Engine) InvalidateCursor(r grid.Rect) {
	e.api.invalidatedCursorArea = e.api.invalidatedCursorArea.Union(r)
}

// InvalidateScroll accumulates a vertical scroll of deltaRows (negative =
// content moves up). Opposite deltas within one frame cancel out.
func (e *Engine) InvalidateScroll(deltaRows int) {
	e.api.scrollOffset += deltaRows
}

// InvalidateAll marks the whole grid dirty.
func (e *Engine) InvalidateAll() {
	e.api.invalidatedRows = rangeAll
}

// absorb converts a panic escaping a frame-facing entry point into a frame
// status error. The engine stays valid; a failed frame is simply abandoned
// and its rows are rebuilt once re-marked dirty.
func (e *Engine) absorb(op string, err *error) {
	if r := recover(); r != nil {
		*err = errRender(fmt.Sprintf("%s: %v", op, r))
		tracer().Errorf("frame aborted in %s: %v", op, r)
	}
}

// foregroundAt returns the staged foreground color for a column, tolerating
// columns beyond the grid from racing resizes.
func (e *Engine) foregroundAt(col int) uint32 {
	n := len(e.api.colorsForeground)
	if n == 0 {
		return 0
	}
	if col >= n {
		col = n - 1
	}
	if col < 0 {
		col = 0
	}
	return e.api.colorsForeground[col]
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
