package render

import "github.com/npillmayer/termshape/grid"

// Frame is the read-only handoff to the presentation backend at frame end.
// All rects and ranges are in cell units; the presenter scales them by the
// committed cell size. Rows and Background stay owned by the engine and are
// valid until the next BeginFrame.
type Frame struct {
	DirtyRect    grid.Rect
	DirtyRows    grid.Range
	Rows         []grid.ShapedRow
	Background   *grid.Bitmap
	CursorRect   grid.Rect
	ScrollOffset int
	Settings     *grid.Settings
}

// Presenter is the presentation backend attached via [WithPresenter]. The
// engine never calls into presentation beyond these two notifications.
type Presenter interface {
	// ReleaseDeviceResources is invoked from BeginFrame when the target
	// sub-object of the settings snapshot changed. Device-resident state
	// must be dropped and recreated for the new target.
	ReleaseDeviceResources()

	// PresentFrame composites and presents one finished frame.
	PresentFrame(*Frame) error
}
