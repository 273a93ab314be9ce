package grid

import "github.com/npillmayer/termshape/textshape"

// TargetSettings identifies the presentation surface the shaped output is
// composited onto. The pipeline never interprets Surface; a change of the
// target sub-object tells the presenter to release device-resident state.
type TargetSettings struct {
	Surface any
}

// FontSettings describes the configured terminal font and cell metrics.
//
// When AxisValues is non-empty, indices 0/1/2 are reserved for the
// weight/italic/slant axes. A NaN value means "unset by the user"; the
// engine fills those slots with computed defaults per bold/italic variant.
type FontSettings struct {
	DPI        int
	CellSize   Point // in device pixels
	SizeInDIP  float32
	Weight     uint16
	AxisValues []textshape.AxisValue
	Features   []textshape.Feature
	Collection textshape.Collection
	Family     string
}

// CursorType selects the cursor shape drawn by the presenter.
type CursorType uint8

const (
	CursorLegacy CursorType = iota
	CursorVerticalBar
	CursorUnderscore
	CursorEmptyBox
	CursorFullBox
)

// CursorSettings describes cursor appearance. Color 0 means "invert".
type CursorSettings struct {
	Color     uint32
	Type      CursorType
	HeightPct uint8
}

// MiscSettings carries remaining presentation state.
type MiscSettings struct {
	BackgroundColor uint32
}

// Settings is one configuration snapshot. Sub-objects are shared by pointer
// across snapshots and must never be mutated in place; see the package
// documentation for the copy-on-write contract.
type Settings struct {
	Target    *TargetSettings
	Font      *FontSettings
	CellCount Point
	Cursor    *CursorSettings
	Misc      *MiscSettings
}

// NewSettings returns a snapshot with all sub-objects allocated and filled
// with usable defaults (96 DPI, 8x16 px cells, 80x24 grid).
func NewSettings() *Settings {
	return &Settings{
		Target: &TargetSettings{},
		Font: &FontSettings{
			DPI:       96,
			CellSize:  Point{X: 8, Y: 16},
			SizeInDIP: 12,
			Weight:    400,
			Family:    "monospace",
		},
		CellCount: Point{X: 80, Y: 24},
		Cursor: &CursorSettings{
			Color:     0xffffffff,
			Type:      CursorLegacy,
			HeightPct: 20,
		},
		Misc: &MiscSettings{BackgroundColor: 0xff000000},
	}
}

// WithTarget returns a new snapshot with the target sub-object replaced.
func (s *Settings) WithTarget(t TargetSettings) *Settings {
	c := *s
	c.Target = &t
	return &c
}

// WithFont returns a new snapshot with the font sub-object replaced.
func (s *Settings) WithFont(f FontSettings) *Settings {
	c := *s
	c.Font = &f
	return &c
}

// WithCellCount returns a new snapshot with the grid dimensions replaced.
func (s *Settings) WithCellCount(cells Point) *Settings {
	c := *s
	c.CellCount = cells
	return &c
}

// WithCursor returns a new snapshot with the cursor sub-object replaced.
func (s *Settings) WithCursor(cs CursorSettings) *Settings {
	c := *s
	c.Cursor = &cs
	return &c
}

// WithMisc returns a new snapshot with the misc sub-object replaced.
func (s *Settings) WithMisc(m MiscSettings) *Settings {
	c := *s
	c.Misc = &m
	return &c
}
