package textshape

import "errors"

var (
	// ErrInsufficientBuffer signals that a caller-supplied output buffer is too
	// small. Callers are expected to grow their scratch buffers and retry.
	ErrInsufficientBuffer = errors.New("textshape: insufficient output buffer capacity")
	// ErrNilFace indicates that a nil font face was passed to an operation
	// which requires one.
	ErrNilFace = errors.New("textshape: nil font face")
	// ErrGlyphNotFound indicates that a face has no glyph for a codepoint.
	ErrGlyphNotFound = errors.New("textshape: no glyph for codepoint")
)

// GlyphID is a glyph index within a font face.
type GlyphID uint16

// Script is an opaque script identifier. Values are produced and consumed by
// the same [Service]; the pipeline never interprets them.
type Script uint32

// GlyphOffset is a glyph's placement offset relative to its pen position,
// in DIP.
type GlyphOffset struct {
	X float32
	Y float32
}

// GlyphProp carries service-defined per-glyph shaping properties. The
// pipeline stores and passes these through between [Service.GetGlyphs] and
// [Service.GetGlyphPlacements] without interpreting them.
type GlyphProp uint16

// Feature is an OpenType font feature selection, e.g. {Tag: 'l','i','g','a'}.
type Feature struct {
	Tag   uint32
	Value uint32
}

// AxisValue sets one variable-font axis. A NaN value means "unset"; the
// pipeline fills unset weight/italic/slant axes with computed defaults.
type AxisValue struct {
	Tag   uint32
	Value float32
}

// Attributes selects a font variant for character mapping. When Axes is
// non-nil it takes precedence over the Weight/Italic flags.
type Attributes struct {
	Axes   []AxisValue
	Weight uint16
	Italic bool
}

// ScriptRun is one itemized script segment of an analyzed text range.
type ScriptRun struct {
	Script    Script
	Position  int
	Length    int
	BidiLevel uint8
}

// Face is an opaque handle to a resolved font face.
type Face interface {
	// Family returns the resolved family name of the face.
	Family() string
}

// Collection is an opaque font-source handle, carried in the font settings
// and interpreted only by the [Service] implementation. A nil collection
// selects the service's default source.
type Collection any

// NewTag packs a 4-character OpenType tag.
func NewTag(a, b, c, d byte) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d)
}

// Service performs character-to-glyph mapping, complexity and script
// analysis, and glyph placement. Implementations must be usable from a
// single goroutine; the pipeline never calls a service concurrently.
type Service interface {
	// MapCharacters maps the longest prefix of text which a single font face
	// can render, resolving the face from collection (or the service default
	// source when nil) and the family name, honoring attrs.
	//
	// A nil face with nil error means no installed face covers the first
	// mappedLen runes; the caller falls back to replacement glyphs for that
	// prefix. mappedLen is in runes and always positive for non-empty text;
	// scale is the relative size adjustment for the face (1.0 for an exact
	// match).
	MapCharacters(text []rune, attrs Attributes, collection Collection, family string) (mappedLen int, scale float32, face Face, err error)

	// AnalyzeComplexity classifies the longest homogeneous prefix of text as
	// either simple (one glyph per rune, no reordering, fixed pitch) or
	// complex. For a simple prefix the nominal glyph indices are written to
	// glyphs[:runLen]; glyphs must therefore have room for len(text) entries.
	AnalyzeComplexity(text []rune, face Face, glyphs []GlyphID) (simple bool, runLen int, err error)

	// AnalyzeScript itemizes text[pos:pos+length] into script runs with
	// resolved bidi levels, in text order.
	AnalyzeScript(text []rune, pos, length int) ([]ScriptRun, error)

	// GetGlyphs shapes one script run into glyph indices. clusterMap receives
	// for each rune the index of its cluster's first glyph and must hold
	// run.Length entries; glyphs and props receive one entry per produced
	// glyph. Returns [ErrInsufficientBuffer] when glyphs/props are too small
	// for the shaped result.
	GetGlyphs(text []rune, face Face, run ScriptRun, features []Feature, clusterMap []uint16, glyphs []GlyphID, props []GlyphProp) (glyphCount int, err error)

	// GetGlyphPlacements computes advances and offsets, in DIP at emSize, for
	// glyphs previously produced by [Service.GetGlyphs] with identical
	// arguments. advances and offsets must hold glyphCount entries.
	GetGlyphPlacements(text []rune, face Face, run ScriptRun, features []Feature, clusterMap []uint16, glyphs []GlyphID, props []GlyphProp, glyphCount int, emSize float32, advances []float32, offsets []GlyphOffset) error

	// GlyphIndex looks up the nominal glyph for a single codepoint. Returns
	// [ErrGlyphNotFound] if the face has no mapping for r.
	GlyphIndex(face Face, r rune) (GlyphID, error)
}
