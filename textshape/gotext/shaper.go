package gotext

import (
	"errors"
	"io"
	"log"
	"math"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/npillmayer/termshape/textshape"
)

var (
	// ErrNoFonts indicates that the font map could resolve no face at all.
	ErrNoFonts = errors.New("gotext: font map resolves no faces")
)

// Shaper implements [textshape.Service] over a fontscan font map and the
// typesetting HarfBuzz shaper. It is not safe for concurrent use, matching
// the single-producer discipline of the rendering engine.
type Shaper struct {
	fm *fontscan.FontMap
	hb shaping.HarfbuzzShaper
}

// NewShaper wraps an existing font map. The map's query is overwritten on
// every MapCharacters call.
func NewShaper(fm *fontscan.FontMap) *Shaper {
	return &Shaper{fm: fm}
}

// NewSystemShaper creates a shaper over the system's installed fonts,
// caching the font index in cacheDir ("" selects the platform default).
func NewSystemShaper(cacheDir string) (*Shaper, error) {
	fm := fontscan.NewFontMap(log.New(io.Discard, "", 0))
	if err := fm.UseSystemFonts(cacheDir); err != nil {
		return nil, err
	}
	tracer().Infof("system font index ready")
	return &Shaper{fm: fm}, nil
}

// faceHandle is the adapter's [textshape.Face].
type faceHandle struct {
	face   *font.Face
	family string
}

func (f *faceHandle) Family() string { return f.family }

// MapCharacters resolves the longest prefix of text covered by one face.
// Coverage means the face has a nominal glyph for the rune; a prefix of
// uncovered runes is reported with a nil face so the engine can emit
// replacement glyphs for it.
func (s *Shaper) MapCharacters(text []rune, attrs textshape.Attributes, collection textshape.Collection, family string) (int, float32, textshape.Face, error) {
	if len(text) == 0 {
		return 0, 1, nil, nil
	}
	fm := s.fm
	if c, ok := collection.(*fontscan.FontMap); ok && c != nil {
		fm = c
	}
	if fm == nil {
		return 0, 1, nil, ErrNoFonts
	}

	fm.SetQuery(fontscan.Query{
		Families: []string{family},
		Aspect:   aspectFor(attrs),
	})

	first := fm.ResolveFace(text[0])
	if first == nil {
		return 0, 1, nil, ErrNoFonts
	}

	if _, ok := first.NominalGlyph(text[0]); !ok {
		// Uncovered prefix: extend over all consecutive uncovered runes.
		n := 1
		for n < len(text) {
			f := fm.ResolveFace(text[n])
			if f == nil {
				break
			}
			if _, ok := f.NominalGlyph(text[n]); ok {
				break
			}
			n++
		}
		return n, 1, nil, nil
	}

	n := 1
	for n < len(text) {
		if f := fm.ResolveFace(text[n]); f != first {
			break
		}
		if _, ok := first.NominalGlyph(text[n]); !ok {
			break
		}
		n++
	}

	mapped := *first
	if len(attrs.Axes) > 0 {
		vars := make([]font.Variation, 0, len(attrs.Axes))
		for _, av := range attrs.Axes {
			if math.IsNaN(float64(av.Value)) {
				continue
			}
			vars = append(vars, font.Variation{Tag: font.Tag(av.Tag), Value: av.Value})
		}
		mapped.SetVariations(vars)
	}
	return n, 1, &faceHandle{face: &mapped, family: family}, nil
}

// AnalyzeComplexity classifies the longest homogeneous prefix of text. A
// prefix is simple while every rune forms its own single-cell grapheme
// cluster in a script without contextual shaping and has a nominal glyph in
// face; glyph indices of a simple prefix are written to glyphs.
func (s *Shaper) AnalyzeComplexity(text []rune, fc textshape.Face, glyphs []textshape.GlyphID) (bool, int, error) {
	h, ok := fc.(*faceHandle)
	if !ok || h == nil {
		return false, 0, textshape.ErrNilFace
	}
	if len(text) == 0 {
		return true, 0, nil
	}

	clusters := graphemeClusters(text)
	simple := clusterIsSimple(clusters[0], h.face)

	n := 0
	for _, cl := range clusters {
		if clusterIsSimple(cl, h.face) != simple {
			break
		}
		if simple {
			if n >= len(glyphs) {
				return false, 0, textshape.ErrInsufficientBuffer
			}
			gid, _ := h.face.NominalGlyph(cl[0])
			glyphs[n] = textshape.GlyphID(gid)
		}
		n += len(cl)
	}
	return simple, n, nil
}

// AnalyzeScript itemizes text[pos:pos+length] into runs of constant script
// and bidi class. Common and inherited characters join the active run.
func (s *Shaper) AnalyzeScript(text []rune, pos, length int) ([]textshape.ScriptRun, error) {
	if length <= 0 || pos < 0 || pos+length > len(text) {
		return nil, nil
	}

	var runs []textshape.ScriptRun
	cur := textshape.ScriptRun{Position: pos}
	curScript := language.Script(0)

	for i := pos; i < pos+length; i++ {
		r := text[i]
		sc := language.LookupScript(r)
		level := bidiLevel(r)

		mergeable := sc == language.Common || sc == language.Inherited || sc == curScript || curScript == 0
		if cur.Length > 0 && (!mergeable || level != cur.BidiLevel) {
			runs = append(runs, cur)
			cur = textshape.ScriptRun{Position: i}
			curScript = 0
		}
		if curScript == 0 && sc != language.Common && sc != language.Inherited {
			curScript = sc
			cur.Script = textshape.Script(sc)
		}
		if cur.Length == 0 {
			cur.BidiLevel = level
		}
		cur.Length++
	}
	if cur.Length > 0 {
		runs = append(runs, cur)
	}
	return runs, nil
}

// GetGlyphs shapes one script run and reports glyph indices plus the
// rune-to-first-glyph cluster map.
func (s *Shaper) GetGlyphs(text []rune, fc textshape.Face, run textshape.ScriptRun, features []textshape.Feature, clusterMap []uint16, glyphs []textshape.GlyphID, props []textshape.GlyphProp) (int, error) {
	h, ok := fc.(*faceHandle)
	if !ok || h == nil {
		return 0, textshape.ErrNilFace
	}

	out := s.shape(text, h, run, features, 16)
	n := len(out.Glyphs)
	if n > len(glyphs) || n > len(props) {
		return 0, textshape.ErrInsufficientBuffer
	}
	if len(clusterMap) < len(text) {
		return 0, textshape.ErrInsufficientBuffer
	}

	for i, g := range out.Glyphs {
		glyphs[i] = textshape.GlyphID(g.GlyphID)
		props[i] = textshape.GlyphProp(g.GlyphCount)
	}

	// Shaped LTR, so clusters appear in increasing glyph order: the first
	// glyph of each cluster carries the cluster's rune and glyph counts.
	runeIdx, gi := 0, 0
	for gi < n && runeIdx < len(text) {
		g := out.Glyphs[gi]
		for k := 0; k < g.RuneCount && runeIdx < len(text); k++ {
			clusterMap[runeIdx] = uint16(gi)
			runeIdx++
		}
		gi += max(1, g.GlyphCount)
	}
	for ; runeIdx < len(text); runeIdx++ {
		clusterMap[runeIdx] = uint16(n)
	}
	return n, nil
}

// GetGlyphPlacements re-shapes the run at emSize and converts the fixed
// point advances and offsets to DIP.
func (s *Shaper) GetGlyphPlacements(text []rune, fc textshape.Face, run textshape.ScriptRun, features []textshape.Feature, clusterMap []uint16, glyphs []textshape.GlyphID, props []textshape.GlyphProp, glyphCount int, emSize float32, advances []float32, offsets []textshape.GlyphOffset) error {
	h, ok := fc.(*faceHandle)
	if !ok || h == nil {
		return textshape.ErrNilFace
	}
	if glyphCount > len(advances) || glyphCount > len(offsets) {
		return textshape.ErrInsufficientBuffer
	}

	out := s.shape(text, h, run, features, emSize)
	fillPlacements(out, glyphCount, advances, offsets)
	return nil
}

// fillPlacements converts the shaped fixed point geometry to DIP. Should the
// re-shape produce fewer glyphs than negotiated, the remaining slots are
// zeroed; the scratch buffers are reused across runs and must not leak a
// previous run's values into the caller's advance sums.
func fillPlacements(out shaping.Output, glyphCount int, advances []float32, offsets []textshape.GlyphOffset) {
	n := min(glyphCount, len(out.Glyphs))
	for i := 0; i < n; i++ {
		g := out.Glyphs[i]
		advances[i] = fromFixed(g.XAdvance)
		offsets[i] = textshape.GlyphOffset{X: fromFixed(g.XOffset), Y: fromFixed(g.YOffset)}
	}
	for i := n; i < glyphCount; i++ {
		advances[i] = 0
		offsets[i] = textshape.GlyphOffset{}
	}
}

// GlyphIndex looks up the nominal glyph for a codepoint.
func (s *Shaper) GlyphIndex(fc textshape.Face, r rune) (textshape.GlyphID, error) {
	h, ok := fc.(*faceHandle)
	if !ok || h == nil {
		return 0, textshape.ErrNilFace
	}
	gid, ok := h.face.NominalGlyph(r)
	if !ok {
		return 0, textshape.ErrGlyphNotFound
	}
	return textshape.GlyphID(gid), nil
}

func (s *Shaper) shape(text []rune, h *faceHandle, run textshape.ScriptRun, features []textshape.Feature, emSize float32) shaping.Output {
	input := shaping.Input{
		Text:      text,
		RunStart:  0,
		RunEnd:    len(text),
		Face:      h.face,
		Size:      toFixed(emSize),
		Script:    language.Script(run.Script),
		Language:  language.DefaultLanguage(),
		Direction: di.DirectionLTR,
	}
	if len(features) > 0 {
		ff := make([]shaping.FontFeature, len(features))
		for i, f := range features {
			ff[i] = shaping.FontFeature{Tag: font.Tag(f.Tag), Value: f.Value}
		}
		input.FontFeatures = ff
	}
	return s.hb.Shape(input)
}

func aspectFor(attrs textshape.Attributes) font.Aspect {
	weight := float32(attrs.Weight)
	italic := attrs.Italic
	if len(attrs.Axes) >= 2 {
		if w := attrs.Axes[0].Value; !math.IsNaN(float64(w)) && w > 0 {
			weight = w
		}
		if it := attrs.Axes[1].Value; !math.IsNaN(float64(it)) {
			italic = it >= 0.5
		}
	}
	aspect := font.Aspect{Weight: font.Weight(weight), Style: font.StyleNormal}
	if aspect.Weight == 0 {
		aspect.Weight = font.WeightNormal
	}
	if italic {
		aspect.Style = font.StyleItalic
	}
	return aspect
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v*64 + 0.5)
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
