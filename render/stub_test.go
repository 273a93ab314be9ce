package render

import (
	"testing"

	"github.com/npillmayer/termshape/grid"
	"github.com/npillmayer/termshape/textshape"
)

// stubFace is the test double for a resolved font face.
type stubFace struct {
	name string
}

func (f *stubFace) Family() string { return f.name }

// stubService is a deterministic font shaping service: every mapped rune
// resolves to one face, simple runes shape to one glyph per rune with the
// rune's value as glyph index, and complex runs shape to fixed-size clusters
// with a configurable natural advance.
type stubService struct {
	face *stubFace

	unmapped map[rune]bool // runes no face covers
	complex  map[rune]bool // runes requiring the complex path

	clusterSize      int     // runes per complex cluster; 0 = whole run
	glyphsPerCluster int     // glyphs per complex cluster; 0 = 1
	naturalAdvance   float32 // advance reported by placement, in DIP

	minGlyphCapacity int // GetGlyphs demands this capacity before succeeding

	mapCalls   int
	glyphCalls int
}

func newStubService() *stubService {
	return &stubService{
		face:           &stubFace{name: "Stub Mono"},
		unmapped:       map[rune]bool{},
		complex:        map[rune]bool{},
		naturalAdvance: 3,
	}
}

func (s *stubService) MapCharacters(text []rune, attrs textshape.Attributes, collection textshape.Collection, family string) (int, float32, textshape.Face, error) {
	s.mapCalls++
	if len(text) == 0 {
		return 0, 1, nil, nil
	}
	uncovered := s.unmapped[text[0]]
	n := 0
	for _, r := range text {
		if s.unmapped[r] != uncovered {
			break
		}
		n++
	}
	if uncovered {
		return n, 1, nil, nil
	}
	return n, 1, s.face, nil
}

func (s *stubService) AnalyzeComplexity(text []rune, face textshape.Face, glyphs []textshape.GlyphID) (bool, int, error) {
	if face == nil {
		return false, 0, textshape.ErrNilFace
	}
	if len(text) == 0 {
		return true, 0, nil
	}
	complex := s.complex[text[0]]
	n := 0
	for _, r := range text {
		if s.complex[r] != complex {
			break
		}
		n++
	}
	if complex {
		return false, n, nil
	}
	if n > len(glyphs) {
		return false, 0, textshape.ErrInsufficientBuffer
	}
	for i := 0; i < n; i++ {
		glyphs[i] = textshape.GlyphID(text[i])
	}
	return true, n, nil
}

func (s *stubService) AnalyzeScript(text []rune, pos, length int) ([]textshape.ScriptRun, error) {
	return []textshape.ScriptRun{{Script: 1, Position: pos, Length: length}}, nil
}

func (s *stubService) GetGlyphs(text []rune, face textshape.Face, run textshape.ScriptRun, features []textshape.Feature, clusterMap []uint16, glyphs []textshape.GlyphID, props []textshape.GlyphProp) (int, error) {
	s.glyphCalls++
	if face == nil {
		return 0, textshape.ErrNilFace
	}
	if s.minGlyphCapacity > 0 && len(glyphs) < s.minGlyphCapacity {
		return 0, textshape.ErrInsufficientBuffer
	}

	cs := s.clusterSize
	if cs <= 0 {
		cs = len(text)
	}
	gpc := s.glyphsPerCluster
	if gpc <= 0 {
		gpc = 1
	}
	clusters := (len(text) + cs - 1) / cs
	total := clusters * gpc
	if total > len(glyphs) || total > len(props) || len(clusterMap) < len(text) {
		return 0, textshape.ErrInsufficientBuffer
	}

	for i := range text {
		clusterMap[i] = uint16((i / cs) * gpc)
	}
	for g := 0; g < total; g++ {
		glyphs[g] = textshape.GlyphID(1000 + g)
		props[g] = textshape.GlyphProp(gpc)
	}
	return total, nil
}

func (s *stubService) GetGlyphPlacements(text []rune, face textshape.Face, run textshape.ScriptRun, features []textshape.Feature, clusterMap []uint16, glyphs []textshape.GlyphID, props []textshape.GlyphProp, glyphCount int, emSize float32, advances []float32, offsets []textshape.GlyphOffset) error {
	if face == nil {
		return textshape.ErrNilFace
	}
	if glyphCount > len(advances) || glyphCount > len(offsets) {
		return textshape.ErrInsufficientBuffer
	}
	for i := 0; i < glyphCount; i++ {
		advances[i] = s.naturalAdvance
		offsets[i] = textshape.GlyphOffset{}
	}
	return nil
}

func (s *stubService) GlyphIndex(face textshape.Face, r rune) (textshape.GlyphID, error) {
	if face == nil {
		return 0, textshape.ErrNilFace
	}
	if s.unmapped[r] {
		return 0, textshape.ErrGlyphNotFound
	}
	return textshape.GlyphID(r), nil
}

func newTestEngine(t *testing.T, svc textshape.Service) *Engine {
	t.Helper()
	e, err := New(svc)
	if err != nil {
		t.Fatalf("engine construction failed: %v", err)
	}
	return e
}

// clustersOf splits ASCII-ish test input into single-rune one-column
// clusters.
func clustersOf(s string) []Cluster {
	var out []Cluster
	for _, r := range s {
		out = append(out, Cluster{Text: []rune{r}, Cols: 1})
	}
	return out
}

// paintFrame runs one complete frame painting text at pos.
func paintFrame(t *testing.T, e *Engine, text string, pos grid.Point) *Frame {
	t.Helper()
	if err := e.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := e.PaintLine(clustersOf(text), pos); err != nil {
		t.Fatalf("PaintLine: %v", err)
	}
	frame, err := e.EndFrame()
	if err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
	return frame
}

// checkRowAligned verifies the parallel-array and mapping-partition
// invariants of a shaped row.
func checkRowAligned(t *testing.T, row *grid.ShapedRow) {
	t.Helper()
	n := row.GlyphCount()
	if len(row.GlyphAdvances) != n || len(row.GlyphOffsets) != n || len(row.Colors) != n {
		t.Fatalf("parallel arrays out of sync: idx=%d adv=%d off=%d col=%d",
			n, len(row.GlyphAdvances), len(row.GlyphOffsets), len(row.Colors))
	}
	at := 0
	for i, m := range row.Mappings {
		if m.GlyphFrom != at || m.GlyphTo < m.GlyphFrom {
			t.Fatalf("mapping %d = [%d..%d), want contiguous from %d", i, m.GlyphFrom, m.GlyphTo, at)
		}
		if m.Face == nil {
			t.Fatalf("mapping %d has no face", i)
		}
		at = m.GlyphTo
	}
	if at != n {
		t.Fatalf("mappings cover glyphs [0..%d), row has %d", at, n)
	}
}
