package render

import (
	"errors"

	"github.com/npillmayer/termshape/grid"
	"github.com/npillmayer/termshape/textshape"
)

// shapeRetryLimit bounds the capacity-negotiation loop of GetGlyphs.
const shapeRetryLimit = 8

// flushBufferLine drains the line staging buffer into the shaped row it was
// painted for. The buffer is cleared (not deallocated) regardless of
// success; a row left half-populated by a failure is rebuilt in full the
// next time it is marked dirty.
func (e *Engine) flushBufferLine() error {
	if len(e.api.bufferLine) == 0 {
		return nil
	}
	defer func() {
		e.api.bufferLine = e.api.bufferLine[:0]
		e.api.bufferLineColumn = e.api.bufferLineColumn[:0]
	}()

	assert(len(e.api.bufferLineColumn) == len(e.api.bufferLine)+1,
		"staging buffer column array out of sync with staged text")

	row := &e.p.rows[e.api.lastPaintLineCoord.Y]
	text := e.api.bufferLine

	for idx := 0; idx < len(text); {
		mappedLen, scale, face, err := e.mapCharacters(text[idx:])
		if err != nil {
			return err
		}
		assert(mappedLen > 0, "character mapping made no progress")
		mappedEnd := idx + mappedLen

		if face == nil {
			if err := e.mapReplacementCharacter(idx, mappedEnd, row); err != nil {
				return err
			}
			idx = mappedEnd
			continue
		}

		initialCount := len(row.GlyphIndices)

		// AnalyzeComplexity writes nominal glyph indices for simple runs;
		// the scratch buffer must cover the whole mapped prefix.
		if mappedLen > len(e.api.glyphIndices) {
			e.growGlyphScratch(mappedLen)
		}

		for complexityLen := 0; idx < mappedEnd; idx += complexityLen {
			var simple bool
			simple, complexityLen, err = e.svc.AnalyzeComplexity(text[idx:mappedEnd], face, e.api.glyphIndices)
			if err != nil {
				return err
			}
			assert(complexityLen > 0, "complexity analysis made no progress")

			if simple {
				for i := 0; i < complexityLen; i++ {
					col1 := e.api.bufferLineColumn[idx+i]
					col2 := e.api.bufferLineColumn[idx+i+1]
					advance := float32(col2-col1) * e.p.font.cellSizeDIP.X
					row.GlyphIndices = append(row.GlyphIndices, e.api.glyphIndices[i])
					row.GlyphAdvances = append(row.GlyphAdvances, advance)
					row.GlyphOffsets = append(row.GlyphOffsets, textshape.GlyphOffset{})
					row.Colors = append(row.Colors, e.foregroundAt(col1))
				}
			} else {
				if err := e.mapComplex(face, idx, complexityLen, row); err != nil {
					return err
				}
			}
		}

		// A mapping range is recorded only if the prefix produced glyphs.
		if n := len(row.GlyphIndices); n > initialCount {
			row.Mappings = append(row.Mappings, grid.FontMapping{
				Face:      face,
				EmSize:    e.p.s.Font.SizeInDIP * scale,
				GlyphFrom: initialCount,
				GlyphTo:   n,
			})
		}
	}
	return nil
}

// mapCharacters asks the shaping service for the longest single-face prefix
// of text, selecting the bold/italic variant from the committed axis table
// or, for fonts without axes, from the weight/italic attributes.
func (e *Engine) mapCharacters(text []rune) (int, float32, textshape.Face, error) {
	font := e.p.s.Font
	attrs := textshape.Attributes{
		Axes:   e.p.font.axes[b2i(e.api.attributes.italic)][b2i(e.api.attributes.bold)],
		Weight: font.Weight,
		Italic: e.api.attributes.italic,
	}
	if attrs.Axes == nil && e.api.attributes.bold {
		attrs.Weight = boldWeight
	}
	return e.svc.MapCharacters(text, attrs, font.Collection, font.Family)
}

// mapComplex shapes text[idx:idx+length] of the staged line through full
// script itemization, glyph lookup and placement. Glyph advances within a
// cluster are corrected so the cluster exactly covers its cell-column span:
// the difference is folded into the cluster's last glyph, leaving
// intra-cluster positions undistorted.
func (e *Engine) mapComplex(face textshape.Face, idx, length int, row *grid.ShapedRow) error {
	runs, err := e.svc.AnalyzeScript(e.api.bufferLine, idx, length)
	if err != nil {
		return err
	}

	features := e.p.s.Font.Features

	for _, a := range runs {
		text := e.api.bufferLine[a.Position : a.Position+a.Length]

		// The cluster map needs one sentinel slot past the text length.
		if len(e.api.clusterMap) <= a.Length {
			e.api.clusterMap = make([]uint16, a.Length+1)
		}

		var glyphCount int
		for retry := 0; ; {
			n, err := e.svc.GetGlyphs(text, face, a, features, e.api.clusterMap, e.api.glyphIndices, e.api.glyphProps)
			if errors.Is(err, textshape.ErrInsufficientBuffer) {
				if retry++; retry < shapeRetryLimit {
					e.growGlyphScratch(0)
					continue
				}
			}
			if err != nil {
				return err
			}
			glyphCount = n
			break
		}

		if len(e.api.glyphAdvances) < glyphCount {
			size := len(e.api.glyphAdvances)
			size += size >> 1
			size = max(size, glyphCount)
			e.api.glyphAdvances = make([]float32, size)
			e.api.glyphOffsets = make([]textshape.GlyphOffset, size)
		}

		if err := e.svc.GetGlyphPlacements(text, face, a, features,
			e.api.clusterMap, e.api.glyphIndices, e.api.glyphProps, glyphCount,
			e.p.s.Font.SizeInDIP, e.api.glyphAdvances, e.api.glyphOffsets); err != nil {
			return err
		}

		e.api.clusterMap[a.Length] = uint16(glyphCount)

		prevCluster := e.api.clusterMap[0]
		beg := 0
		for i := 1; i <= a.Length; i++ {
			nextCluster := e.api.clusterMap[i]
			if prevCluster == nextCluster {
				continue
			}

			col1 := e.api.bufferLineColumn[a.Position+beg]
			col2 := e.api.bufferLineColumn[a.Position+i]
			fg := e.foregroundAt(col1)

			expected := float32(col2-col1) * e.p.font.cellSizeDIP.X
			var actual float32
			for j := prevCluster; j < nextCluster; j++ {
				actual += e.api.glyphAdvances[j]
			}
			e.api.glyphAdvances[nextCluster-1] += expected - actual

			for j := prevCluster; j < nextCluster; j++ {
				row.Colors = append(row.Colors, fg)
			}

			prevCluster = nextCluster
			beg = i
		}

		row.GlyphIndices = append(row.GlyphIndices, e.api.glyphIndices[:glyphCount]...)
		row.GlyphAdvances = append(row.GlyphAdvances, e.api.glyphAdvances[:glyphCount]...)
		row.GlyphOffsets = append(row.GlyphOffsets, e.api.glyphOffsets[:glyphCount]...)
	}
	return nil
}

// mapReplacementCharacter emits one replacement glyph per column covered by
// text[from:to] of the staged line. The replacement face/glyph is resolved
// lazily once per font generation; if resolution fails, the fallback stays
// disabled for the rest of the session and the characters contribute no
// glyphs at all.
func (e *Engine) mapReplacementCharacter(from, to int, row *grid.ShapedRow) error {
	if !e.api.replacementLookedUp {
		succeeded := false

		mappedLen, _, face, err := e.mapCharacters([]rune{replacementChar})
		if err != nil {
			return err
		}
		if mappedLen == 1 && face != nil {
			if gid, gerr := e.svc.GlyphIndex(face, replacementChar); gerr == nil {
				e.api.replacementFace = face
				e.api.replacementGlyph = gid
				succeeded = true
			}
		}
		if !succeeded {
			e.api.replacementFace = nil
			e.api.replacementGlyph = 0
			tracer().Infof("no replacement glyph available, disabling fallback")
		}
		e.api.replacementLookedUp = true
	}

	if e.api.replacementFace == nil {
		return nil
	}

	initialCount := len(row.GlyphIndices)
	col0 := e.api.bufferLineColumn[from]
	col1 := e.api.bufferLineColumn[to]
	for c := col0; c < col1; c++ {
		row.GlyphIndices = append(row.GlyphIndices, e.api.replacementGlyph)
		row.GlyphAdvances = append(row.GlyphAdvances, e.p.font.cellSizeDIP.X)
		row.GlyphOffsets = append(row.GlyphOffsets, textshape.GlyphOffset{})
		row.Colors = append(row.Colors, e.foregroundAt(c))
	}
	row.Mappings = append(row.Mappings, grid.FontMapping{
		Face:      e.api.replacementFace,
		EmSize:    e.p.s.Font.SizeInDIP * 0.5,
		GlyphFrom: initialCount,
		GlyphTo:   len(row.GlyphIndices),
	})
	return nil
}

// growGlyphScratch grows the glyph-index and glyph-property scratch buffers
// by at least 1.5x and at least minSize entries.
func (e *Engine) growGlyphScratch(minSize int) {
	size := len(e.api.glyphIndices)
	size += size >> 1
	size = max(size, minSize)
	assert(size > len(e.api.glyphIndices), "glyph scratch growth stalled")
	e.api.glyphIndices = make([]textshape.GlyphID, size)
	e.api.glyphProps = make([]textshape.GlyphProp, size)
}
