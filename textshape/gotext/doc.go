/*
Package gotext implements the font shaping service contract of package
textshape on top of go-text/typesetting: font resolution and fallback
through fontscan, glyph lookup and placement through the HarfBuzz port.

The adapter always shapes runs left-to-right: a terminal hands its cells to
the renderer in visual order, so bidi reordering must not be re-applied
during shaping. Bidi levels reported by [Shaper.AnalyzeScript] only split
runs, they never reorder them.
*/
package gotext

import "github.com/npillmayer/schuko/tracing"

// tracer returns a trace sink for the gotext adapter namespace.
func tracer() tracing.Trace {
	return tracing.Select("termshape.shape.gotext")
}
