/*
Package textshape defines the contract between the rendering pipeline and a
font-shaping service.

The pipeline in package render treats shaping as a black box: it hands over
rune prefixes and scratch buffers, and receives font faces, glyph indices and
glyph placements back. [Service] is that black box. Package gotext provides a
production implementation on top of go-text/typesetting; tests supply stubs.

All geometry produced by a service is in DIP units (1/96 inch), matching the
scale the pipeline derives from the configured DPI.
*/
package textshape

import "github.com/npillmayer/schuko/tracing"

// tracer returns a trace sink for the textshape package namespace.
func tracer() tracing.Trace {
	return tracing.Select("termshape.shape")
}
