/*
Package grid holds the data model of the rendering pipeline: cell geometry,
the copy-on-write settings snapshot, shaped row records, and the per-cell
background bitmap.

Settings follow a strict copy-on-write contract: sub-objects (target, font,
cursor, misc) are shared by pointer between snapshots and are never mutated
in place. Any change goes through a With* method, which produces a new
snapshot referencing a new sub-object. Two snapshots sharing a sub-object
pointer are therefore guaranteed to agree on its contents, and pointer
identity is a valid O(1) substitute for value equality. The engine in
package render relies on this to decide which derived resources to rebuild.
*/
package grid

import "github.com/npillmayer/schuko/tracing"

// tracer returns a trace sink for the grid package namespace.
func tracer() tracing.Trace {
	return tracing.Select("termshape.grid")
}
