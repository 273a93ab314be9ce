/*
Package render implements the per-frame text-shaping and damage-tracking
engine of a terminal renderer.

The engine keeps two state snapshots. The api-facing side is mutated by the
terminal under its data lock: proposed settings, raw invalidation input
(dirty rows, cursor area, scroll delta), and the staging buffer for the row
currently being painted. The paint-facing side holds the committed settings,
the shaped row store, and the background bitmap; it is only touched between
[Engine.BeginFrame] and [Engine.EndFrame]. BeginFrame is the single
reconciliation point: it commits the proposed settings, rebuilds dependent
resources, applies the pending scroll, and clears all dirty rows.

A frame is driven as

	BeginFrame
	  SetBrushes / PaintLine / PaintGridLines / PaintSelection / PaintCursor
	EndFrame

with paint calls in any order and count. Errors never escape as panics:
every frame-facing entry point converts internal failures into a status
error and logs them, leaving the engine valid for the next frame attempt.
*/
package render

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer returns a trace sink for the render package namespace.
func tracer() tracing.Trace {
	return tracing.Select("termshape.render")
}

// errRender wraps a message as a user-facing rendering error.
func errRender(x string) error {
	return fmt.Errorf("terminal frame rendering: %s", x)
}

// assert panics when condition is false.
func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
