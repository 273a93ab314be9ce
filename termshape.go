/*
Package termshape implements the per-frame text-shaping and damage-tracking
pipeline of a terminal renderer.

The heavy lifting happens in the sub-packages:

▪︎ render drives frames: it reconciles settings snapshots, tracks dirty
rows and scroll damage, stages painted lines and shapes them into glyph
runs.

▪︎ grid holds the data model: copy-on-write settings, shaped row records,
and the background bitmap.

▪︎ textshape defines the font shaping service contract; textshape/gotext
implements it on go-text/typesetting.

This package only bundles convenience constructors for the common setups.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package termshape

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/termshape/render"
	"github.com/npillmayer/termshape/textshape"
	"github.com/npillmayer/termshape/textshape/gotext"
)

// tracer traces with key 'termshape.api'.
func tracer() tracing.Trace {
	return tracing.Select("termshape.api")
}

// New creates a rendering engine over an explicit font shaping service.
func New(svc textshape.Service, opts ...render.Option) (*render.Engine, error) {
	return render.New(svc, opts...)
}

// NewWithSystemFonts creates a rendering engine shaping with the system's
// installed fonts. cacheDir holds the font index cache; "" selects the
// platform default location.
func NewWithSystemFonts(cacheDir string, opts ...render.Option) (*render.Engine, error) {
	shaper, err := gotext.NewSystemShaper(cacheDir)
	if err != nil {
		tracer().Errorf("system font setup failed: %s", err.Error())
		return nil, err
	}
	return render.New(shaper, opts...)
}
