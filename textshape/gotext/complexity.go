package gotext

import (
	"unicode"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/bidi"
)

// graphemeClusters splits text into grapheme clusters.
func graphemeClusters(text []rune) [][]rune {
	var out [][]rune
	g := uniseg.NewGraphemes(string(text))
	for g.Next() {
		out = append(out, g.Runes())
	}
	return out
}

// clusterIsSimple reports whether a grapheme cluster can be laid out as one
// glyph in one cell without contextual shaping.
func clusterIsSimple(cl []rune, face *font.Face) bool {
	if len(cl) != 1 {
		return false
	}
	r := cl[0]
	if runewidth.RuneWidth(r) != 1 {
		return false
	}
	if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Me, r) {
		return false
	}
	if bidiLevel(r) != 0 {
		return false
	}
	if scriptIsComplex(language.LookupScript(r)) {
		return false
	}
	_, ok := face.NominalGlyph(r)
	return ok
}

// bidiLevel returns the embedding level of a rune under the LTR base
// direction of the terminal grid: 1 for right-to-left classes, 0 otherwise.
func bidiLevel(r rune) uint8 {
	p, _ := bidi.LookupRune(r)
	switch p.Class() {
	case bidi.R, bidi.AL:
		return 1
	}
	return 0
}

// scriptIsComplex lists the scripts whose rendering requires contextual
// shaping, reordering or mandatory clustering.
func scriptIsComplex(sc language.Script) bool {
	switch sc {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana,
		language.Nko, language.Devanagari, language.Bengali, language.Gurmukhi,
		language.Gujarati, language.Oriya, language.Tamil, language.Telugu,
		language.Kannada, language.Malayalam, language.Sinhala, language.Thai,
		language.Lao, language.Tibetan, language.Myanmar, language.Khmer,
		language.Mongolian:
		return true
	}
	return false
}
