package gotext

import (
	"testing"

	"github.com/go-text/typesetting/language"
)

func TestGraphemeClusterSegmentation(t *testing.T) {
	// "e" + combining acute forms one cluster with "x" trailing.
	clusters := graphemeClusters([]rune{'e', 0x0301, 'x'})
	if len(clusters) != 2 {
		t.Fatalf("cluster count = %d, want 2", len(clusters))
	}
	if len(clusters[0]) != 2 || clusters[0][1] != 0x0301 {
		t.Fatalf("first cluster = %q, want e plus combining accent", string(clusters[0]))
	}
	if len(clusters[1]) != 1 || clusters[1][0] != 'x' {
		t.Fatalf("second cluster = %q, want x", string(clusters[1]))
	}
}

func TestBidiLevelOfStrongClasses(t *testing.T) {
	if lvl := bidiLevel('a'); lvl != 0 {
		t.Fatalf("level of 'a' = %d, want 0", lvl)
	}
	if lvl := bidiLevel(0x05D0); lvl != 1 { // hebrew alef
		t.Fatalf("level of hebrew alef = %d, want 1", lvl)
	}
	if lvl := bidiLevel(0x0628); lvl != 1 { // arabic beh
		t.Fatalf("level of arabic beh = %d, want 1", lvl)
	}
	if lvl := bidiLevel('1'); lvl != 0 {
		t.Fatalf("level of digit = %d, want 0", lvl)
	}
}

func TestComplexScriptClassification(t *testing.T) {
	complex := []language.Script{
		language.Arabic, language.Devanagari, language.Thai, language.Khmer,
	}
	for _, sc := range complex {
		if !scriptIsComplex(sc) {
			t.Fatalf("script %v not classified as complex", sc)
		}
	}
	plain := []language.Script{
		language.Latin, language.Cyrillic, language.Greek, language.Han,
	}
	for _, sc := range plain {
		if scriptIsComplex(sc) {
			t.Fatalf("script %v wrongly classified as complex", sc)
		}
	}
}

func TestScriptItemizationSplitsOnScriptChange(t *testing.T) {
	var s Shaper
	text := append([]rune("abc"), 0x0627, 0x0628, 0x062C) // alef beh jeem
	runs, err := s.AnalyzeScript(text, 0, len(text))
	if err != nil {
		t.Fatalf("AnalyzeScript: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("run count = %d, want latin and arabic", len(runs))
	}
	if runs[0].Position != 0 || runs[0].Length != 3 || runs[0].BidiLevel != 0 {
		t.Fatalf("latin run = %+v", runs[0])
	}
	if runs[1].Position != 3 || runs[1].Length != 3 || runs[1].BidiLevel != 1 {
		t.Fatalf("arabic run = %+v", runs[1])
	}
	if runs[0].Script == runs[1].Script {
		t.Fatalf("runs share one script id %v", runs[0].Script)
	}
}

func TestScriptItemizationMergesCommonRunes(t *testing.T) {
	var s Shaper
	text := []rune("ab cd, ef")
	runs, err := s.AnalyzeScript(text, 0, len(text))
	if err != nil {
		t.Fatalf("AnalyzeScript: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("run count = %d, want punctuation and spaces merged into 1", len(runs))
	}
	if runs[0].Length != len(text) {
		t.Fatalf("run length = %d, want %d", runs[0].Length, len(text))
	}
}

func TestScriptItemizationOfSubrange(t *testing.T) {
	var s Shaper
	// xx + devanagari da, vowel sign e, va + xx
	text := append([]rune("xx"), 0x0926, 0x0947, 0x0935, 'x', 'x')
	runs, err := s.AnalyzeScript(text, 2, 3)
	if err != nil {
		t.Fatalf("AnalyzeScript: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("run count = %d, want 1", len(runs))
	}
	if runs[0].Position != 2 || runs[0].Length != 3 {
		t.Fatalf("run = %+v, want the devanagari subrange [2..5)", runs[0])
	}
}
