package grid

import "testing"

func TestSettingsCopyOnWriteReplacesOneSubObject(t *testing.T) {
	s := NewSettings()
	font := *s.Font
	font.Family = "Iosevka"
	s2 := s.WithFont(font)

	if s2 == s {
		t.Fatalf("WithFont returned the same snapshot")
	}
	if s2.Font == s.Font {
		t.Fatalf("font sub-object not replaced")
	}
	if s2.Target != s.Target || s2.Cursor != s.Cursor || s2.Misc != s.Misc {
		t.Fatalf("unchanged sub-objects must stay identity-shared")
	}
	if s.Font.Family != "monospace" {
		t.Fatalf("original snapshot mutated: family=%q", s.Font.Family)
	}
	if s2.Font.Family != "Iosevka" {
		t.Fatalf("new snapshot family=%q, want Iosevka", s2.Font.Family)
	}
}

func TestSettingsIdentityDetectsCellCountChange(t *testing.T) {
	s := NewSettings()
	s2 := s.WithCellCount(Point{X: 100, Y: 30})

	if s2.CellCount == s.CellCount {
		t.Fatalf("cell count not replaced")
	}
	if s2.Font != s.Font || s2.Target != s.Target {
		t.Fatalf("cell count change must not touch sub-objects")
	}
}

func TestSettingsChainedWritesShareUntouched(t *testing.T) {
	s := NewSettings()
	s2 := s.WithCursor(CursorSettings{Color: 1, Type: CursorUnderscore, HeightPct: 50}).
		WithMisc(MiscSettings{BackgroundColor: 0xff101010})

	if s2.Cursor == s.Cursor || s2.Misc == s.Misc {
		t.Fatalf("written sub-objects must be fresh")
	}
	if s2.Font != s.Font || s2.Target != s.Target {
		t.Fatalf("untouched sub-objects must stay shared")
	}
}
