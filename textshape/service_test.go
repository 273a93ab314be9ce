package textshape

import "testing"

func TestNewTagPacksBigEndian(t *testing.T) {
	if tag := NewTag('l', 'i', 'g', 'a'); tag != 0x6c696761 {
		t.Fatalf("tag = %#x, want 0x6c696761", tag)
	}
	if tag := NewTag('w', 'g', 'h', 't'); tag != 0x77676874 {
		t.Fatalf("tag = %#x, want 0x77676874", tag)
	}
}
