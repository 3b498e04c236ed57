package text

import (
	"sync"
	"testing"

	"github.com/go-text/typesetting/di"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
)

func testShaper(t *testing.T) *Shaper {
	t.Helper()
	sh, err := NewShaper(goregular.TTF)
	if err != nil {
		t.Fatalf("NewShaper: %v", err)
	}
	return sh
}

func TestShaper_BasicLatin(t *testing.T) {
	sh := testShaper(t)

	out := sh.Shape("Hello", Options{Size: fixed.I(16)})
	if len(out.Glyphs) != 5 {
		t.Fatalf("Shape(\"Hello\"): got %d glyphs, want 5", len(out.Glyphs))
	}
	if out.Size != fixed.I(16) {
		t.Errorf("Size = %v, want 16", out.Size)
	}
	if out.Direction != di.DirectionLTR {
		t.Errorf("Direction = %v, want LTR", out.Direction)
	}
	for i, g := range out.Glyphs {
		if g.Advance <= 0 {
			t.Errorf("glyph %d: Advance=%v, want > 0", i, g.Advance)
		}
		if g.GlyphID == 0 {
			t.Errorf("glyph %d: missing from the font", i)
		}
	}
	// Both 'l' glyphs shape to the same ID.
	if out.Glyphs[2].GlyphID != out.Glyphs[3].GlyphID {
		t.Errorf("'l' glyphs differ: %d vs %d", out.Glyphs[2].GlyphID, out.Glyphs[3].GlyphID)
	}
}

func TestShaper_SizeScalesAdvance(t *testing.T) {
	sh := testShaper(t)

	small := sh.Shape("Hello", Options{Size: fixed.I(16)})
	large := sh.Shape("Hello", Options{Size: fixed.I(32)})
	ratio := float64(large.Advance) / float64(small.Advance)
	if ratio < 1.9 || ratio > 2.1 {
		t.Errorf("advance ratio at 2x size = %.3f, want about 2", ratio)
	}
}

func TestShaper_Empty(t *testing.T) {
	sh := testShaper(t)
	out := sh.Shape("", Options{Size: fixed.I(16)})
	if len(out.Glyphs) != 0 {
		t.Errorf("Shape(\"\") = %d glyphs, want 0", len(out.Glyphs))
	}
}

func TestShaper_Language(t *testing.T) {
	sh := testShaper(t)
	out := sh.Shape("Hello", Options{Size: fixed.I(16), Language: language.German})
	if len(out.Glyphs) != 5 {
		t.Errorf("got %d glyphs, want 5", len(out.Glyphs))
	}
}

func TestShaper_Vertical(t *testing.T) {
	sh := testShaper(t)
	out := sh.Shape("ABC", Options{Size: fixed.I(16), Vertical: true})
	if !out.Direction.IsVertical() {
		t.Fatalf("Direction = %v, want vertical", out.Direction)
	}
	if len(out.Glyphs) != 3 {
		t.Fatalf("got %d glyphs, want 3", len(out.Glyphs))
	}
	for i, g := range out.Glyphs {
		if g.Advance >= 0 {
			t.Errorf("glyph %d: vertical Advance=%v, want < 0", i, g.Advance)
		}
	}
}

func TestNewShaper_BadFont(t *testing.T) {
	if _, err := NewShaper([]byte("not a font")); err == nil {
		t.Error("NewShaper should reject garbage")
	}
}

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		vertical bool
		want     di.Direction
	}{
		{"latin", "Hello", false, di.DirectionLTR},
		{"empty", "", false, di.DirectionLTR},
		{"digits only", "123", false, di.DirectionLTR},
		{"hebrew", "שלום", false, di.DirectionRTL},
		{"arabic", "مرحبا", false, di.DirectionRTL},
		{"leading digits", "123 שלום", false, di.DirectionRTL},
		{"leading latin", "abc שלום", false, di.DirectionLTR},
		{"vertical", "שלום", true, di.DirectionTTB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectDirection([]rune(tt.text), tt.vertical); got != tt.want {
				t.Errorf("detectDirection(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestShaper_Concurrent(t *testing.T) {
	sh := testShaper(t)
	want := len(sh.Shape("concurrent", Options{Size: fixed.I(12)}).Glyphs)

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			for range 20 {
				out := sh.Shape("concurrent", Options{Size: fixed.I(12)})
				if len(out.Glyphs) != want {
					t.Errorf("got %d glyphs, want %d", len(out.Glyphs), want)
					return
				}
			}
		})
	}
	wg.Wait()
}

func TestShaper_CachesRuns(t *testing.T) {
	sh := testShaper(t)
	opts := Options{Size: fixed.I(16)}

	first := sh.Shape("cached", opts)
	second := sh.Shape("cached", opts)
	if &first.Glyphs[0] != &second.Glyphs[0] {
		t.Error("second Shape should return the cached run")
	}

	other := sh.Shape("cached", Options{Size: fixed.I(17)})
	if &other.Glyphs[0] == &first.Glyphs[0] {
		t.Error("a different size must not hit the cache")
	}
	if got := sh.runs.Stats(); got.Hits != 1 || got.Len != 2 {
		t.Errorf("cache stats = %+v, want 1 hit and 2 entries", got)
	}
}
