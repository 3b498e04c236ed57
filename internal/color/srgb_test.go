package color

import (
	"testing"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

func TestToLinear_KnownValues(t *testing.T) {
	tests := []struct {
		s, want float32
	}{
		{0, 0},
		{1, 1},
		{0.5, 0.21404},
		{0.04045, 0.0031308},
	}
	for _, tt := range tests {
		if got := ToLinear(tt.s); math32.Abs(got-tt.want) > 1e-4 {
			t.Errorf("ToLinear(%v) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for i := range 256 {
		s := float32(i) / 255
		if got := ToSRGB(ToLinear(s)); math32.Abs(got-s) > 1e-5 {
			t.Errorf("ToSRGB(ToLinear(%v)) = %v", s, got)
		}
	}
}

func TestDecodeEncode(t *testing.T) {
	for i := range 256 {
		b := uint8(i)
		if got := Encode(Decode(b)); got != b {
			t.Errorf("Encode(Decode(%d)) = %d", b, got)
		}
	}
}

func TestEncode_Clamps(t *testing.T) {
	tests := []struct {
		l    float32
		want uint8
	}{
		{-1, 0},
		{math32.NaN(), 0},
		{2, 255},
		{1, 255},
	}
	for _, tt := range tests {
		if got := Encode(tt.l); got != tt.want {
			t.Errorf("Encode(%v) = %d, want %d", tt.l, got, tt.want)
		}
	}
}

func TestColor_AlphaUntouched(t *testing.T) {
	c := f32.Vec4{0.5, 0.25, 1, 0.5}
	if got := LinearColor(c)[3]; got != 0.5 {
		t.Errorf("LinearColor alpha = %v, want 0.5", got)
	}
	if got := SRGBColor(c)[3]; got != 0.5 {
		t.Errorf("SRGBColor alpha = %v, want 0.5", got)
	}
	back := SRGBColor(LinearColor(c))
	for i := range 3 {
		if math32.Abs(back[i]-c[i]) > 1e-5 {
			t.Errorf("channel %d: %v after round trip, want %v", i, back[i], c[i])
		}
	}
}
