// Package color converts between sRGB-encoded and linear color, the way an
// sRGB texture format decodes on read and encodes on write.
//
// Only RGB is transformed; alpha is always linear.
package color

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// decodeLUT maps an sRGB byte to linear.
var decodeLUT [256]float32

// encodeLUT maps 12-bit linear to an sRGB byte, enough precision for 8-bit
// output.
var encodeLUT [4096]uint8

func init() {
	for i := range decodeLUT {
		decodeLUT[i] = ToLinear(float32(i) / 255)
	}
	for i := range encodeLUT {
		s := ToSRGB(float32(i) / 4095)
		encodeLUT[i] = uint8(math32.Round(s * 255)) //nolint:gosec // s is in [0,1]
	}
}

// ToLinear decodes one sRGB component in [0,1].
func ToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math32.Pow((s+0.055)/1.055, 2.4)
}

// ToSRGB encodes one linear component in [0,1].
func ToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math32.Pow(l, 1/2.4) - 0.055
}

// Decode converts an sRGB byte to linear.
func Decode(s uint8) float32 {
	return decodeLUT[s]
}

// Encode converts a linear component to an sRGB byte. Values outside [0,1]
// are clamped.
func Encode(l float32) uint8 {
	if !(l > 0) {
		return 0
	}
	if l >= 1 {
		return 255
	}
	return encodeLUT[int(l*4095+0.5)]
}

// LinearColor decodes the RGB channels of a straight-alpha sRGB color.
func LinearColor(c f32.Vec4) f32.Vec4 {
	return f32.Vec4{ToLinear(c[0]), ToLinear(c[1]), ToLinear(c[2]), c[3]}
}

// SRGBColor encodes the RGB channels of a straight-alpha linear color.
func SRGBColor(c f32.Vec4) f32.Vec4 {
	return f32.Vec4{ToSRGB(c[0]), ToSRGB(c[1]), ToSRGB(c[2]), c[3]}
}
