// Package colorspace provides the perceptual color metric used throughout
// the pipeline.
//
// All color comparisons happen in CIE Lab, where Euclidean distance tracks
// perceived difference far better than RGB distance. Conversions go through
// go-colorful and are total: every representable sRGB color maps to a Lab
// triple, and every Lab triple maps back to a clamped sRGB color.
package colorspace

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Lab is a color in CIE Lab space (D65 reference white).
type Lab struct {
	L float64 // lightness, 0..1 in go-colorful's scaling
	A float64
	B float64
}

// ToLab converts any color.Color to Lab. Alpha is ignored.
func ToLab(c color.Color) Lab {
	cf, _ := colorful.MakeColor(c)
	l, a, b := cf.Lab()
	return Lab{L: l, A: a, B: b}
}

// FromRGB converts normalized sRGB components in [0,1] to Lab.
func FromRGB(r, g, b float64) Lab {
	l, a, bb := colorful.Color{R: r, G: g, B: b}.Lab()
	return Lab{L: l, A: a, B: bb}
}

// RGBA returns the clamped sRGB representation.
func (c Lab) RGBA() color.RGBA {
	cf := colorful.Lab(c.L, c.A, c.B).Clamped()
	r, g, b := cf.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Hex returns the "#rrggbb" representation of the clamped color.
func (c Lab) Hex() string {
	return colorful.Lab(c.L, c.A, c.B).Clamped().Hex()
}

// ParseHex converts a "#rrggbb" string to Lab.
func ParseHex(s string) (Lab, error) {
	cf, err := colorful.Hex(s)
	if err != nil {
		return Lab{}, err
	}
	l, a, b := cf.Lab()
	return Lab{L: l, A: a, B: b}, nil
}

// Distance returns the Euclidean distance between two Lab colors.
func Distance(a, b Lab) float64 {
	return math.Sqrt(DistanceSq(a, b))
}

// DistanceSq returns the squared distance, avoiding the sqrt on hot paths.
func DistanceSq(a, b Lab) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return dl*dl + da*da + db*db
}

// Luminance returns the lightness component, used for brightness ordering.
func (c Lab) Luminance() float64 {
	return c.L
}
