package luxaux

import (
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/math/ms3"
)

// HSV gradient helpers adapted from Esme Lamb's (@dedelala) colour work
// presented at Gophercon AU 2024.
// https://github.com/dedelala/disco/tree/main/color

var red = color.RGBA{R: 255, A: 255}

// RadianceToRGBA returns a function quantising radiance to 8 bit channels as
// min(radiance*scale, 255). Negative and NaN channels map to zero.
func RadianceToRGBA(scale float32) func(ms3.Vec) color.RGBA {
	quant := func(v float32) uint8 {
		v *= scale
		if !(v > 0) {
			return 0
		}
		return uint8(math.Min(v, 255))
	}
	return func(radiance ms3.Vec) color.RGBA {
		return color.RGBA{R: quant(radiance.X), G: quant(radiance.Y), B: quant(radiance.Z), A: 255}
	}
}

// ColorConversionInigoQuilez colours a distance field in [Inigo Quilez]'s style: orange outside,
// blue inside, with isolines and a white contour. A good value for characteristic distance is
// the view's diagonal divided by 3. NaN distances are red.
//
// [Inigo Quilez]: https://iquilezles.org/articles/distfunctions2d/
func ColorConversionInigoQuilez(characteristicDistance float32) func(float32) color.Color {
	inv := 1. / characteristicDistance
	one := ms3.Vec{X: 1, Y: 1, Z: 1}
	outside := ms3.Vec{X: 0.9, Y: 0.6, Z: 0.3}
	inside := ms3.Vec{X: 0.65, Y: 0.85, Z: 1.0}
	return func(d float32) color.Color {
		if math.IsNaN(d) {
			return red
		}
		d *= inv
		c := inside
		if d > 0 {
			c = outside
		}
		ad := math.Abs(d)
		c = ms3.Scale(1-math.Exp(-6*ad), c)
		c = ms3.Scale(0.8+0.2*math.Cos(150*d), c)
		edge := 1 - ms1.SmoothStep(0, 0.01, ad)
		c = ms3.InterpElem(c, one, ms3.Vec{X: edge, Y: edge, Z: edge})
		return color.RGBA{
			R: uint8(ms1.Clamp(c.X, 0, 1) * 255),
			G: uint8(ms1.Clamp(c.Y, 0, 1) * 255),
			B: uint8(ms1.Clamp(c.Z, 0, 1) * 255),
			A: 255,
		}
	}
}

// ColorConversionLinearGradient creates a colour conversion blending c0 into c1 across a band
// of width gradientLength centered on the zero contour. Distances below the band are c0, above are c1.
func ColorConversionLinearGradient(gradientLength float32, c0, c1 color.Color) func(d float32) color.Color {
	if c0 == color.Black && c1 == color.White {
		return grayGradient(gradientLength)
	}
	h0, s0, v0 := colorToHSV(c0)
	h1, s1, v1 := colorToHSV(c1)
	return func(d float32) color.Color {
		blend := d/gradientLength + 0.5
		if blend <= 0 {
			return c0
		} else if blend >= 1 {
			return c1
		}
		c := rgbToC(hsvToRGB(interpHSV(h0, s0, v0, h1, s1, v1, blend)))
		return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
	}
}

func grayGradient(gradientLength float32) func(d float32) color.Color {
	if gradientLength == 0 {
		return func(d float32) color.Color {
			if d < 0 {
				return color.Black
			}
			return color.White
		}
	}
	return func(d float32) color.Color {
		blend := d/gradientLength + 0.5
		if blend <= 0 {
			return color.Black
		} else if blend >= 1 {
			return color.White
		}
		return color.Gray{Y: uint8(blend * 255)}
	}
}

func interpHSV(h0, s0, v0, h1, s1, v1, t float32) (h, s, v float32) {
	// Take the short way around the hue circle.
	switch {
	case h1-h0 > 0.5:
		h0 += 1.0
	case h1-h0 < -0.5:
		h1 += 1.0
	}
	h = ms1.Interp(h0, h1, t)
	if h > 1 {
		h -= 1
	}
	s = ms1.Interp(s0, s1, t)
	v = ms1.Interp(v0, v1, t)
	return h, s, v
}

func colorToHSV(c color.Color) (h, s, v float32) {
	r0, g0, b0, _ := c.RGBA()
	return rgbToHSV(float32(r0>>8)/math.MaxUint8, float32(g0>>8)/math.MaxUint8, float32(b0>>8)/math.MaxUint8)
}

// rgbToC packs channels in [0,1] into the 24 least significant bits of a uint32.
func rgbToC(r, g, b float32) (c uint32) {
	return uint32(ms1.Clamp(r, 0, 1)*math.MaxUint8)<<16 |
		uint32(ms1.Clamp(g, 0, 1)*math.MaxUint8)<<8 |
		uint32(ms1.Clamp(b, 0, 1)*math.MaxUint8)
}

// hsvToRGB converts hue, saturation and value in [0,1] to RGB in [0,1].
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	var (
		c = s * v
		x = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m = v - c
	)
	switch {
	case h <= 1.0/6:
		r, g, b = c, x, 0
	case h <= 2.0/6:
		r, g, b = x, c, 0
	case h <= 3.0/6:
		r, g, b = 0, c, x
	case h <= 4.0/6:
		r, g, b = 0, x, c
	case h <= 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// rgbToHSV converts RGB in [0,1] to hue, saturation and value in [0,1].
func rgbToHSV(r, g, b float32) (h, s, v float32) {
	var (
		xmax = max(r, g, b)
		xmin = min(r, g, b)
		c    = xmax - xmin
	)
	v = xmax
	switch {
	case c == 0:
		h = 0
	case v == r:
		h = (g - b) / (c * 6)
	case v == g:
		h = 1.0/3 + (b-r)/(c*6)
	case v == b:
		h = 2.0/3 + (r-g)/(c*6)
	}
	if h < 0 {
		h += 1
	}
	if xmax > 0 {
		s = c / xmax
	}
	return h, s, v
}
