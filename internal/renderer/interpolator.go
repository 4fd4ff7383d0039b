package renderer

import (
	"image/color"
	"math"
)

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp255 truncates v into a color channel the way int() conversion does,
// saturating outside [0,255].
func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// Gray returns an opaque gray of the given level.
func Gray(level int) color.NRGBA {
	v := clamp255(float64(level))
	return color.NRGBA{R: v, G: v, B: v, A: 255}
}

// Scale multiplies the RGB channels of c by f, keeping alpha.
func Scale(c color.NRGBA, f float64) color.NRGBA {
	return color.NRGBA{
		R: clamp255(float64(c.R) * f),
		G: clamp255(float64(c.G) * f),
		B: clamp255(float64(c.B) * f),
		A: c.A,
	}
}

// WithAlpha replaces the alpha of c. a is clamped to [0,255].
func WithAlpha(c color.NRGBA, a int) color.NRGBA {
	c.A = clamp255(float64(a))
	return c
}

// Mix interpolates every channel between a and b.
func Mix(a, b color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: clamp255(math.Round(lerp(float64(a.R), float64(b.R), t))),
		G: clamp255(math.Round(lerp(float64(a.G), float64(b.G), t))),
		B: clamp255(math.Round(lerp(float64(a.B), float64(b.B), t))),
		A: clamp255(math.Round(lerp(float64(a.A), float64(b.A), t))),
	}
}

// VerticalGradient fills every row of the canvas with lerp(top, bottom, y/height).
// Channels are truncated like the integer sky formula (5+10t, 10+20t, 30+40t).
func (c *Canvas) VerticalGradient(top, bottom color.NRGBA) {
	b := c.Img.Bounds()
	h := float64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := float64(y-b.Min.Y) / h
		row := color.NRGBA{
			R: clamp255(lerp(float64(top.R), float64(bottom.R), t)),
			G: clamp255(lerp(float64(top.G), float64(bottom.G), t)),
			B: clamp255(lerp(float64(top.B), float64(bottom.B), t)),
			A: 255,
		}
		off := c.Img.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			i := off + x*4
			c.Img.Pix[i+0] = row.R
			c.Img.Pix[i+1] = row.G
			c.Img.Pix[i+2] = row.B
			c.Img.Pix[i+3] = 255
		}
	}
}
