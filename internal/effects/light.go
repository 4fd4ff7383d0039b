package effects

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/ivlev/xmastree/internal/renderer"
)

const (
	lightBulb = 4
	// LightSpriteSize fits the widest glow (12px radius) around the bulb.
	LightSpriteSize = 2*lightBulb*3 + 1
)

// Light is one bulb of the blinking string. Each bulb runs on its own clock,
// see LightPhase.
type Light struct {
	Index int
}

// LightPhase is the blink angle of bulb index at frame. It advances one third
// of a radian per frame and does not depend on the total frame count.
func LightPhase(frame, index int) float64 {
	return math.Mod(float64(frame)/3+float64(index)*0.7, 2*math.Pi)
}

func (l Light) Brightness(phase float64) float64 {
	return 0.5 + 0.5*math.Sin(phase)
}

func (l Light) Color(phase float64) color.NRGBA {
	base := LightPalette[l.Index%len(LightPalette)]
	return renderer.Scale(base, l.Brightness(phase))
}

// Paint draws the bulb centered on (x, y). Glow rings overwrite the pixels
// under them, so on a draw.Src canvas a later bulb cuts into the halo of the
// one before it.
func (l Light) Paint(c *renderer.Canvas, x, y int, phase float64) {
	b := l.Brightness(phase)
	col := l.Color(phase)
	glowSize := int(lightBulb * 3 * (0.7 + 0.3*b))

	if glowSize > 0 {
		for dy := -glowSize - 1; dy <= glowSize+1; dy++ {
			for dx := -glowSize - 1; dx <= glowSize+1; dx++ {
				g := ringIndex(math.Hypot(float64(dx), float64(dy)))
				if g > glowSize {
					continue
				}
				alpha := int(80 * b * (1 - float64(g)/float64(glowSize)))
				c.BlendPixel(x+dx, y+dy, renderer.WithAlpha(col, alpha), 1)
			}
		}
	}

	center := color.NRGBA{
		R: uint8(min(255, int(float64(col.R)+100*b))),
		G: uint8(min(255, int(float64(col.G)+100*b))),
		B: uint8(min(255, int(float64(col.B)+100*b))),
		A: uint8(255 * b),
	}
	r := lightBulb / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if math.Hypot(float64(dx), float64(dy)) <= float64(r)+0.5 {
				c.BlendPixel(x+dx, y+dy, center, 1)
			}
		}
	}
}

func (l Light) Render(size int, phase float64) *image.RGBA {
	img := newSprite(size)
	l.Paint(renderer.NewCanvas(img, draw.Src), size/2, size/2, phase)
	return img
}
