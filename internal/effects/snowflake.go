package effects

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/ivlev/xmastree/internal/renderer"
)

var (
	snowArm    = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	snowBranch = color.NRGBA{R: 255, G: 255, B: 255, A: 180}
)

// Snowflake has six arms, each with two pairs of side branches. It does not
// animate by itself; the composer moves it.
type Snowflake struct{}

func (Snowflake) Render(size int, _ float64) *image.RGBA {
	img := newSprite(size)
	c := renderer.NewCanvas(img, draw.Src)
	center := size / 2
	arm := float64(size/2 - 2)
	twig := float64(size / 6)

	for i := 0; i < 6; i++ {
		angle := float64(i) * math.Pi / 3
		endX := center + int(arm*math.Cos(angle))
		endY := center + int(arm*math.Sin(angle))
		c.Line(float64(center), float64(center), float64(endX), float64(endY), 2, snowArm)

		for _, at := range []float64{0.3, 0.6} {
			bx := center + int(arm*at*math.Cos(angle))
			by := center + int(arm*at*math.Sin(angle))
			for _, side := range []float64{-1, 1} {
				a := angle + side*math.Pi/4
				ex := bx + int(twig*math.Cos(a))
				ey := by + int(twig*math.Sin(a))
				c.Line(float64(bx), float64(by), float64(ex), float64(ey), 1, snowBranch)
			}
		}
	}
	return img
}
