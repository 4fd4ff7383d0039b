package effects

import (
	"image"
	"image/color"
	"math"

	"github.com/ivlev/xmastree/internal/system"
)

// Decoration renders one animated sprite. size is the sprite edge in pixels,
// phase the animation angle in radians. The returned image comes from the
// shared buffer pool and is owned by the caller, who should hand it back with
// system.PutImage once it has been composited. A nil image means there is
// nothing to draw.
type Decoration interface {
	Render(size int, phase float64) *image.RGBA
}

var (
	// OrnamentPalette colors the default ornaments, picked by index mod 6.
	OrnamentPalette = []color.NRGBA{
		{R: 255, G: 0, B: 0, A: 255},
		{R: 0, G: 100, B: 255, A: 255},
		{R: 255, G: 215, B: 0, A: 255},
		{R: 255, G: 0, B: 255, A: 255},
		{R: 0, G: 255, B: 255, A: 255},
		{R: 255, G: 128, B: 0, A: 255},
	}

	// LightPalette colors the blinking lights, picked by index mod 6.
	LightPalette = []color.NRGBA{
		{R: 255, G: 50, B: 50, A: 255},
		{R: 50, G: 255, B: 50, A: 255},
		{R: 50, G: 150, B: 255, A: 255},
		{R: 255, G: 255, B: 50, A: 255},
		{R: 255, G: 50, B: 255, A: 255},
		{R: 255, G: 180, B: 50, A: 255},
	}

	Gold      = color.NRGBA{R: 255, G: 215, B: 0, A: 255}
	StarGold  = color.NRGBA{R: 255, G: 223, B: 0, A: 255}
	StarEdge  = color.NRGBA{R: 255, G: 180, B: 0, A: 255}
	HookGold  = color.NRGBA{R: 212, G: 175, B: 55, A: 255}
	HookEdge  = color.NRGBA{R: 180, G: 140, B: 40, A: 255}
	Sparkle   = color.NRGBA{R: 255, G: 255, B: 200, A: 255}
	SnowWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Anchors lists the exact colors the decorations are built from. The GIF
// palette always keeps them so gold and the light colors never drift.
func Anchors() []color.Color {
	out := []color.Color{
		color.NRGBA{A: 255},
		SnowWhite, Gold, StarGold, StarEdge, HookGold, HookEdge, Sparkle,
	}
	for _, c := range OrnamentPalette {
		out = append(out, c)
	}
	for _, c := range LightPalette {
		out = append(out, c)
	}
	return out
}

func newSprite(size int) *image.RGBA {
	return system.GetImage(image.Rect(0, 0, size, size))
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ringIndex returns the smallest integer radius r >= 1 whose disc, drawn
// around a pixel center, still contains a pixel at distance d.
func ringIndex(d float64) int {
	r := int(math.Ceil(d - 0.5))
	if r < 1 {
		r = 1
	}
	return r
}
