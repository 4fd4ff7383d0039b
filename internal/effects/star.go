package effects

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/ivlev/xmastree/internal/renderer"
)

var (
	starGlow      = color.NRGBA{R: 255, G: 255, B: 200, A: 255}
	starHighlight = color.NRGBA{R: 255, G: 255, B: 220, A: 200}
)

const starPoints = 5

// Star is the pulsing treetop star.
type Star struct{}

// Points returns the 10 vertices of the star, alternating outer and inner
// radius, starting straight up.
func (Star) Points(size int, phase float64) (pts []renderer.Point, inner int) {
	center := float64(size / 2)
	pulse := 1 + 0.1*math.Sin(phase)
	outer := int(float64(size/2-5) * pulse)
	inner = int(float64(outer) / 2.5)

	pts = make([]renderer.Point, 0, starPoints*2)
	for i := 0; i < starPoints*2; i++ {
		angle := math.Pi/2 + float64(i)*math.Pi/starPoints
		r := float64(outer)
		if i%2 == 1 {
			r = float64(inner)
		}
		pts = append(pts, renderer.Pt(center+r*math.Cos(angle), center-r*math.Sin(angle)))
	}
	return pts, inner
}

func (s Star) Render(size int, phase float64) *image.RGBA {
	img := newSprite(size)
	pts, inner := s.Points(size, phase)
	center := float64(size / 2)

	// glow: progressively smaller copies of the star, each blended over the last
	glow := renderer.NewCanvas(img, draw.Over)
	intensity := 0.3 + 0.2*math.Sin(phase)
	for g := 20; g > 0; g -= 2 {
		alpha := int(255 * (1 - float64(g)/20) * intensity)
		grow := 1 + float64(g)/30
		expanded := make([]renderer.Point, 0, len(pts))
		for _, p := range pts {
			dx, dy := p.X-center, p.Y-center
			if dx == 0 && dy == 0 {
				continue
			}
			expanded = append(expanded, renderer.Pt(center+dx*grow, center+dy*grow))
		}
		glow.FillPolygon(expanded, renderer.WithAlpha(starGlow, alpha))
	}

	body := renderer.NewCanvas(img, draw.Src)
	body.FillPolygon(pts, StarGold)
	body.StrokePolygon(pts, 1, StarEdge)

	hs := float64(int(float64(inner/2) * (1 + 0.3*math.Sin(phase*2))))
	body.FillEllipse(center-hs, center-hs, center+hs, center+hs, starHighlight)
	return img
}
