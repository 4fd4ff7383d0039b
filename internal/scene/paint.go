package scene

import (
	"image/color"

	"github.com/gogpu/gg"
)

// painter wraps a gg context with the inclusive pixel-box conventions the
// scene is laid out in and keeps the first drawing error.
type painter struct {
	dc  *gg.Context
	err error
}

func (p *painter) check(err error) {
	if err != nil && p.err == nil {
		p.err = err
	}
}

// ellipse fills the ellipse inscribed in pixels x0..x1, y0..y1.
func (p *painter) ellipse(x0, y0, x1, y1 int, col color.Color) {
	rx := float64(x1-x0+1) / 2
	ry := float64(y1-y0+1) / 2
	p.dc.DrawEllipse(float64(x0)+rx, float64(y0)+ry, rx, ry)
	p.dc.SetColor(col)
	p.check(p.dc.Fill())
}

// polygon fills a closed contour through the given pixel centers.
func (p *painter) polygon(col color.Color, xy ...float64) {
	for i := 0; i+1 < len(xy); i += 2 {
		if i == 0 {
			p.dc.MoveTo(xy[i]+0.5, xy[i+1]+0.5)
		} else {
			p.dc.LineTo(xy[i]+0.5, xy[i+1]+0.5)
		}
	}
	p.dc.ClosePath()
	p.dc.SetColor(col)
	p.check(p.dc.Fill())
}

// line strokes between two pixel centers with square caps.
func (p *painter) line(x0, y0, x1, y1 int, width float64, col color.Color) {
	p.dc.DrawLine(float64(x0)+0.5, float64(y0)+0.5, float64(x1)+0.5, float64(y1)+0.5)
	p.dc.SetLineWidth(width)
	p.dc.SetLineCap(gg.LineCapSquare)
	p.dc.SetColor(col)
	p.check(p.dc.Stroke())
}

// rect fills pixels x0..x1, y0..y1.
func (p *painter) rect(x0, y0, x1, y1 int, col color.Color) {
	if x1 < x0 || y1 < y0 {
		return
	}
	p.dc.DrawRectangle(float64(x0), float64(y0), float64(x1-x0+1), float64(y1-y0+1))
	p.dc.SetColor(col)
	p.check(p.dc.Fill())
}

// outline frames pixels x0..x1, y0..y1 with bands of width pixels drawn inward.
func (p *painter) outline(x0, y0, x1, y1, width int, col color.Color) {
	if x1-x0+1 <= 2*width || y1-y0+1 <= 2*width {
		p.rect(x0, y0, x1, y1, col)
		return
	}
	p.rect(x0, y0, x1, y0+width-1, col)
	p.rect(x0, y1-width+1, x1, y1, col)
	p.rect(x0, y0+width, x0+width-1, y1-width, col)
	p.rect(x1-width+1, y0+width, x1, y1-width, col)
}
