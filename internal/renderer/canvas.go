package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Point is a position in canvas pixel space.
type Point struct {
	X, Y float64
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Canvas draws anti-aliased shapes onto an RGBA image.
//
// Shape bounding boxes follow the inclusive pixel convention: the ellipse or
// rectangle [x0,y0,x1,y1] covers pixels x0..x1 and y0..y1. Op selects how a
// shape combines with what is already there: draw.Over blends, draw.Src
// replaces the pixels the shape covers, weighted by edge coverage, and leaves
// the rest alone. Decoration sprites are painted with Src on their own
// transparent layer before being composited.
type Canvas struct {
	Img *image.RGBA
	Op  draw.Op

	z *vector.Rasterizer
}

func NewCanvas(img *image.RGBA, op draw.Op) *Canvas {
	return &Canvas{Img: img, Op: op}
}

// FillPolygon fills one closed contour.
func (c *Canvas) FillPolygon(pts []Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	centered := make([]Point, len(pts))
	for i, p := range pts {
		centered[i] = Pt(p.X+0.5, p.Y+0.5)
	}
	c.fill([][]Point{centered}, col)
}

// StrokePolygon outlines a closed contour with lines of the given width.
func (c *Canvas) StrokePolygon(pts []Point, width float64, col color.Color) {
	if len(pts) < 2 {
		return
	}
	closed := append(append([]Point(nil), pts...), pts[0])
	c.Polyline(closed, width, col)
}

// FillEllipse fills the ellipse inscribed in the inclusive box.
func (c *Canvas) FillEllipse(x0, y0, x1, y1 float64, col color.Color) {
	cx, cy, rx, ry := ellipseBox(x0, y0, x1, y1)
	if rx <= 0 || ry <= 0 {
		return
	}
	c.fill([][]Point{ellipsePoints(cx, cy, rx, ry, false)}, col)
}

// StrokeEllipse draws an elliptical ring of the given width inside the inclusive box.
func (c *Canvas) StrokeEllipse(x0, y0, x1, y1, width float64, col color.Color) {
	cx, cy, rx, ry := ellipseBox(x0, y0, x1, y1)
	if rx <= 0 || ry <= 0 || width <= 0 {
		return
	}
	outer := ellipsePoints(cx, cy, rx, ry, false)
	if rx <= width || ry <= width {
		c.fill([][]Point{outer}, col)
		return
	}
	inner := ellipsePoints(cx, cy, rx-width, ry-width, true)
	c.fill([][]Point{outer, inner}, col)
}

// Arc strokes the part of the box's ellipse between two angles in degrees,
// measured clockwise from three o'clock.
func (c *Canvas) Arc(x0, y0, x1, y1, startDeg, endDeg, width float64, col color.Color) {
	cx, cy, rx, ry := ellipseBox(x0, y0, x1, y1)
	if rx <= 0 || ry <= 0 {
		return
	}
	// stroke centered half a width inside the box, like the ring
	rx -= width / 2
	ry -= width / 2
	// Polyline takes pixel indices and adds the half-pixel itself
	cx -= 0.5
	cy -= 0.5
	for endDeg < startDeg {
		endDeg += 360
	}
	steps := int(math.Ceil((endDeg - startDeg) / 6))
	if steps < 2 {
		steps = 2
	}
	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		a := (startDeg + (endDeg-startDeg)*float64(i)/float64(steps)) * math.Pi / 180
		pts = append(pts, Pt(cx+rx*math.Cos(a), cy+ry*math.Sin(a)))
	}
	c.Polyline(pts, width, col)
}

// Line draws a segment between two pixel positions.
func (c *Canvas) Line(x0, y0, x1, y1, width float64, col color.Color) {
	c.Polyline([]Point{Pt(x0, y0), Pt(x1, y1)}, width, col)
}

// Polyline strokes consecutive segments. Overlapping joints do not double up.
func (c *Canvas) Polyline(pts []Point, width float64, col color.Color) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	contours := make([][]Point, 0, len(pts)-1)
	hw := width / 2
	for i := 0; i+1 < len(pts); i++ {
		// pixel centers sit at +0.5
		a := Pt(pts[i].X+0.5, pts[i].Y+0.5)
		b := Pt(pts[i+1].X+0.5, pts[i+1].Y+0.5)
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			contours = append(contours, []Point{
				Pt(a.X-hw, a.Y-hw), Pt(a.X+hw, a.Y-hw), Pt(a.X+hw, a.Y+hw), Pt(a.X-hw, a.Y+hw),
			})
			continue
		}
		// extend by half a width along the direction to square off the caps
		ux, uy := dx/l*hw, dy/l*hw
		nx, ny := -uy, ux
		a = Pt(a.X-ux, a.Y-uy)
		b = Pt(b.X+ux, b.Y+uy)
		contours = append(contours, []Point{
			Pt(a.X+nx, a.Y+ny), Pt(b.X+nx, b.Y+ny), Pt(b.X-nx, b.Y-ny), Pt(a.X-nx, a.Y-ny),
		})
	}
	c.fillNoCancel(contours, col)
}

// FillRect fills the inclusive pixel box.
func (c *Canvas) FillRect(x0, y0, x1, y1 int, col color.Color) {
	if x1 < x0 || y1 < y0 {
		return
	}
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(c.Img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.Img, r, image.NewUniform(col), image.Point{}, c.Op)
}

// StrokeRect outlines the inclusive pixel box with bands of the given width drawn inward.
func (c *Canvas) StrokeRect(x0, y0, x1, y1, width int, col color.Color) {
	if width <= 0 || x1 < x0 || y1 < y0 {
		return
	}
	if x1-x0+1 <= 2*width || y1-y0+1 <= 2*width {
		c.FillRect(x0, y0, x1, y1, col)
		return
	}
	c.FillRect(x0, y0, x1, y0+width-1, col)
	c.FillRect(x0, y1-width+1, x1, y1, col)
	c.FillRect(x0, y0+width, x0+width-1, y1-width, col)
	c.FillRect(x1-width+1, y0+width, x1, y1-width, col)
}

// BlendPixel combines col weighted by coverage into the pixel at (x, y) using the canvas Op.
func (c *Canvas) BlendPixel(x, y int, col color.NRGBA, coverage float64) {
	if !(image.Point{X: x, Y: y}.In(c.Img.Rect)) || coverage <= 0 {
		return
	}
	if coverage > 1 {
		coverage = 1
	}
	i := c.Img.PixOffset(x, y)
	p := c.Img.Pix[i : i+4 : i+4]

	// premultiplied source scaled by coverage
	sa := float64(col.A) / 255 * coverage
	sr := float64(col.R) * sa
	sg := float64(col.G) * sa
	sb := float64(col.B) * sa

	var keep float64
	if c.Op == draw.Over {
		keep = 1 - sa
	} else {
		keep = 1 - coverage
	}
	p[0] = clamp255(math.Round(sr + float64(p[0])*keep))
	p[1] = clamp255(math.Round(sg + float64(p[1])*keep))
	p[2] = clamp255(math.Round(sb + float64(p[2])*keep))
	p[3] = clamp255(math.Round(sa*255 + float64(p[3])*keep))
}

// Paste composites src over dst with its top-left corner at at.
func Paste(dst *image.RGBA, src image.Image, at image.Point) {
	sb := src.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(sb.Size())}
	draw.Draw(dst, r, src, sb.Min, draw.Over)
}

// Clone copies an RGBA image into a fresh buffer.
func Clone(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// fill rasterizes the contours with the canvas Op. Contours of opposite
// orientation cancel, which is how rings get their hole.
func (c *Canvas) fill(contours [][]Point, col color.Color) {
	r, ok := c.bounds(contours)
	if !ok {
		return
	}
	z := c.rasterizer(r)
	for _, pts := range contours {
		z.MoveTo(float32(pts[0].X-float64(r.Min.X)), float32(pts[0].Y-float64(r.Min.Y)))
		for _, p := range pts[1:] {
			z.LineTo(float32(p.X-float64(r.Min.X)), float32(p.Y-float64(r.Min.Y)))
		}
		z.ClosePath()
	}
	if c.Op != draw.Src {
		z.Draw(c.Img, r, image.NewUniform(col), image.Point{})
		return
	}

	// the rasterizer writes every pixel of r under Src, so go through a
	// coverage mask and replace only where the shape lands
	mask := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	z.Draw(mask, mask.Rect, image.Opaque, image.Point{})
	nc := color.NRGBAModel.Convert(col).(color.NRGBA)
	for y := 0; y < r.Dy(); y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+r.Dx()]
		for x, m := range row {
			if m != 0 {
				c.BlendPixel(r.Min.X+x, r.Min.Y+y, nc, float64(m)/255)
			}
		}
	}
}

// fillNoCancel orients every contour the same way so overlaps saturate instead of cancelling.
func (c *Canvas) fillNoCancel(contours [][]Point, col color.Color) {
	for i, pts := range contours {
		if signedArea(pts) < 0 {
			rev := make([]Point, len(pts))
			for j := range pts {
				rev[j] = pts[len(pts)-1-j]
			}
			contours[i] = rev
		}
	}
	c.fill(contours, col)
}

func (c *Canvas) bounds(contours [][]Point) (image.Rectangle, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pts := range contours {
		for _, p := range pts {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return image.Rectangle{}, false
	}
	r := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(c.Img.Bounds())
	return r, !r.Empty()
}

func (c *Canvas) rasterizer(r image.Rectangle) *vector.Rasterizer {
	if c.z == nil {
		c.z = vector.NewRasterizer(r.Dx(), r.Dy())
	} else {
		c.z.Reset(r.Dx(), r.Dy())
	}
	c.z.DrawOp = c.Op
	return c.z
}

func ellipseBox(x0, y0, x1, y1 float64) (cx, cy, rx, ry float64) {
	return (x0 + x1 + 1) / 2, (y0 + y1 + 1) / 2, (x1 - x0 + 1) / 2, (y1 - y0 + 1) / 2
}

func ellipsePoints(cx, cy, rx, ry float64, reverse bool) []Point {
	n := int(math.Ceil(math.Pi * (rx + ry) / 2))
	if n < 16 {
		n = 16
	}
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		if reverse {
			a = -a
		}
		pts[i] = Pt(cx+rx*math.Cos(a), cy+ry*math.Sin(a))
	}
	return pts
}

func signedArea(pts []Point) float64 {
	s := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		s += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return s / 2
}
