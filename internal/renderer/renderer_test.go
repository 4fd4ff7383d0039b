package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"golang.org/x/image/font/basicfont"
)

var red = color.NRGBA{R: 255, A: 255}

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func TestFillEllipse(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	c := NewCanvas(img, draw.Src)
	c.FillEllipse(10, 10, 29, 29, red)

	if a := alphaAt(img, 20, 20); a != 255 {
		t.Errorf("Center should be opaque, got alpha %d", a)
	}
	if a := alphaAt(img, 2, 2); a != 0 {
		t.Errorf("Outside should stay transparent, got alpha %d", a)
	}
	// the corner of the box is outside the inscribed ellipse
	if a := alphaAt(img, 10, 10); a > 128 {
		t.Errorf("Box corner should be mostly uncovered, got alpha %d", a)
	}
}

func TestStrokeEllipseHasHole(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	c := NewCanvas(img, draw.Over)
	c.StrokeEllipse(0, 0, 59, 59, 3, red)

	if a := alphaAt(img, 30, 30); a != 0 {
		t.Errorf("Ring center must be empty, got alpha %d", a)
	}
	if a := alphaAt(img, 1, 30); a == 0 {
		t.Error("Ring edge must be painted")
	}
}

func TestPolylineOverlapDoesNotCancel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	c := NewCanvas(img, draw.Src)
	// there and back again over the same pixels
	c.Polyline([]Point{Pt(2, 10), Pt(17, 10), Pt(2, 10)}, 2, red)

	if a := alphaAt(img, 10, 10); a != 255 {
		t.Errorf("Overlapping segments should saturate, got alpha %d", a)
	}
}

func TestSrcReplacesTranslucent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	c := NewCanvas(img, draw.Src)
	c.FillRect(0, 0, 9, 9, color.NRGBA{R: 255, A: 255})
	c.FillRect(2, 2, 7, 7, color.NRGBA{G: 255, A: 100})

	got := img.RGBAAt(5, 5)
	if got.A != 100 || got.R != 0 {
		t.Errorf("Src should replace the pixel, got %+v", got)
	}
}

func TestStrokeRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	c := NewCanvas(img, draw.Over)
	c.StrokeRect(5, 5, 24, 24, 2, red)

	if alphaAt(img, 5, 10) == 0 || alphaAt(img, 6, 10) == 0 {
		t.Error("Left band should be two pixels wide")
	}
	if alphaAt(img, 7, 10) != 0 {
		t.Error("Inside of the outline must stay empty")
	}
	if alphaAt(img, 24, 24) == 0 {
		t.Error("Inclusive corner must be painted")
	}
}

func TestBlendPixel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{B: 255, A: 255})

	over := NewCanvas(img, draw.Over)
	over.BlendPixel(0, 0, color.NRGBA{R: 255, A: 255}, 0.5)
	got := img.RGBAAt(0, 0)
	if got.A != 255 || math.Abs(float64(got.R)-128) > 1 || math.Abs(float64(got.B)-128) > 1 {
		t.Errorf("Half coverage over blue should be purple, got %+v", got)
	}

	over.BlendPixel(5, 5, red, 1) // out of bounds is ignored
}

func TestDistanceField(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 21, 21))
	mask.SetAlpha(10, 10, color.Alpha{A: 255})

	d := DistanceField(mask)
	at := func(x, y int) float64 { return float64(d[y*21+x]) }

	if at(10, 10) != 0 {
		t.Errorf("Ink pixel distance should be 0, got %f", at(10, 10))
	}
	if at(15, 10) != 5 {
		t.Errorf("Axis distance should be 5, got %f", at(15, 10))
	}
	if math.Abs(at(13, 13)-3*math.Sqrt2) > 1e-4 {
		t.Errorf("Diagonal distance should be 3*sqrt2, got %f", at(13, 13))
	}
}

func TestAlphaBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	if !AlphaBounds(img).Empty() {
		t.Error("Transparent image should have empty bounds")
	}
	img.SetNRGBA(5, 7, red)
	img.SetNRGBA(20, 30, red)

	want := image.Rect(5, 7, 21, 31)
	if got := AlphaBounds(img); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestGlowText(t *testing.T) {
	text := GlowText(basicfont.Face7x13, "Merry", 300)
	if text == nil {
		t.Fatal("Expected caption image")
	}
	if text.Bounds().Dx() != 300 {
		t.Errorf("Expected width 300, got %d", text.Bounds().Dx())
	}
	if text.Bounds().Dy() <= 0 {
		t.Error("Expected positive height")
	}

	if GlowText(basicfont.Face7x13, "", 300) != nil {
		t.Error("Empty text should produce no image")
	}
}

func TestColorHelpers(t *testing.T) {
	c := Scale(color.NRGBA{R: 200, G: 100, B: 10, A: 77}, 0.5)
	if c != (color.NRGBA{R: 100, G: 50, B: 5, A: 77}) {
		t.Errorf("Unexpected scaled color %+v", c)
	}
	if WithAlpha(red, 300).A != 255 || WithAlpha(red, -4).A != 0 {
		t.Error("WithAlpha must clamp")
	}
	if m := Mix(color.NRGBA{}, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 0.5); m.R != 128 {
		t.Errorf("Unexpected mix %+v", m)
	}
}

func TestVerticalGradient(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 100))
	NewCanvas(img, draw.Src).VerticalGradient(
		color.NRGBA{R: 5, G: 10, B: 30, A: 255},
		color.NRGBA{R: 15, G: 30, B: 70, A: 255},
	)
	top, mid := img.RGBAAt(0, 0), img.RGBAAt(3, 50)
	if top != (color.RGBA{R: 5, G: 10, B: 30, A: 255}) {
		t.Errorf("Unexpected top row %+v", top)
	}
	if mid != (color.RGBA{R: 10, G: 20, B: 50, A: 255}) {
		t.Errorf("Unexpected middle row %+v", mid)
	}
}

func TestSrcShapeKeepsUncoveredPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	blue := color.NRGBA{B: 255, A: 255}
	c := NewCanvas(img, draw.Src)
	c.FillRect(0, 0, 59, 59, blue)

	// a ring, a polygon outline and a thin line all leave their bounding box alone
	c.StrokeEllipse(2, 2, 57, 57, 3, color.NRGBA{R: 255, G: 215, A: 200})
	c.StrokePolygon([]Point{Pt(10, 10), Pt(50, 10), Pt(30, 50)}, 1, red)
	c.Line(40, 50, 50, 40, 1, red)

	for _, p := range []image.Point{{30, 30}, {30, 22}, {45, 40}} {
		if got := img.RGBAAt(p.X, p.Y); got != (color.RGBA{B: 255, A: 255}) {
			t.Errorf("Pixel %v should keep the fill, got %+v", p, got)
		}
	}
	if got := img.RGBAAt(3, 30); got.A != 200 || got.B > 8 {
		t.Errorf("Ring pixel should be replaced by translucent gold, got %+v", got)
	}

	// half-covered edge pixels mix with what was there
	edge := NewCanvas(image.NewRGBA(image.Rect(0, 0, 4, 4)), draw.Src)
	edge.FillRect(0, 0, 3, 3, blue)
	edge.FillPolygon([]Point{Pt(-0.5, -0.5), Pt(1, -0.5), Pt(1, 3.5), Pt(-0.5, 3.5)}, red)
	got := edge.Img.RGBAAt(1, 1)
	if got.A != 255 || math.Abs(float64(got.R)-128) > 2 || math.Abs(float64(got.B)-128) > 2 {
		t.Errorf("Half-covered pixel should mix red and blue, got %+v", got)
	}
}
