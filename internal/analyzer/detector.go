package analyzer

import (
	"image"

	"github.com/disintegration/imaging"
)

// Detector picks the part of a picture worth showing on a round ornament.
type Detector interface {
	// Focus returns a square inside img.Bounds().
	Focus(img image.Image) image.Rectangle
}

// FocusCrop crops img to the detector's square. A nil detector leaves the
// picture untouched.
func FocusCrop(d Detector, img image.Image) image.Image {
	if d == nil {
		return img
	}
	r := d.Focus(img)
	if r.Empty() || r == img.Bounds() {
		return img
	}
	return imaging.Crop(img, r)
}

// SquareAround returns the smallest square containing r, centered on r and
// shifted to stay inside bounds. When bounds is narrower than the square the
// side shrinks to fit.
func SquareAround(r, bounds image.Rectangle) image.Rectangle {
	side := max(r.Dx(), r.Dy())
	side = min(side, bounds.Dx(), bounds.Dy())
	if side <= 0 {
		return image.Rectangle{}
	}

	cx := (r.Min.X + r.Max.X) / 2
	cy := (r.Min.Y + r.Max.Y) / 2
	x0 := min(max(cx-side/2, bounds.Min.X), bounds.Max.X-side)
	y0 := min(max(cy-side/2, bounds.Min.Y), bounds.Max.Y-side)
	return image.Rect(x0, y0, x0+side, y0+side)
}
