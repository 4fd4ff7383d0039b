package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var (
	captionFill   = color.NRGBA{R: 255, G: 223, B: 100, A: 255}
	captionStroke = color.NRGBA{R: 200, G: 150, B: 50, A: 255}
	captionGlow   = color.NRGBA{R: 255, G: 150, B: 50}
)

const (
	captionStrokeWidth = 3
	captionGlowWidth   = 12
	captionMargin      = 16
)

// GlowText renders s with a solid outline and a fading outer glow, crops the
// result to its visible pixels and scales it to targetWidth (Lanczos), keeping
// the aspect ratio. It returns nil when the text has no visible pixels.
//
// Glow bands are hard-edged: a pixel at distance d beyond the glyph takes the
// band ceil(d) with alpha int(100*(1-ceil(d)/12))/2.
func GlowText(face font.Face, s string, targetWidth int) *image.NRGBA {
	adv := font.MeasureString(face, s).Ceil()
	m := face.Metrics()
	pad := captionMargin + captionGlowWidth
	w := adv + 2*pad
	h := m.Height.Ceil() + 2*pad
	if adv <= 0 {
		return nil
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(pad, pad+m.Ascent.Ceil()),
	}
	d.DrawString(s)

	dist := DistanceField(mask)
	text := image.NewNRGBA(mask.Rect)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			cov := float64(mask.Pix[mask.PixOffset(x, y)]) / 255
			var c color.NRGBA
			switch dv := float64(dist[i]); {
			case cov > 0:
				c = Mix(captionStroke, captionFill, cov)
			case dv <= captionStrokeWidth:
				c = captionStroke
			case dv <= captionGlowWidth:
				band := math.Ceil(dv)
				c = WithAlpha(captionGlow, int(100*(1-band/captionGlowWidth))/2)
			default:
				continue
			}
			text.SetNRGBA(x, y, c)
		}
	}

	bbox := AlphaBounds(text)
	if bbox.Empty() {
		return nil
	}
	cropped := imaging.Crop(text, bbox)
	if targetWidth <= 0 || targetWidth == cropped.Bounds().Dx() {
		return cropped
	}
	return imaging.Resize(cropped, targetWidth, 0, imaging.Lanczos)
}
