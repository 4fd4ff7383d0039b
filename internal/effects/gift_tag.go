package effects

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/skip2/go-qrcode"

	"github.com/ivlev/xmastree/internal/renderer"
)

var (
	tagPaper = color.NRGBA{R: 255, G: 250, B: 235, A: 255}
	tagInk   = color.NRGBA{R: 120, G: 20, B: 20, A: 255}
)

const tagBorder = 4

// GiftTag is a small card carrying a QR code of Text, hung in a corner of
// the scene. Its gold border shimmers with the phase.
type GiftTag struct {
	Text string

	qr *qrcode.QRCode
}

func NewGiftTag(text string) (*GiftTag, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("gift tag: %w", err)
	}
	q.ForegroundColor = tagInk
	q.BackgroundColor = tagPaper
	q.DisableBorder = true
	return &GiftTag{Text: text, qr: q}, nil
}

func (t *GiftTag) Render(size int, phase float64) *image.RGBA {
	img := newSprite(size)
	c := renderer.NewCanvas(img, draw.Src)
	c.FillRect(0, 0, size-1, size-1, tagPaper)

	inner := size - 4*tagBorder
	if inner > 0 {
		code := t.qr.Image(inner)
		// the library grows the image when inner is below one pixel per module
		if code.Bounds().Dx() != inner {
			code = imaging.Resize(code, inner, inner, imaging.NearestNeighbor)
		}
		draw.Draw(img, image.Rect(2*tagBorder, 2*tagBorder, 2*tagBorder+inner, 2*tagBorder+inner),
			code, code.Bounds().Min, draw.Src)
	}

	shimmer := int(170 + 85*math.Sin(phase))
	c.StrokeRect(0, 0, size-1, size-1, tagBorder, renderer.WithAlpha(Gold, shimmer))
	return img
}
