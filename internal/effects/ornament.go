package effects

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ivlev/xmastree/internal/renderer"
	"github.com/ivlev/xmastree/internal/system"
)

var (
	ornamentRing      = color.NRGBA{R: 255, G: 215, B: 0, A: 200}
	ornamentHighlight = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// DefaultOrnament is a glossy ball in OrnamentPalette[Index mod 6], used when
// no pictures were found.
type DefaultOrnament struct {
	Index int
}

func (o DefaultOrnament) Color() color.NRGBA {
	return OrnamentPalette[o.Index%len(OrnamentPalette)]
}

func (o DefaultOrnament) Render(size int, phase float64) *image.RGBA {
	img := newSprite(size)
	base := o.Color()
	intensity := 0.8 + 0.2*math.Sin(phase)
	half := size / 2
	if half < 1 {
		return img
	}

	// concentric discs from the rim inward: white shading grows toward the center
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r := ringIndex(math.Hypot(float64(x-half), float64(y-half)))
			if r > half {
				continue
			}
			ratio := float64(r) / float64(half)
			shade := func(v uint8) uint8 {
				c := (float64(v)*ratio + 255*(1-ratio)*0.3) * intensity
				return uint8(min(255, max(0, int(c))))
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = shade(base.R)
			img.Pix[i+1] = shade(base.G)
			img.Pix[i+2] = shade(base.B)
			img.Pix[i+3] = 255
		}
	}

	c := renderer.NewCanvas(img, draw.Src)
	s := float64(size)
	c.StrokeEllipse(2, 2, s-3, s-3, 3, ornamentRing)
	c.FillEllipse(float64(size/3), float64(size/5), float64(size/2), float64(size/3),
		renderer.WithAlpha(ornamentHighlight, int(80+40*math.Sin(phase))))
	return img
}

// PictureOrnament frames a picture as a round ornament with a metallic rim,
// a specular highlight and a hanging hook. The resized and masked picture is
// cached per size, so each slot pays for the Lanczos resize once.
type PictureOrnament struct {
	Picture image.Image

	mu    sync.Mutex
	cache map[int]*image.RGBA
}

func NewPictureOrnament(pic image.Image) *PictureOrnament {
	return &PictureOrnament{Picture: pic, cache: make(map[int]*image.RGBA)}
}

// masked returns the picture resized to size x size with alpha replaced by a
// disc inset 4px from the edge.
func (o *PictureOrnament) masked(size int) *image.RGBA {
	o.mu.Lock()
	defer o.mu.Unlock()
	if m, ok := o.cache[size]; ok {
		return m
	}

	resized := imaging.Resize(o.Picture, size, size, imaging.Lanczos)
	mask := image.NewRGBA(image.Rect(0, 0, size, size))
	renderer.NewCanvas(mask, draw.Src).FillEllipse(4, 4, float64(size-4), float64(size-4), color.White)

	out := image.NewRGBA(mask.Rect)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			a := mask.Pix[mask.PixOffset(x, y)+3]
			if a == 0 {
				continue
			}
			p := resized.NRGBAAt(x, y)
			p.A = a
			out.Set(x, y, p)
		}
	}
	o.cache[size] = out
	return out
}

func (o *PictureOrnament) Render(size int, phase float64) *image.RGBA {
	img := newSprite(size)
	copy(img.Pix, o.masked(size).Pix)

	layer := newSprite(size)
	defer system.PutImage(layer)

	// metallic rim, drawn on its own layer so rings replace each other
	rim := renderer.NewCanvas(layer, draw.Src)
	glow := int(50 + 30*math.Sin(phase))
	for i := 0; i < 4; i++ {
		v := min(255, 180+i*20+glow/2)
		f := float64(i)
		rim.StrokeEllipse(f, f, float64(size-i-1), float64(size-i-1), 1,
			color.NRGBA{R: uint8(v), G: uint8(float64(v) * 0.8), B: 50, A: 255})
	}
	rim.StrokeEllipse(3, 3, float64(size-4), float64(size-4), 2, ornamentRing)
	renderer.Paste(img, layer, image.Point{})

	renderer.NewCanvas(img, draw.Over).FillEllipse(
		float64(size/4), float64(size/8), float64(size/2), float64(size/4),
		renderer.WithAlpha(ornamentHighlight, int(60+40*math.Sin(phase+1))))

	clear(layer.Pix)
	drawHook(renderer.NewCanvas(layer, draw.Src), size)
	renderer.Paste(img, layer, image.Point{})
	return img
}

func drawHook(c *renderer.Canvas, size int) {
	h := size / 8
	mid := size / 2
	c.FillEllipse(float64(mid-h/2), 0, float64(mid+h/2), float64(h), HookGold)
	c.StrokeEllipse(float64(mid-h/2), 0, float64(mid+h/2), float64(h), 1, HookEdge)
	c.Arc(float64(mid-h/3), float64(floorDiv(-h, 2)), float64(mid+h/3), float64(h/2), 0, 180, 2, HookGold)
}
