package engine

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"

	"github.com/ivlev/xmastree/internal/effects"
	"github.com/ivlev/xmastree/internal/renderer"
	"github.com/ivlev/xmastree/internal/scene"
	"github.com/ivlev/xmastree/internal/system"
)

const (
	twinklingStars = 50
	snowflakes     = 25
	starSize       = 100
	garlandPoints  = 15
	vignetteRings  = 30
	captionMargin  = 20
	tagMargin      = 30
)

var (
	garlandColor = color.NRGBA{R: 255, G: 215, B: 0, A: 150}
	vignetteInk  = color.NRGBA{}
)

// Phase is the global animation angle of frame, 2*pi*frame/total wrapped
// into [0, 2*pi). Frame total is therefore identical to frame 0.
func Phase(frame, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := math.Mod(2*math.Pi*float64(frame)/float64(total), 2*math.Pi)
	if p < 0 {
		p += 2 * math.Pi
	}
	return p
}

type snowflake struct {
	X, Y   int
	sprite *image.RGBA
}

// Composer turns the static scene into animation frames. Everything it holds
// is read-only after construction, so Compose may run on several goroutines.
type Composer struct {
	Base   *image.RGBA
	Meta   *scene.Metadata
	Frames int

	// Ornaments has one decoration per metadata ornament slot; nil slots stay empty.
	Ornaments []effects.Decoration
	Caption   *image.NRGBA
	Tag       effects.Decoration
	TagSize   int

	snow []snowflake
}

// NewComposer lays out the falling snow from snowSeed. The flakes sit on the
// same spots in every frame and only bob vertically.
func NewComposer(base *image.RGBA, meta *scene.Metadata, frames int, snowSeed int64) *Composer {
	c := &Composer{Base: base, Meta: meta, Frames: frames}

	w, h := base.Bounds().Dx(), base.Bounds().Dy()
	r := rand.New(rand.NewSource(snowSeed))
	sprites := make(map[int]*image.RGBA)
	for i := 0; i < snowflakes; i++ {
		x := scene.RandInt(r, 0, w)
		y := scene.RandInt(r, 0, h)
		size := scene.RandInt(r, 15, 25)
		if sprites[size] == nil {
			sprites[size] = effects.Snowflake{}.Render(size, 0)
		}
		c.snow = append(c.snow, snowflake{X: x, Y: y, sprite: sprites[size]})
	}
	return c
}

// Compose renders frame index frame. The result is a fresh opaque image.
func (c *Composer) Compose(frame int) *image.RGBA {
	// База общая для всех воркеров, рисуем только на копии
	img := renderer.Clone(c.Base)
	phase := Phase(frame, c.Frames)

	// Один прозрачный слой на кадр: рисуем с заменой пикселей, потом накладываем
	layer := system.GetImage(img.Rect)
	defer system.PutImage(layer)

	c.drawTwinkle(layer, phase)
	renderer.Paste(img, layer, image.Point{})

	clear(layer.Pix)
	c.drawSnow(layer, frame)
	renderer.Paste(img, layer, image.Point{})

	// Спрайты сразу накладываются на кадр, порядок важен: звезда поверх шаров
	c.drawOrnaments(img, phase)
	c.drawStar(img, phase)

	clear(layer.Pix)
	c.drawLights(layer, frame)
	renderer.Paste(img, layer, image.Point{})

	clear(layer.Pix)
	c.drawGarland(layer, frame, phase)
	renderer.Paste(img, layer, image.Point{})

	c.drawTag(img, phase)
	c.drawCaption(img)

	clear(layer.Pix)
	c.drawVignette(layer)
	renderer.Paste(img, layer, image.Point{})

	return img
}

func (c *Composer) drawTwinkle(layer *image.RGBA, phase float64) {
	cv := renderer.NewCanvas(layer, draw.Src)
	for i, s := range c.Meta.Stars {
		if i == twinklingStars {
			break
		}
		b := int(float64(s.Brightness) * (0.7 + 0.3*math.Sin(phase+float64(i)*0.3)))
		cv.FillEllipse(float64(s.X-1), float64(s.Y-1), float64(s.X+2), float64(s.Y+2), renderer.Gray(b))
	}
}

func (c *Composer) drawSnow(layer *image.RGBA, frame int) {
	for i, f := range c.snow {
		// Снежинка качается в пределах 50 пикселей, у каждой свой сдвиг
		offset := (frame*2+i*20)%50 - 25
		renderer.Paste(layer, f.sprite, image.Pt(f.X, f.Y+offset))
	}
}

func (c *Composer) drawOrnaments(img *image.RGBA, phase float64) {
	for idx, o := range c.Meta.Ornaments {
		if idx >= len(c.Ornaments) || c.Ornaments[idx] == nil {
			continue
		}
		sprite := c.Ornaments[idx].Render(o.Size, phase+float64(idx)*0.5)
		// Битая картинка: слот пустой, кадр все равно собирается
		if sprite == nil {
			continue
		}
		renderer.Paste(img, sprite, image.Pt(o.X-o.Size/2, o.Y-o.Size/2))
		system.PutImage(sprite)
	}
}

func (c *Composer) drawStar(img *image.RGBA, phase float64) {
	sprite := effects.Star{}.Render(starSize, phase*2)
	renderer.Paste(img, sprite, image.Pt(c.Meta.TreeCenter-starSize/2, c.Meta.TreeTop-starSize/2+10))
	system.PutImage(sprite)
}

func (c *Composer) drawLights(layer *image.RGBA, frame int) {
	cv := renderer.NewCanvas(layer, draw.Src)
	for i, p := range c.Meta.Lights {
		effects.Light{Index: i}.Paint(cv, p.X, p.Y, effects.LightPhase(frame, i))
	}
}

func (c *Composer) drawGarland(layer *image.RGBA, frame int, phase float64) {
	cv := renderer.NewCanvas(layer, draw.Src)
	m := c.Meta
	center := float64(m.TreeCenter)
	for row := 1; row < 6; row++ {
		yBase := float64(m.TreeTop + 50 + (m.TreeHeight-100)*row/6)
		rowWidth := float64(m.TreeBaseWidth) * float64(row) / 6.5 * (1 + float64(row)/5)

		pts := make([]renderer.Point, garlandPoints)
		for i := range pts {
			x := center - math.Floor(rowWidth/2) + rowWidth*float64(i)/(garlandPoints-1)
			y := yBase + math.Sin(float64(i)*0.8+phase)*12
			pts[i] = renderer.Pt(x, y)
		}

		for i := 0; i+1 < len(pts); i++ {
			cv.Line(pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y, 2, garlandColor)
			// Блестки бегут по гирлянде: каждая третья точка, со сдвигом на кадр
			if (i+frame)%3 == 0 {
				alpha := int(150 + 100*math.Sin(phase+float64(i)))
				p := pts[i]
				cv.FillEllipse(p.X-3, p.Y-3, p.X+3, p.Y+3, renderer.WithAlpha(effects.Sparkle, alpha))
			}
		}
	}
}

func (c *Composer) drawTag(img *image.RGBA, phase float64) {
	if c.Tag == nil || c.TagSize <= 0 {
		return
	}
	sprite := c.Tag.Render(c.TagSize, phase)
	if sprite == nil {
		return
	}
	renderer.Paste(img, sprite, image.Pt(img.Rect.Dx()-c.TagSize-tagMargin, tagMargin))
	system.PutImage(sprite)
}

func (c *Composer) drawCaption(img *image.RGBA) {
	if c.Caption == nil {
		return
	}
	b := c.Caption.Bounds()
	at := image.Pt((img.Rect.Dx()-b.Dx())/2, img.Rect.Dy()-b.Dy()-captionMargin)
	renderer.Paste(img, c.Caption, at)
}

func (c *Composer) drawVignette(layer *image.RGBA) {
	cv := renderer.NewCanvas(layer, draw.Src)
	w, h := layer.Rect.Dx(), layer.Rect.Dy()
	// Рамки темнеют к центру: отступ 15i, прозрачность 4i
	for i := 0; i < vignetteRings; i++ {
		m := i * 15
		cv.StrokeRect(m, m, w-m, h-m, 1, renderer.WithAlpha(vignetteInk, 4*i))
	}
}
