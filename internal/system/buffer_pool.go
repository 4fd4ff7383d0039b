package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool раздает прозрачные *image.RGBA одного размера: спрайты шаров,
// огоньков, снежинок и полноразмерные слои кадра. Каждый кадр берет и
// возвращает десятки буферов, так что без пула GC не успевает.
type ImagePool struct {
	mu      sync.Mutex
	bySize  map[image.Rectangle]*sync.Pool
	created atomic.Int64
	reused  atomic.Int64
}

var sprites = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{bySize: make(map[image.Rectangle]*sync.Pool)}
}

// GetImage берет из общего пула буфер с границами rect, обнуленный.
func GetImage(rect image.Rectangle) *image.RGBA {
	return sprites.Get(rect)
}

// PutImage возвращает буфер в общий пул. После этого трогать его нельзя.
func PutImage(img *image.RGBA) {
	sprites.Put(img)
}

// PoolStats сообщает, сколько буферов общего пула выделено заново и сколько переиспользовано.
func PoolStats() (created, reused int64) {
	return sprites.Stats()
}

func (p *ImagePool) sizePool(rect image.Rectangle, create bool) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	pool := p.bySize[rect]
	if pool == nil && create {
		pool = &sync.Pool{}
		p.bySize[rect] = pool
	}
	return pool
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	pool := p.sizePool(rect, true)
	if img, ok := pool.Get().(*image.RGBA); ok {
		p.reused.Add(1)
		clear(img.Pix)
		return img
	}
	p.created.Add(1)
	return image.NewRGBA(rect)
}

// Put принимает только буферы тех размеров, что уже выдавались.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	if pool := p.sizePool(img.Rect, false); pool != nil {
		pool.Put(img)
	}
}

func (p *ImagePool) Stats() (created, reused int64) {
	return p.created.Load(), p.reused.Load()
}
