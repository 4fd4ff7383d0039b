package scene

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"

	"github.com/gogpu/gg"

	"github.com/ivlev/xmastree/internal/renderer"
)

const (
	treeTop        = 120
	treeBottomGap  = 280
	treeBaseWidth  = 500
	treeLayers     = 6
	branchStrokes  = 15
	backgroundStar = 200

	trunkWidth  = 80
	trunkHeight = 120
	potWidth    = 160
	potHeight   = 80
)

var (
	skyTop    = color.NRGBA{R: 5, G: 10, B: 30, A: 255}
	skyBottom = color.NRGBA{R: 15, G: 30, B: 70, A: 255}

	treeDark  = color.NRGBA{R: 0, G: 80, B: 20, A: 255}
	treeMid   = color.NRGBA{R: 20, G: 120, B: 40, A: 255}
	treeLight = color.NRGBA{R: 40, G: 160, B: 60, A: 255}

	trunkBase  = color.NRGBA{R: 101, G: 67, B: 33, A: 255}
	potFill    = color.NRGBA{R: 139, G: 69, B: 19, A: 255}
	potRimFill = color.NRGBA{R: 160, G: 82, B: 45, A: 255}
	potOutline = color.NRGBA{R: 100, G: 50, B: 10, A: 255}
)

// RandInt returns an integer in [lo, hi], both inclusive.
func RandInt(r *rand.Rand, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.Intn(hi-lo+1)
}

// floorDiv2 halves a float width and floors it, matching how the row spans are anchored.
func floorDiv2(v float64) float64 {
	return math.Floor(v / 2)
}

// Build draws the static scene (sky, background stars, tree, trunk, pot) on a
// new opaque canvas and computes the ornament, light and star layout. The
// result depends only on the canvas size and seed.
func Build(width, height int, seed int64) (*image.RGBA, *Metadata, error) {
	r := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// небо построчно, остальное рисует gg поверх
	renderer.NewCanvas(img, draw.Src).VerticalGradient(skyTop, skyBottom)
	dc := gg.NewContextForImage(img)
	defer dc.Close()
	p := &painter{dc: dc}

	meta := &Metadata{
		TreeTop:       treeTop,
		TreeBottom:    height - treeBottomGap,
		TreeCenter:    width / 2,
		TreeBaseWidth: treeBaseWidth,
	}
	meta.TreeHeight = meta.TreeBottom - meta.TreeTop

	meta.Stars = drawStars(p, r, width, height)
	drawTree(p, r, meta)
	drawTrunkAndPot(p, meta)
	if p.err != nil {
		return nil, nil, fmt.Errorf("scene: %w", p.err)
	}
	draw.Draw(img, img.Rect, dc.Image(), image.Point{}, draw.Src)

	// раскладка шаров и огоньков
	meta.Ornaments = layoutOrnaments(r, meta)
	meta.Lights = layoutLights(r, meta)

	return img, meta, nil
}

func drawStars(p *painter, r *rand.Rand, width, height int) []Star {
	stars := make([]Star, 0, backgroundStar)
	for i := 0; i < backgroundStar; i++ {
		x := RandInt(r, 0, width)
		y := RandInt(r, 0, height/2)
		brightness := RandInt(r, 150, 255)
		size := 1
		if r.Intn(4) == 3 {
			size = 2
		}
		p.ellipse(x, y, x+size, y+size, renderer.Gray(brightness))
		stars = append(stars, Star{X: x, Y: y, Brightness: brightness})
	}
	return stars
}

func drawTree(p *painter, r *rand.Rand, m *Metadata) {
	center := float64(m.TreeCenter)
	for layer := 0; layer < treeLayers; layer++ {
		layerTop := m.TreeTop + m.TreeHeight*layer/treeLayers
		layerBottom := m.TreeTop + m.TreeHeight*(layer+1)/treeLayers + 30

		// 1x at the top layer, 2x at the bottom one
		widthMultiplier := 1.0 + float64(layer)/float64(treeLayers-1)
		bottomWidth := int(treeBaseWidth * (float64(layer+1) / treeLayers) * widthMultiplier)
		half := bottomWidth / 2

		for offset := 0; offset < 3; offset++ {
			shade := 1 - float64(offset)*0.1
			p.polygon(renderer.Scale(treeMid, shade),
				center, float64(layerTop-10),
				center-float64(half)+float64(offset*5), float64(layerBottom),
				center+float64(half)-float64(offset*5), float64(layerBottom),
			)
		}

		// branch texture
		for i := 0; i < branchStrokes; i++ {
			bx := RandInt(r, m.TreeCenter-half+20, m.TreeCenter+half-20)
			by := RandInt(r, layerTop+10, layerBottom-10)
			length := RandInt(r, 10, 30)
			direction := 1
			if bx < m.TreeCenter {
				direction = -1
			}
			col := []color.NRGBA{treeDark, treeMid, treeLight}[r.Intn(3)]
			w := RandInt(r, 2, 4)
			p.line(bx, by, bx+direction*length, by+length/2, float64(w), col)
		}
	}
}

func drawTrunkAndPot(p *painter, m *Metadata) {
	trunkTop := m.TreeBottom - 20
	for i := 0; i < trunkWidth/2; i++ {
		shade := 0.5 + float64(i)/trunkWidth
		p.rect(m.TreeCenter-trunkWidth/2+i, trunkTop, m.TreeCenter+trunkWidth/2-i, trunkTop+trunkHeight,
			renderer.Scale(trunkBase, shade))
	}

	potTop := trunkTop + trunkHeight - 10
	// горшок и ободок с контуром
	p.rect(m.TreeCenter-potWidth/2, potTop, m.TreeCenter+potWidth/2, potTop+potHeight, potFill)
	p.outline(m.TreeCenter-potWidth/2, potTop, m.TreeCenter+potWidth/2, potTop+potHeight, 3, potOutline)

	p.rect(m.TreeCenter-potWidth/2-10, potTop, m.TreeCenter+potWidth/2+10, potTop+20, potRimFill)
	p.outline(m.TreeCenter-potWidth/2-10, potTop, m.TreeCenter+potWidth/2+10, potTop+20, 2, potOutline)
}

// layoutOrnaments places 1..6 ornaments per row. Rows sit one tree level lower
// than the layers and are widened by the same multiplier.
func layoutOrnaments(r *rand.Rand, m *Metadata) []Ornament {
	center := float64(m.TreeCenter)
	ornaments := make([]Ornament, 0, OrnamentCount)
	for row, n := range OrnamentRows {
		y := m.TreeTop + 70 + (m.TreeHeight-140)*(row+1)/6
		widthMultiplier := 1.0 + float64(row+1)/6
		rowWidth := treeBaseWidth * float64(row+2) / 7 * widthMultiplier

		for i := 0; i < n; i++ {
			x := center
			if n > 1 {
				x = center - floorDiv2(rowWidth) + math.Floor(rowWidth*float64(i)/float64(n-1))
			}
			x += float64(RandInt(r, -10, 10))
			yOffset := RandInt(r, -8, 8)
			size := RandInt(r, MinOrnamentSize, MaxOrnamentSize)
			ornaments = append(ornaments, Ornament{Row: row, X: int(x), Y: y + yOffset, Size: size})
		}
	}
	return ornaments
}

// layoutLights spreads 8+2*row candidates per row and keeps those inside the row span.
func layoutLights(r *rand.Rand, m *Metadata) []Position {
	center := float64(m.TreeCenter)
	lights := make([]Position, 0, MaxLights())
	for row := 0; row < LightRows; row++ {
		yBase := m.TreeTop + 50 + (m.TreeHeight-100)*row/6
		widthMultiplier := 1.0 + float64(row)/5
		rowWidth := treeBaseWidth * (float64(row) + 0.5) / 6.5 * widthMultiplier

		count := 8 + row*2
		for i := 0; i < count; i++ {
			x := center - floorDiv2(rowWidth) + rowWidth*float64(i)/float64(count-1)
			y := yBase + RandInt(r, -15, 15)
			if center-floorDiv2(rowWidth)-10 < x && x < center+floorDiv2(rowWidth)+10 {
				lights = append(lights, Position{X: int(x), Y: y})
			}
		}
	}
	return lights
}
