package video

import (
	"image"
	"image/color"
	"log"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// maxSamples bounds the k-means input across all frames.
const maxSamples = 6000

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// BuildPalette returns at most size opaque colors for the whole animation.
// anchors come first and are kept verbatim; the rest is chosen by k-means over
// pixels sampled from every frame, falling back to dominant colors of the
// middle frame when clustering yields nothing.
func BuildPalette(frames []*image.RGBA, size int, anchors []color.Color) color.Palette {
	pal := make(color.Palette, 0, size)
	seen := make(map[color.RGBA]bool)
	add := func(c color.Color) {
		r, g, b, _ := c.RGBA()
		rgba := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
		if len(pal) < size && !seen[rgba] {
			seen[rgba] = true
			pal = append(pal, rgba)
		}
	}
	for _, c := range anchors {
		add(c)
	}

	rest := size - len(pal)
	if rest <= 0 || len(frames) == 0 {
		return pal
	}

	extracted := ExtractKMeansPalette(frames, rest)
	if len(extracted) == 0 {
		log.Println("[!] k-means вернул пустую палитру, используем dominantcolor")
		extracted = ExtractDominantPalette(frames[len(frames)/2], rest)
	}
	SortPaletteByBrightness(extracted)
	for _, c := range extracted {
		add(c.Clamped())
	}
	return pal
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ri, gi, bi := a.LinearRgb()
		rj, gj, bj := b.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

// ExtractKMeansPalette clusters pixels sampled evenly from all frames.
func ExtractKMeansPalette(frames []*image.RGBA, k int) []colorful.Color {
	if k <= 0 || len(frames) == 0 {
		return nil
	}

	perFrame := max(1, maxSamples/len(frames))
	dataset := make(clusters.Observations, 0, maxSamples)
	for _, img := range frames {
		b := img.Bounds()
		width, height := b.Dx(), b.Dy()
		if width == 0 || height == 0 {
			continue
		}
		step := 1
		if width*height > perFrame {
			step = int(math.Sqrt(float64(width*height)/float64(perFrame))) + 1
		}
		for y := b.Min.Y; y < b.Max.Y; y += step {
			for x := b.Min.X; x < b.Max.X; x += step {
				p := img.RGBAAt(x, y)
				if p.A == 0 {
					continue
				}
				dataset = append(dataset, clusters.Coordinates{
					float64(p.R) / 255.0,
					float64(p.G) / 255.0,
					float64(p.B) / 255.0,
				})
			}
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	workK := min(k, len(dataset))
	km := kmeans.New()
	cc, err := km.Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}

	// Sort by cluster population so dominant colors come first.
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}

	candidates := dominantcolor.FindWeight(img, max(24, k))
	if len(candidates) == 0 {
		candidates = append(candidates, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}

	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: w})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

// SelectDiverseWeightedColors greedily picks k colors, trading Lab distance
// to the already picked ones against cluster weight.
func SelectDiverseWeightedColors(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		col := c.Col.Clamped()
		l, a, b := col.Lab()
		w := max(c.Weight, 1e-6)
		maxW = max(maxW, w)
		items = append(items, item{col: col, lab: [3]float64{l, a, b}, w: w})
	}
	k = min(k, len(items))

	selected := make([]bool, len(items))
	// distance from each item to its nearest picked color
	nearest := make([]float64, len(items))
	for i := range nearest {
		nearest[i] = math.MaxFloat64
	}

	out := make([]colorful.Color, 0, k)
	pick := func(idx int) {
		selected[idx] = true
		out = append(out, items[idx].col)
		for i := range items {
			d0 := items[i].lab[0] - items[idx].lab[0]
			d1 := items[i].lab[1] - items[idx].lab[1]
			d2 := items[i].lab[2] - items[idx].lab[2]
			nearest[i] = min(nearest[i], d0*d0+d1*d1+d2*d2)
		}
	}

	// Seed with the strongest color to stay close to dominant tones.
	best := 0
	for i := range items {
		if items[i].w > items[best].w {
			best = i
		}
	}
	pick(best)

	for len(out) < k {
		bestIdx, bestScore := -1, -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			score := math.Sqrt(nearest[i]) * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				bestIdx, bestScore = i, score
			}
		}
		if bestIdx < 0 {
			break
		}
		pick(bestIdx)
	}
	return out
}

const lutBits = 6

// Quantizer maps RGB to palette indices through a table of 2^18 cells, one
// per 6-bit-per-channel color. The nearest entry is decided once per cell.
type Quantizer struct {
	Palette color.Palette
	lut     []uint8
}

func NewQuantizer(pal color.Palette) *Quantizer {
	type rgb struct{ r, g, b int }
	entries := make([]rgb, len(pal))
	for i, c := range pal {
		r, g, b, _ := c.RGBA()
		entries[i] = rgb{int(r >> 8), int(g >> 8), int(b >> 8)}
	}

	const cells = 1 << lutBits
	q := &Quantizer{Palette: pal, lut: make([]uint8, cells*cells*cells)}
	shift := 8 - lutBits
	half := 1 << (shift - 1)
	for ri := 0; ri < cells; ri++ {
		for gi := 0; gi < cells; gi++ {
			for bi := 0; bi < cells; bi++ {
				r, g, b := ri<<shift|half, gi<<shift|half, bi<<shift|half
				best, bestD := 0, math.MaxInt
				for i, e := range entries {
					dr, dg, db := r-e.r, g-e.g, b-e.b
					// weights roughly follow perceived luminance
					d := 2*dr*dr + 4*dg*dg + 3*db*db
					if d < bestD {
						best, bestD = i, d
					}
				}
				q.lut[(ri<<lutBits|gi)<<lutBits|bi] = uint8(best)
			}
		}
	}
	return q
}

func (q *Quantizer) Index(c color.RGBA) uint8 {
	shift := 8 - lutBits
	return q.lut[(int(c.R>>shift)<<lutBits|int(c.G>>shift))<<lutBits|int(c.B>>shift)]
}

// Map converts an opaque frame to a paletted image without dithering.
func (q *Quantizer) Map(img *image.RGBA) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, q.Palette)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, y):]
		dst := out.Pix[out.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = q.Index(color.RGBA{R: src[x*4], G: src[x*4+1], B: src[x*4+2]})
		}
	}
	return out
}
