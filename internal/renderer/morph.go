package renderer

import (
	"image"
	"math"
)

// DistanceField returns, for every pixel of mask, the approximate Euclidean
// distance to the nearest pixel with non-zero alpha (0 on ink). It is the
// two-pass chamfer transform with weights 1 and sqrt(2); thresholding it at r
// gives the dilation of the mask by a disk of radius r.
func DistanceField(mask *image.Alpha) []float32 {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	inf := float32(math.Inf(1))
	const diag = float32(math.Sqrt2)

	d := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.AlphaAt(b.Min.X+x, b.Min.Y+y).A > 0 {
				d[y*w+x] = 0
			} else {
				d[y*w+x] = inf
			}
		}
	}

	relax := func(i, j int, cost float32) {
		if v := d[j] + cost; v < d[i] {
			d[i] = v
		}
	}

	// Step 1: top-left to bottom-right
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if x > 0 {
				relax(i, i-1, 1)
			}
			if y > 0 {
				relax(i, i-w, 1)
				if x > 0 {
					relax(i, i-w-1, diag)
				}
				if x < w-1 {
					relax(i, i-w+1, diag)
				}
			}
		}
	}

	// Step 2: bottom-right to top-left
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			i := y*w + x
			if x < w-1 {
				relax(i, i+1, 1)
			}
			if y < h-1 {
				relax(i, i+w, 1)
				if x < w-1 {
					relax(i, i+w+1, diag)
				}
				if x > 0 {
					relax(i, i+w-1, diag)
				}
			}
		}
	}

	return d
}

// AlphaBounds returns the smallest rectangle holding every pixel with non-zero alpha.
// The result is empty when the image is fully transparent.
func AlphaBounds(img image.Image) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
