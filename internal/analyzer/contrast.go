package analyzer

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ContrastDetector finds the busy part of a picture with a Sobel edge map.
// Edges are dilated into blobs; blobs smaller than MinBlockArea are noise,
// the rest are united and squared off.
type ContrastDetector struct {
	MinBlockArea  int     // in pixels of the analysis image
	EdgeThreshold float64 // gradient magnitude threshold
	AnalysisSize  int     // longest side the picture is shrunk to before analysis
}

func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  60,
		EdgeThreshold: 30.0,
		AnalysisSize:  256,
	}
}

func (d *ContrastDetector) Focus(img image.Image) image.Rectangle {
	bounds := img.Bounds()
	if bounds.Empty() {
		return bounds
	}

	// Step 1: shrink and convert to grayscale
	small := imaging.Fit(img, d.AnalysisSize, d.AnalysisSize, imaging.Box)
	gray := toGrayscale(small)
	scale := float64(bounds.Dx()) / float64(small.Bounds().Dx())

	// Step 2: Sobel edges, dilated to connect letters and stars
	edges := sobelEdgeDetection(gray, d.EdgeThreshold)
	dilated := dilate(edges, 5, 2)

	// Step 3: union of the blobs that are large enough
	var union image.Rectangle
	for _, r := range findContours(dilated) {
		if r.Dx()*r.Dy() >= d.MinBlockArea {
			union = union.Union(r)
		}
	}
	if union.Empty() {
		return SquareAround(bounds, bounds)
	}

	// back to source coordinates
	focus := image.Rect(
		bounds.Min.X+int(math.Floor(float64(union.Min.X)*scale)),
		bounds.Min.Y+int(math.Floor(float64(union.Min.Y)*scale)),
		bounds.Min.X+int(math.Ceil(float64(union.Max.X)*scale)),
		bounds.Min.Y+int(math.Ceil(float64(union.Max.Y)*scale)),
	).Intersect(bounds)
	return SquareAround(focus, bounds)
}

func toGrayscale(img *image.NRGBA) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.NRGBAAt(x, y)))
		}
	}
	return gray
}

// sobelEdgeDetection marks pixels whose gradient magnitude exceeds threshold.
func sobelEdgeDetection(gray *image.Gray, threshold float64) *image.Gray {
	bounds := gray.Bounds()
	edges := image.NewGray(bounds)

	gx := [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	gy := [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			var sumX, sumY float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					pixel := float64(gray.GrayAt(x+kx, y+ky).Y)
					sumX += pixel * float64(gx[ky+1][kx+1])
					sumY += pixel * float64(gy[ky+1][kx+1])
				}
			}
			if math.Sqrt(sumX*sumX+sumY*sumY) > threshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return edges
}

// dilate grows white regions by a square kernel, iterations times.
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	bounds := img.Bounds()
	result := image.NewGray(bounds)
	copy(result.Pix, img.Pix)

	half := kernelSize / 2
	for iter := 0; iter < iterations; iter++ {
		temp := image.NewGray(bounds)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				maxVal := uint8(0)
				for ky := max(y-half, bounds.Min.Y); ky <= min(y+half, bounds.Max.Y-1); ky++ {
					for kx := max(x-half, bounds.Min.X); kx <= min(x+half, bounds.Max.X-1); kx++ {
						maxVal = max(maxVal, result.GrayAt(kx, ky).Y)
					}
				}
				temp.SetGray(x, y, color.Gray{Y: maxVal})
			}
		}
		result = temp
	}
	return result
}

// findContours returns the bounding rectangles of connected white regions.
func findContours(img *image.Gray) []image.Rectangle {
	bounds := img.Bounds()
	visited := make([]bool, bounds.Dx()*bounds.Dy())
	idx := func(x, y int) int { return (y-bounds.Min.Y)*bounds.Dx() + x - bounds.Min.X }

	var contours []image.Rectangle
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.GrayAt(x, y).Y <= 128 || visited[idx(x, y)] {
				continue
			}

			// flood fill the component and track its bounds
			r := image.Rect(x, y, x+1, y+1)
			stack := []image.Point{{X: x, Y: y}}
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if !p.In(bounds) || visited[idx(p.X, p.Y)] || img.GrayAt(p.X, p.Y).Y <= 128 {
					continue
				}
				visited[idx(p.X, p.Y)] = true
				r = r.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
				stack = append(stack,
					image.Point{X: p.X + 1, Y: p.Y},
					image.Point{X: p.X - 1, Y: p.Y},
					image.Point{X: p.X, Y: p.Y + 1},
					image.Point{X: p.X, Y: p.Y - 1},
				)
			}
			contours = append(contours, r)
		}
	}
	return contours
}
