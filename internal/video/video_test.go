package video

import (
	"context"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
	}
	return img
}

func TestDelayCentis(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{100 * time.Millisecond, 10},
		{10 * time.Millisecond, 1},
		{time.Second, 100},
	}
	for _, tt := range tests {
		if got := DelayCentis(tt.in); got != tt.want {
			t.Errorf("DelayCentis(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBuildPaletteKeepsAnchors(t *testing.T) {
	frames := []*image.RGBA{
		solidFrame(32, 32, color.RGBA{R: 10, G: 20, B: 60}),
		solidFrame(32, 32, color.RGBA{R: 20, G: 120, B: 40}),
	}
	anchors := []color.Color{
		color.RGBA{A: 255},
		color.NRGBA{R: 255, G: 215, A: 255},
		color.NRGBA{R: 255, G: 215, A: 255}, // duplicate
	}

	pal := BuildPalette(frames, 16, anchors)
	if len(pal) > 16 || len(pal) < 3 {
		t.Fatalf("Unexpected palette size %d", len(pal))
	}
	if pal[0] != (color.RGBA{A: 255}) || pal[1] != (color.RGBA{R: 255, G: 215, A: 255}) {
		t.Errorf("Anchors must lead the palette, got %v", pal[:2])
	}
	seen := map[color.Color]bool{}
	for _, c := range pal {
		if seen[c] {
			t.Errorf("Duplicate palette entry %v", c)
		}
		seen[c] = true
		if _, _, _, a := c.RGBA(); a != 0xffff {
			t.Errorf("Palette entry %v is not opaque", c)
		}
	}
}

func TestQuantizerExactColors(t *testing.T) {
	pal := color.Palette{
		color.RGBA{A: 255},
		color.RGBA{R: 255, G: 255, B: 255, A: 255},
		color.RGBA{R: 255, A: 255},
	}
	q := NewQuantizer(pal)

	tests := []struct {
		in   color.RGBA
		want uint8
	}{
		{color.RGBA{R: 2, G: 3, B: 1}, 0},
		{color.RGBA{R: 250, G: 250, B: 251}, 1},
		{color.RGBA{R: 230, G: 20, B: 10}, 2},
	}
	for _, tt := range tests {
		if got := q.Index(tt.in); got != tt.want {
			t.Errorf("Index(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}

	frame := solidFrame(4, 4, color.RGBA{R: 240, G: 5, B: 5})
	p := q.Map(frame)
	for _, v := range p.Pix {
		if v != 2 {
			t.Fatalf("Expected every pixel to map to red, got index %d", v)
		}
	}
}

func TestSelectDiverseWeightedColors(t *testing.T) {
	if SelectDiverseWeightedColors(nil, 4) != nil {
		t.Error("Empty candidates should yield nil")
	}
	frames := []*image.RGBA{solidFrame(8, 8, color.RGBA{R: 200, G: 30, B: 30})}
	got := ExtractKMeansPalette(frames, 5)
	if len(got) == 0 {
		t.Fatal("Expected at least one cluster")
	}
	for _, c := range got {
		r, g, b := c.RGB255()
		if r != 200 || g != 30 || b != 30 {
			t.Errorf("Every cluster of a single-color frame should sit on it, got %d,%d,%d", r, g, b)
		}
	}
	dom := ExtractDominantPalette(frames[0], 3)
	if len(dom) == 0 {
		t.Error("Dominant palette should never be empty")
	}
}

func TestGIFEncoder(t *testing.T) {
	frames := []*image.RGBA{
		solidFrame(20, 10, color.RGBA{R: 255}),
		solidFrame(20, 10, color.RGBA{G: 255}),
		solidFrame(20, 10, color.RGBA{B: 255}),
	}
	path := filepath.Join(t.TempDir(), "out.gif")

	enc := &GIFEncoder{}
	err := enc.Encode(context.Background(), frames, path, Options{
		Delay:       100 * time.Millisecond,
		LoopCount:   0,
		PaletteSize: 16,
		Workers:     2,
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("Output is not a GIF: %v", err)
	}

	if len(g.Image) != 3 {
		t.Errorf("Expected 3 frames, got %d", len(g.Image))
	}
	for i, d := range g.Delay {
		if d != 10 {
			t.Errorf("Frame %d: expected delay 10, got %d", i, d)
		}
	}
	if g.LoopCount != 0 {
		t.Errorf("Expected infinite loop, got %d", g.LoopCount)
	}
	if r, gg, b, _ := g.Image[1].At(5, 5).RGBA(); r>>8 > 40 || gg>>8 < 200 || b>>8 > 40 {
		t.Errorf("Second frame should stay green, got %d,%d,%d", r>>8, gg>>8, b>>8)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Temp files left behind: %d entries", len(entries))
	}
}

func TestGIFEncoderFailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.gif")
	err := (&GIFEncoder{}).Encode(context.Background(),
		[]*image.RGBA{solidFrame(4, 4, color.RGBA{})}, path, Options{Delay: 100 * time.Millisecond})
	if err == nil {
		t.Fatal("Expected an error for a missing directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("No output file may be created on failure")
	}

	if err := (&GIFEncoder{}).Encode(context.Background(), nil, path, Options{}); err == nil {
		t.Error("Expected an error for zero frames")
	}
}
