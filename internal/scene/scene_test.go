package scene

import (
	"image"
	"math/rand"
	"path/filepath"
	"reflect"
	"testing"
)

func mustBuild(t *testing.T, width, height int, seed int64) (*image.RGBA, *Metadata) {
	t.Helper()
	img, meta, err := Build(width, height, seed)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return img, meta
}

func TestBuildLayout(t *testing.T) {
	img, meta, err := Build(1200, 1600, 123)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if img.Bounds().Dx() != 1200 || img.Bounds().Dy() != 1600 {
		t.Fatalf("Unexpected canvas size %v", img.Bounds())
	}
	if err := meta.Validate(); err != nil {
		t.Fatalf("Layout is invalid: %v", err)
	}

	for i, o := range meta.Ornaments {
		if o.Size < MinOrnamentSize || o.Size > MaxOrnamentSize {
			t.Errorf("Ornament %d: size %d out of range", i, o.Size)
		}
	}
	if len(meta.Lights) == 0 || len(meta.Lights) > MaxLights() {
		t.Errorf("Unexpected light count %d", len(meta.Lights))
	}
	if len(meta.Stars) != backgroundStar {
		t.Errorf("Expected %d stars, got %d", backgroundStar, len(meta.Stars))
	}
	for _, s := range meta.Stars {
		if s.Y > 800 || s.Brightness < 150 || s.Brightness > 255 {
			t.Errorf("Star out of range: %+v", s)
			break
		}
	}

	if meta.TreeTop != 120 || meta.TreeBottom != 1320 || meta.TreeCenter != 600 {
		t.Errorf("Unexpected tree geometry %+v", meta)
	}
}

func TestBuildIsOpaque(t *testing.T) {
	img, _, err := Build(300, 700, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("Pixel %d is not opaque", i/4)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, metaA := mustBuild(t, 1200, 1600, 7)
	b, metaB := mustBuild(t, 1200, 1600, 7)

	if !reflect.DeepEqual(metaA, metaB) {
		t.Error("Same seed must give the same layout")
	}
	if !reflect.DeepEqual(a.Pix, b.Pix) {
		t.Error("Same seed must give the same background")
	}

	_, metaC := mustBuild(t, 1200, 1600, 8)
	if reflect.DeepEqual(metaA.Ornaments, metaC.Ornaments) {
		t.Error("Different seeds should move the ornaments")
	}
}

func TestLightsCoverAllRows(t *testing.T) {
	_, meta := mustBuild(t, 1200, 1600, 123)
	if len(meta.Lights) != MaxLights() {
		t.Errorf("Expected all %d candidates to fit their row, got %d", MaxLights(), len(meta.Lights))
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	_, meta := mustBuild(t, 1200, 1600, 123)
	path := filepath.Join(t.TempDir(), "layout.yaml")

	if err := WriteLayout(meta, path); err != nil {
		t.Fatalf("WriteLayout failed: %v", err)
	}
	got, err := ReadLayout(path)
	if err != nil {
		t.Fatalf("ReadLayout failed: %v", err)
	}
	if !reflect.DeepEqual(meta, got) {
		t.Error("Layout changed after round trip")
	}
}

func TestReadLayoutRejectsBrokenRows(t *testing.T) {
	_, meta := mustBuild(t, 1200, 1600, 123)
	meta.Ornaments = meta.Ornaments[:20]
	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := WriteLayout(meta, path); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLayout(path); err == nil {
		t.Error("Expected an error for a layout with 20 ornaments")
	}
}

func TestRandIntInclusive(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := RandInt(r, -2, 2)
		if v < -2 || v > 2 {
			t.Fatalf("Value %d out of [-2, 2]", v)
		}
		seen[v] = true
	}
	if len(seen) != 5 {
		t.Errorf("Expected both bounds to be reachable, saw %v", seen)
	}
}

func TestBuildTinyCanvas(t *testing.T) {
	// the tree no longer fits, but nothing may fail
	if _, _, err := Build(10, 10, 0); err != nil {
		t.Errorf("Tiny canvas should still build: %v", err)
	}
}

func TestBuildPaintsTree(t *testing.T) {
	img, _ := mustBuild(t, 1200, 1600, 123)

	near := func(got, want uint8) bool { return int(got) >= int(want)-2 && int(got) <= int(want)+2 }
	tests := []struct {
		name string
		x, y int
		want [3]uint8
	}{
		{"trunk", 600, 1380, [3]uint8{99, 66, 32}},
		{"pot", 600, 1450, [3]uint8{139, 69, 19}},
		{"rim", 600, 1415, [3]uint8{160, 82, 45}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := img.RGBAAt(tt.x, tt.y)
			if !near(c.R, tt.want[0]) || !near(c.G, tt.want[1]) || !near(c.B, tt.want[2]) {
				t.Errorf("Expected about %v at (%d,%d), got %+v", tt.want, tt.x, tt.y, c)
			}
		})
	}

	// branches and shaded layers are all green
	if c := img.RGBAAt(600, 700); c.G <= c.R || c.G <= c.B {
		t.Errorf("Tree body should be green, got %+v", c)
	}
	if c := img.RGBAAt(5, 1500); c.B <= c.R || c.G == c.B {
		t.Errorf("Sky should stay a blue gradient, got %+v", c)
	}
}
