package effects

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ivlev/xmastree/internal/system"
)

func TestDefaultOrnament(t *testing.T) {
	o := DefaultOrnament{Index: 6}
	if o.Color() != OrnamentPalette[0] {
		t.Errorf("Index 6 should wrap to the first color, got %+v", o.Color())
	}

	img := DefaultOrnament{Index: 0}.Render(150, 0)
	defer system.PutImage(img)

	if img.Bounds() != image.Rect(0, 0, 150, 150) {
		t.Fatalf("Unexpected sprite bounds %v", img.Bounds())
	}
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("Corner should be transparent, got alpha %d", a)
	}

	// 60px from the center: ratio 0.8, intensity 0.8 at phase 0
	p := img.RGBAAt(135, 75)
	if p.A != 255 || p.R < 170 || p.R > 180 || p.G > 20 {
		t.Errorf("Unexpected shaded red %+v", p)
	}

	// highlight replaces the ball with translucent white
	if h := img.RGBAAt(62, 40); h.A != 80 {
		t.Errorf("Highlight alpha should be 80 at phase 0, got %d", h.A)
	}

	// the gold ring must not wipe the ball inside it
	if p := img.RGBAAt(75, 100); p.A != 255 || p.R <= p.G {
		t.Errorf("Ball body should stay red under the ring, got %+v", p)
	}
	opaque := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 255 {
			opaque++
		}
	}
	if share := float64(opaque) / (150 * 150); share < 0.6 {
		t.Errorf("Ball should cover most of the sprite, opaque share %.3f", share)
	}
}

func TestPictureOrnament(t *testing.T) {
	pic := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for i := 0; i < len(pic.Pix); i += 4 {
		pic.Pix[i], pic.Pix[i+3] = 255, 255
	}
	o := NewPictureOrnament(pic)

	img := o.Render(160, 0)
	defer system.PutImage(img)

	if c := img.RGBAAt(80, 90); c.R != 255 || c.G != 0 || c.A != 255 {
		t.Errorf("Center should show the picture, got %+v", c)
	}
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("Corner should be transparent, got alpha %d", a)
	}
	// the hook outline must keep the gold fill inside it
	if c := img.RGBAAt(80, 8); c.R != HookGold.R || c.G != HookGold.G || c.A != 255 {
		t.Errorf("Hook should sit on top, got %+v", c)
	}

	again := o.Render(160, math.Pi)
	system.PutImage(again)
	if len(o.cache) != 1 {
		t.Errorf("Resized picture should be cached once per size, got %d entries", len(o.cache))
	}
}

func TestStar(t *testing.T) {
	img := Star{}.Render(100, 0)
	defer system.PutImage(img)

	if c := img.RGBAAt(50, 50); c.A != 200 {
		t.Errorf("Center highlight alpha should be 200, got %+v", c)
	}
	if c := img.RGBAAt(50, 20); c != (color.RGBA{R: 255, G: 223, B: 0, A: 255}) {
		t.Errorf("Upper arm should be solid gold, got %+v", c)
	}
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("Corner should be transparent, got alpha %d", a)
	}
	// the outline must not erase the body it surrounds
	for _, p := range []image.Point{{50, 30}, {50, 62}} {
		if c := img.RGBAAt(p.X, p.Y); c != (color.RGBA{R: 255, G: 223, B: 0, A: 255}) {
			t.Errorf("Star body at %v should be solid gold, got %+v", p, c)
		}
	}

	pts, inner := Star{}.Points(100, math.Pi/2)
	if len(pts) != 10 {
		t.Fatalf("Expected 10 vertices, got %d", len(pts))
	}
	// pulse 1.1: outer int(45*1.1)=49, inner int(49/2.5)=19
	if inner != 19 || math.Abs(pts[0].Y-1) > 1e-9 {
		t.Errorf("Unexpected pulse geometry: inner %d, tip %+v", inner, pts[0])
	}
}

func TestSnowflake(t *testing.T) {
	img := Snowflake{}.Render(21, 0)
	defer system.PutImage(img)

	if a := img.RGBAAt(10, 10).A; a == 0 {
		t.Error("Snowflake center should be painted")
	}
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("Corner should be transparent, got alpha %d", a)
	}
	// a side branch of the right arm survives the arms drawn after it
	if a := img.RGBAAt(15, 11).A; a < 100 {
		t.Errorf("Branch pixel should be painted, got alpha %d", a)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 200 {
			t.Fatalf("Snowflake alpha must not exceed 200, got %d", img.Pix[i])
		}
	}
}

func TestLight(t *testing.T) {
	if LightPhase(0, 0) != 0 {
		t.Errorf("First bulb starts at phase 0")
	}
	if p := LightPhase(30, 3); p < 0 || p >= 2*math.Pi {
		t.Errorf("Phase must wrap into [0, 2pi), got %f", p)
	}

	l := Light{Index: 0}
	img := l.Render(LightSpriteSize, math.Pi/2)
	defer system.PutImage(img)

	c := LightSpriteSize / 2
	if got := img.RGBAAt(c, c); got != (color.RGBA{R: 255, G: 150, B: 150, A: 255}) {
		t.Errorf("Full brightness center should be (255,150,150), got %+v", got)
	}
	if a := img.RGBAAt(c+6, c).A; a != 40 {
		t.Errorf("Glow at half radius should have alpha 40, got %d", a)
	}
	if a := img.RGBAAt(c+12, c).A; a != 0 {
		t.Errorf("Outermost ring should be transparent, got alpha %d", a)
	}

	dark := l.Render(LightSpriteSize, -math.Pi/2)
	defer system.PutImage(dark)
	for i := 3; i < len(dark.Pix); i += 4 {
		if dark.Pix[i] != 0 {
			t.Fatal("A bulb at zero brightness should be invisible")
		}
	}
}

func TestGiftTag(t *testing.T) {
	tag, err := NewGiftTag("https://example.org/xmas")
	if err != nil {
		t.Fatalf("NewGiftTag failed: %v", err)
	}
	img := tag.Render(120, 0)
	defer system.PutImage(img)

	if a := img.RGBAAt(0, 0).A; a != 170 {
		t.Errorf("Border alpha should be 170 at phase 0, got %d", a)
	}
	ink := 0
	for y := 2 * tagBorder; y < 120-2*tagBorder; y++ {
		for x := 2 * tagBorder; x < 120-2*tagBorder; x++ {
			if img.RGBAAt(x, y) == (color.RGBA{R: 120, G: 20, B: 20, A: 255}) {
				ink++
			}
		}
	}
	if ink == 0 {
		t.Error("QR modules should be drawn in ink color")
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{18, 2, 9}, {-18, 2, -9}, {-19, 2, -10}, {19, 2, 9},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}

	if ringIndex(0) != 1 || ringIndex(1) != 1 || ringIndex(1.6) != 2 {
		t.Error("Unexpected ring index")
	}

	found := false
	for _, c := range Anchors() {
		if c == color.Color(Gold) {
			found = true
		}
	}
	if !found {
		t.Error("Anchors must include gold")
	}
}
