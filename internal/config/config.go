package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputName = "christmas_tree.gif"
	DefaultCaption    = "Merry Christmas and clear skies for stargazing!"
)

// DefaultFontPaths are tried in order before falling back to the built-in font.
var DefaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSerif.ttf",
	"/usr/share/fonts/truetype/freefont/FreeSerif.ttf",
}

type Config struct {
	InputDir     string        `yaml:"input_dir"`
	Output       string        `yaml:"output"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	Frames       int           `yaml:"frames"`
	FrameDelay   time.Duration `yaml:"frame_delay"`
	LoopCount    int           `yaml:"loop_count"`
	Workers      int           `yaml:"workers"`
	SceneSeed    int64         `yaml:"scene_seed"`
	SnowSeed     int64         `yaml:"snow_seed"`
	Caption      string        `yaml:"caption"`
	CaptionWidth int           `yaml:"caption_width"`
	FontSize     float64       `yaml:"font_size"`
	FontPaths    []string      `yaml:"font_paths"`
	PDFPath      string        `yaml:"pdf"`
	PDFDPI       int           `yaml:"pdf_dpi"`
	GiftTagText  string        `yaml:"gift_tag"`
	Focus        string        `yaml:"focus"`
	PaletteSize  int           `yaml:"palette_size"`
	LayoutInput  string        `yaml:"layout_in"`
	LayoutOutput string        `yaml:"layout_out"`
	ShowStats    bool          `yaml:"stats"`
	BuildVersion string        `yaml:"-"`
}

// Default returns the fixed animation setup: 1200x1600, 20 frames of 100ms, infinite loop.
func Default() *Config {
	return &Config{
		InputDir:     ".",
		Width:        1200,
		Height:       1600,
		Frames:       20,
		FrameDelay:   100 * time.Millisecond,
		LoopCount:    0,
		SceneSeed:    123,
		SnowSeed:     42,
		Caption:      DefaultCaption,
		CaptionWidth: 1100,
		FontSize:     40,
		FontPaths:    append([]string(nil), DefaultFontPaths...),
		PDFDPI:       72,
		PaletteSize:  256,
	}
}

// Load overlays the YAML file at path onto cfg. Keys missing from the file keep their values.
func Load(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", c.Width, c.Height)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("frame count must be positive, got %d", c.Frames)
	}
	if c.FrameDelay < 10*time.Millisecond {
		return fmt.Errorf("frame delay %s is below the GIF resolution of 10ms", c.FrameDelay)
	}
	if c.LoopCount < -1 {
		return fmt.Errorf("loop count must be >= -1, got %d", c.LoopCount)
	}
	if c.PaletteSize < 16 || c.PaletteSize > 256 {
		return fmt.Errorf("palette size must be within [16,256], got %d", c.PaletteSize)
	}
	switch c.Focus {
	case "", "none", "contrast":
	default:
		return fmt.Errorf("unknown focus detector %q", c.Focus)
	}
	if c.CaptionWidth <= 0 {
		return fmt.Errorf("caption width must be positive, got %d", c.CaptionWidth)
	}
	return nil
}
