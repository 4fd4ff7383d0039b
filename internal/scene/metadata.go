package scene

import "fmt"

// OrnamentRows is the number of ornaments per row, top to bottom.
var OrnamentRows = []int{1, 2, 3, 4, 5, 6}

const (
	OrnamentCount   = 21
	MinOrnamentSize = 149
	MaxOrnamentSize = 189
	LightRows       = 6
)

// Metadata is the layout computed once by Build and shared read-only by every frame.
type Metadata struct {
	TreeTop       int        `yaml:"tree_top"`
	TreeBottom    int        `yaml:"tree_bottom"`
	TreeHeight    int        `yaml:"tree_height"`
	TreeCenter    int        `yaml:"tree_center"`
	TreeBaseWidth int        `yaml:"tree_base_width"`
	Ornaments     []Ornament `yaml:"ornaments"`
	Lights        []Position `yaml:"lights"`
	Stars         []Star     `yaml:"stars"`
}

type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Ornament is the center and diameter of one ornament slot.
type Ornament struct {
	Row  int `yaml:"row"`
	X    int `yaml:"x"`
	Y    int `yaml:"y"`
	Size int `yaml:"size"`
}

// Star is a background star with its base brightness.
type Star struct {
	X          int `yaml:"x"`
	Y          int `yaml:"y"`
	Brightness int `yaml:"brightness"`
}

// MaxLights is the number of light candidates before span filtering.
func MaxLights() int {
	n := 0
	for row := 0; row < LightRows; row++ {
		n += 8 + 2*row
	}
	return n
}

// Validate checks the ornament invariants: 21 slots laid out 1..6 per row.
func (m *Metadata) Validate() error {
	if len(m.Ornaments) != OrnamentCount {
		return fmt.Errorf("expected %d ornaments, got %d", OrnamentCount, len(m.Ornaments))
	}
	counts := make([]int, len(OrnamentRows))
	for i, o := range m.Ornaments {
		if o.Row < 0 || o.Row >= len(OrnamentRows) {
			return fmt.Errorf("ornament %d: row %d out of range", i, o.Row)
		}
		if o.Size <= 0 {
			return fmt.Errorf("ornament %d: non-positive size %d", i, o.Size)
		}
		counts[o.Row]++
	}
	for row, want := range OrnamentRows {
		if counts[row] != want {
			return fmt.Errorf("row %d: expected %d ornaments, got %d", row, want, counts[row])
		}
	}
	if len(m.Lights) > MaxLights() {
		return fmt.Errorf("too many lights: %d > %d", len(m.Lights), MaxLights())
	}
	return nil
}
