package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteLayout dumps the computed layout to a YAML file
func WriteLayout(meta *Metadata, path string) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadLayout loads a layout previously written by WriteLayout and validates it.
func ReadLayout(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}

	return &meta, nil
}
