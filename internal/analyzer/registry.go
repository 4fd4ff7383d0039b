package analyzer

import "fmt"

// NewDetector creates a detector based on the specified variant. "none"
// (or empty) disables cropping and returns a nil detector.
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "none", "":
		return nil, nil
	case "contrast":
		return NewContrastDetector(), nil
	default:
		return nil, fmt.Errorf("unknown focus detector: %s", variant)
	}
}
