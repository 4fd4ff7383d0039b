package source

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// Source supplies ornament pictures by index.
type Source interface {
	Count() int
	Name(index int) string
	Load(index int) (image.Image, error)
	Close() error
}

// FitzPDFSource exposes the pages of a PDF document as pictures.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 72
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) Count() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) Name(index int) string {
	return fmt.Sprintf("%s#%d", filepath.Base(f.path), index+1)
}

func (f *FitzPDFSource) Load(index int) (image.Image, error) {
	// a dedicated document per call keeps concurrent loads off the shared handle
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(f.dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

// MultiSource concatenates several sources into one index space.
type MultiSource struct {
	parts []Source
}

func NewMultiSource(parts ...Source) *MultiSource {
	m := &MultiSource{}
	for _, p := range parts {
		if p != nil {
			m.parts = append(m.parts, p)
		}
	}
	return m
}

func (m *MultiSource) Count() int {
	n := 0
	for _, p := range m.parts {
		n += p.Count()
	}
	return n
}

func (m *MultiSource) locate(index int) (Source, int, error) {
	if index < 0 {
		return nil, 0, fmt.Errorf("picture index %d out of range", index)
	}
	for _, p := range m.parts {
		if index < p.Count() {
			return p, index, nil
		}
		index -= p.Count()
	}
	return nil, 0, fmt.Errorf("picture index out of range")
}

func (m *MultiSource) Name(index int) string {
	p, i, err := m.locate(index)
	if err != nil {
		return fmt.Sprintf("#%d", index)
	}
	return p.Name(i)
}

func (m *MultiSource) Load(index int) (image.Image, error) {
	p, i, err := m.locate(index)
	if err != nil {
		return nil, err
	}
	return p.Load(i)
}

func (m *MultiSource) Close() error {
	var first error
	for _, p := range m.parts {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
