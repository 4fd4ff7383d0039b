package source

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions is the fixed set of picture suffixes, matched exactly and in this order.
var Extensions = []string{".jpg", ".jpeg", ".JPG", ".JPEG", ".png", ".PNG"}

// FindImages lists the pictures directly inside dir. An empty result is not an error.
func FindImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, ext := range Extensions {
		var group []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.HasSuffix(entry.Name(), ext) {
				group = append(group, filepath.Join(dir, entry.Name()))
			}
		}
		sort.Strings(group)
		paths = append(paths, group...)
	}
	return paths, nil
}

type ImageSource struct {
	paths []string
}

func NewImageSource(dir string) (*ImageSource, error) {
	paths, err := FindImages(dir)
	if err != nil {
		return nil, err
	}
	return &ImageSource{paths: paths}, nil
}

func (s *ImageSource) Count() int {
	return len(s.paths)
}

func (s *ImageSource) Name(index int) string {
	return filepath.Base(s.paths[index])
}

func (s *ImageSource) Load(index int) (image.Image, error) {
	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}
