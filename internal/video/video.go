package video

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options describe the animation container.
type Options struct {
	Delay       time.Duration
	LoopCount   int
	PaletteSize int
	Anchors     []color.Color
	Workers     int
}

type Encoder interface {
	Encode(ctx context.Context, frames []*image.RGBA, path string, opts Options) error
}

// GIFEncoder writes frames as one animated GIF with a palette shared by all frames.
type GIFEncoder struct{}

// DelayCentis converts a frame delay to GIF hundredths of a second.
func DelayCentis(d time.Duration) int {
	return int(d / (10 * time.Millisecond))
}

func (e *GIFEncoder) Encode(ctx context.Context, frames []*image.RGBA, path string, opts Options) error {
	if len(frames) == 0 {
		return fmt.Errorf("нет кадров для записи")
	}
	size := opts.PaletteSize
	if size <= 0 || size > 256 {
		size = 256
	}

	pal := BuildPalette(frames, size, opts.Anchors)
	q := NewQuantizer(pal)

	paletted := make([]*image.Paletted, len(frames))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, frame := range frames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			paletted[i] = q.Map(frame)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	delays := make([]int, len(frames))
	for i := range delays {
		delays[i] = DelayCentis(opts.Delay)
	}

	return writeAtomic(path, func(f *os.File) error {
		return gif.EncodeAll(f, &gif.GIF{
			Image:     paletted,
			Delay:     delays,
			LoopCount: opts.LoopCount,
		})
	})
}

// writeAtomic writes through a temp file in the target directory and renames
// it over path only when write succeeds.
func writeAtomic(path string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".xmastree-*.gif")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
