package system

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/golang/freetype/truetype"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// LoadFontFace opens the first font file from paths that exists and parses.
// When none do, the built-in Go Regular face is returned. The second value is
// the path that was used, or "builtin".
func LoadFontFace(paths []string, size float64) (font.Face, string, error) {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			log.Printf("[!] Шрифт %s не распознан: %v", p, err)
			continue
		}
		return newFace(f, size), p, nil
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, "", fmt.Errorf("builtin font: %w", err)
	}
	return newFace(f, size), "builtin", nil
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// RecommendWorkers caps the requested worker count by logical CPUs and by the
// memory available for frames of frameBytes each. Every frame stays resident
// until encoding, so the cap only counts per-worker scratch layers.
func RecommendWorkers(requested int, frameBytes uint64) int {
	workers := requested
	if workers <= 0 {
		n, err := cpu.Counts(true)
		if err != nil || n <= 0 {
			n = runtime.NumCPU()
		}
		workers = n
	}

	if vm, err := mem.VirtualMemory(); err == nil && frameBytes > 0 {
		// base copy + up to three full-size layers per worker
		perWorker := frameBytes * 4
		limit := int(vm.Available / perWorker)
		if limit < 1 {
			limit = 1
		}
		if workers > limit {
			log.Printf("[!] Мало свободной памяти: воркеров %d -> %d", workers, limit)
			workers = limit
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}

// HostSummary describes the machine for the performance report.
func HostSummary() string {
	model := runtime.GOARCH
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		model = infos[0].ModelName
	}
	total := uint64(0)
	if vm, err := mem.VirtualMemory(); err == nil {
		total = vm.Total
	}
	return fmt.Sprintf("%s | %d CPU | %.1f GiB RAM", model, runtime.NumCPU(), float64(total)/(1<<30))
}
