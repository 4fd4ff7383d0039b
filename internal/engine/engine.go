package engine

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/xmastree/internal/analyzer"
	"github.com/ivlev/xmastree/internal/config"
	"github.com/ivlev/xmastree/internal/effects"
	"github.com/ivlev/xmastree/internal/renderer"
	"github.com/ivlev/xmastree/internal/scene"
	"github.com/ivlev/xmastree/internal/source"
	"github.com/ivlev/xmastree/internal/system"
	"github.com/ivlev/xmastree/internal/video"
)

const giftTagSize = 140

type Project struct {
	Config  *config.Config
	Source  source.Source
	Encoder video.Encoder
}

func NewProject(cfg *config.Config, src source.Source, enc video.Encoder) *Project {
	return &Project{
		Config:  cfg,
		Source:  src,
		Encoder: enc,
	}
}

// OutputPath is the configured output, or christmas_tree.gif inside the input directory.
func (p *Project) OutputPath() string {
	if p.Config.Output != "" {
		return p.Config.Output
	}
	return filepath.Join(p.Config.InputDir, config.DefaultOutputName)
}

// Run builds the scene, renders every frame in parallel and writes the GIF.
func (p *Project) Run(ctx context.Context) error {
	startTime := time.Now()
	cfg := p.Config

	// Проверяем конфиг до любой тяжелой работы
	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Println("--- [PROJECT: XMAS TREE] ---")
	pictures := 0
	if p.Source != nil {
		pictures = p.Source.Count()
	}
	if pictures == 0 {
		fmt.Println("[!] Картинки не найдены, шары будут цветными")
	} else {
		fmt.Printf("[*] Найдено картинок: %d\n", pictures)
	}
	fmt.Printf("[*] Холст: %dx%d | Кадров: %d | Задержка: %s\n", cfg.Width, cfg.Height, cfg.Frames, cfg.FrameDelay)

	// Статичная сцена и раскладка считаются один раз на весь ролик
	base, meta, err := p.buildScene()
	if err != nil {
		return err
	}
	fmt.Printf("[*] Шаров: %d | Огоньков: %d\n", len(meta.Ornaments), len(meta.Lights))

	composer := NewComposer(base, meta, cfg.Frames, cfg.SnowSeed)
	// Картинки декодируются лениво, при первом обращении к слоту
	detector, err := analyzer.NewDetector(cfg.Focus)
	if err != nil {
		return err
	}
	composer.Ornaments = p.decorations(len(meta.Ornaments), detector)

	// Надпись не зависит от фазы, рендерим ее один раз
	face, fontPath, err := system.LoadFontFace(cfg.FontPaths, cfg.FontSize)
	if err != nil {
		return fmt.Errorf("шрифт: %w", err)
	}
	fmt.Printf("[*] Шрифт: %s\n", fontPath)
	composer.Caption = renderer.GlowText(face, cfg.Caption, cfg.CaptionWidth)

	if cfg.GiftTagText != "" {
		tag, err := effects.NewGiftTag(cfg.GiftTagText)
		if err != nil {
			return err
		}
		composer.Tag = tag
		composer.TagSize = giftTagSize
	}

	// 1. Render pool (CPU bound)
	// Число воркеров ограничено и ядрами, и свободной памятью под кадры
	workers := system.RecommendWorkers(cfg.Workers, uint64(cfg.Width*cfg.Height*4))
	if workers > cfg.Frames {
		workers = cfg.Frames
	}
	fmt.Printf("[*] Воркеров: %d\n", workers)

	renderStart := time.Now()
	frames, err := p.renderFrames(ctx, composer, workers)
	if err != nil {
		return err
	}
	renderTime := time.Since(renderStart)

	// 2. Palette + GIF
	// Общая палитра на все кадры, иначе GIF мерцает
	fmt.Println("[*] Сборка GIF...")
	encodeStart := time.Now()
	output := p.OutputPath()
	err = p.Encoder.Encode(ctx, frames, output, video.Options{
		Delay:       cfg.FrameDelay,
		LoopCount:   cfg.LoopCount,
		PaletteSize: cfg.PaletteSize,
		Anchors:     effects.Anchors(),
		Workers:     workers,
	})
	if err != nil {
		return fmt.Errorf("ошибка записи %s: %w", output, err)
	}
	encodeTime := time.Since(encodeStart)

	if cfg.ShowStats {
		p.report(time.Since(startTime), renderTime, encodeTime)
	}
	return nil
}

func (p *Project) buildScene() (*image.RGBA, *scene.Metadata, error) {
	cfg := p.Config
	base, meta, err := scene.Build(cfg.Width, cfg.Height, cfg.SceneSeed)
	if err != nil {
		return nil, nil, err
	}

	// Загруженная раскладка заменяет сгенерированную по сиду
	if cfg.LayoutInput != "" {
		loaded, err := scene.ReadLayout(cfg.LayoutInput)
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка чтения раскладки: %w", err)
		}
		meta.Ornaments = loaded.Ornaments
		meta.Lights = loaded.Lights
		fmt.Printf("[*] Используется раскладка: %s\n", cfg.LayoutInput)
	}

	if cfg.LayoutOutput != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LayoutOutput), 0755); err != nil {
			return nil, nil, err
		}
		if err := scene.WriteLayout(meta, cfg.LayoutOutput); err != nil {
			return nil, nil, fmt.Errorf("ошибка записи раскладки: %w", err)
		}
		fmt.Printf("[*] Раскладка сохранена: %s\n", cfg.LayoutOutput)
	}
	return base, meta, nil
}

// Decorations assigns a decoration to each of n ornament slots: default
// colored balls when there are no pictures, otherwise picture idx mod N.
// Pictures are decoded lazily and at most once each.
func (p *Project) Decorations(n int) []effects.Decoration {
	return p.decorations(n, nil)
}

func (p *Project) decorations(n int, focus analyzer.Detector) []effects.Decoration {
	out := make([]effects.Decoration, n)
	if p.Source == nil || p.Source.Count() == 0 {
		for i := range out {
			out[i] = effects.DefaultOrnament{Index: i}
		}
		return out
	}

	lib := newPictureLibrary(p.Source)
	lib.focus = focus
	for i := range out {
		out[i] = &pictureSlot{lib: lib, index: i % p.Source.Count()}
	}
	return out
}

func (p *Project) renderFrames(ctx context.Context, composer *Composer, workers int) ([]*image.RGBA, error) {
	total := p.Config.Frames
	frames := make([]*image.RGBA, total)
	var ready atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < total; i++ {
		g.Go(func() error {
			// Отмена (Ctrl+C или ошибка соседа) останавливает оставшиеся кадры
			if err := gctx.Err(); err != nil {
				return err
			}
			// Каждый воркер пишет только в свой индекс, порядок кадров сохраняется
			frames[i] = composer.Compose(i)
			fmt.Printf("[>] Кадр готов: %d/%d\n", ready.Add(1), total)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}

func (p *Project) report(total, render, encode time.Duration) {
	cfg := p.Config
	fps := float64(cfg.Frames) / total.Seconds()
	created, reused := system.PoolStats()
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering (CPU): %.2fs\n"+
			"Encoding (GIF): %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"Buffers: %d allocated, %d reused\n"+
			"----------------------------\n",
		cfg.BuildVersion, system.HostSummary(), total.Seconds(), render.Seconds(), encode.Seconds(), fps,
		created, reused,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		cfg.BuildVersion,
		filepath.Base(cfg.InputDir),
		cfg.Frames,
		total.Seconds(),
		render.Seconds(),
		encode.Seconds(),
		fps,
	)

	// Логирование в файл
	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}

// pictureLibrary decodes each source picture on first use, once. With a
// focus detector the picture is cropped to its busy square right after decoding.
type pictureLibrary struct {
	src   source.Source
	focus analyzer.Detector
	once  []sync.Once
	pics  []image.Image
}

func newPictureLibrary(src source.Source) *pictureLibrary {
	n := src.Count()
	return &pictureLibrary{src: src, once: make([]sync.Once, n), pics: make([]image.Image, n)}
}

func (l *pictureLibrary) get(i int) image.Image {
	l.once[i].Do(func() {
		img, err := l.src.Load(i)
		if err != nil {
			log.Printf("[!] Картинка %s пропущена: %v", l.src.Name(i), err)
			return
		}
		// Кадрирование делаем сразу, чтобы кэш ресайза видел уже квадрат
		l.pics[i] = analyzer.FocusCrop(l.focus, img)
	})
	return l.pics[i]
}

// pictureSlot is one ornament slot showing a library picture. A picture that
// failed to load leaves the slot empty in every frame.
type pictureSlot struct {
	lib   *pictureLibrary
	index int

	once     sync.Once
	ornament *effects.PictureOrnament
}

func (s *pictureSlot) Render(size int, phase float64) *image.RGBA {
	s.once.Do(func() {
		if pic := s.lib.get(s.index); pic != nil {
			s.ornament = effects.NewPictureOrnament(pic)
		}
	})
	if s.ornament == nil {
		return nil
	}
	return s.ornament.Render(size, phase)
}
