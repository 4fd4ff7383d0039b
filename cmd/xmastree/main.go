package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ivlev/xmastree/internal/config"
	"github.com/ivlev/xmastree/internal/engine"
	"github.com/ivlev/xmastree/internal/source"
	"github.com/ivlev/xmastree/internal/video"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.Default()

	configPtr := flag.String("config", "", "YAML-файл с настройками (флаги имеют приоритет)")
	outputPtr := flag.String("output", "", "Путь к GIF (по умолчанию: christmas_tree.gif в папке с картинками)")
	workersPtr := flag.Int("workers", 0, "Потоки (0 - по числу ядер)")
	framesPtr := flag.Int("frames", cfg.Frames, "Количество кадров")
	pdfPtr := flag.String("pdf", "", "PDF, страницы которого станут шарами")
	qrPtr := flag.String("qr", "", "Текст или ссылка для QR-открытки в углу")
	focusPtr := flag.String("focus", "", "Кадрирование картинок: none, contrast (по краям содержимого)")
	layoutOutPtr := flag.String("layout-out", "", "Сохранить раскладку шаров и огоньков в YAML")
	layoutInPtr := flag.String("layout-in", "", "Загрузить раскладку шаров и огоньков из YAML")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности и дописать benchmark.log")

	flag.Parse()

	// Сначала YAML, затем явно заданные флаги поверх него
	if *configPtr != "" {
		if err := config.Load(cfg, *configPtr); err != nil {
			log.Fatalf("[-] Ошибка конфигурации: %v", err)
		}
	}

	// explicit flags override the YAML file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			cfg.Output = *outputPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "frames":
			cfg.Frames = *framesPtr
		case "pdf":
			cfg.PDFPath = *pdfPtr
		case "qr":
			cfg.GiftTagText = *qrPtr
		case "focus":
			cfg.Focus = *focusPtr
		case "layout-out":
			cfg.LayoutOutput = *layoutOutPtr
		case "layout-in":
			cfg.LayoutInput = *layoutInPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		}
	})

	// Папка с картинками - единственный позиционный аргумент
	if flag.NArg() > 0 {
		cfg.InputDir = flag.Arg(0)
	}
	inputDir, err := filepath.Abs(cfg.InputDir)
	if err != nil {
		log.Fatalf("[-] Ошибка пути: %v", err)
	}
	cfg.InputDir = inputDir
	cfg.BuildVersion = version

	fmt.Printf("[*] Ищем картинки в: %s\n", cfg.InputDir)

	images, err := source.NewImageSource(cfg.InputDir)
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации источника: %v", err)
	}

	// Страницы PDF становятся дополнительными картинками для шаров
	var pdf source.Source
	if cfg.PDFPath != "" {
		doc, err := source.NewFitzPDFSource(cfg.PDFPath, cfg.PDFDPI)
		if err != nil {
			log.Fatalf("[-] Ошибка открытия PDF: %v", err)
		}
		fmt.Printf("[*] PDF: %s | Страниц: %d\n", cfg.PDFPath, doc.Count())
		pdf = doc
	}

	src := source.NewMultiSource(images, pdf)
	defer src.Close()

	// Ctrl+C отменяет рендер, недописанный GIF не остается на диске
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Инициализируем зависимости
	project := engine.NewProject(cfg, src, &video.GIFEncoder{})
	if err := project.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", project.OutputPath())
	fmt.Printf("   Размер: %dx%d | Кадров: %d | %s на кадр\n", cfg.Width, cfg.Height, cfg.Frames, cfg.FrameDelay)
}
