package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/ivlev/chartink/internal/config"
	"github.com/ivlev/chartink/internal/engine"
	"github.com/ivlev/chartink/internal/raster"
	"github.com/ivlev/chartink/internal/reference"
	"github.com/ivlev/chartink/internal/source"
	"github.com/ivlev/chartink/internal/system"
)

var version = "dev"

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[-] "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	inputPtr := flag.String("input", "input", "Annotation file or directory of annotation files")
	configPtr := flag.String("config", "chartink.yaml", "Config file (defaults are used when it does not exist)")
	referencePtr := flag.String("reference", "", "Reference library YAML")
	outputPtr := flag.String("output", "", "Report directory")
	formatPtr := flag.String("format", "", "Report formats, comma separated: json, yaml, csv")
	workersPtr := flag.Int("workers", 0, "Files analysed in parallel")
	backgroundPtr := flag.String("background", "", "Background colour, hex")
	thresholdPtr := flag.Float64("threshold", 0, "Minimum RGB distance from the background for ink")
	dpiPtr := flag.Int("dpi", 0, "DPI for PDF pages")
	statsPtr := flag.Bool("stats", false, "Print batch statistics")
	levelPtr := flag.String("log-level", "", "Log level: debug, info, warn, error")
	wandPtr := flag.String("wand", "", "Probe: image to grow a single region on")
	seedPtr := flag.String("seed", "", "Probe seed as x,y")
	tolerancePtr := flag.Float64("tolerance", 0, "Probe colour tolerance")
	pagePtr := flag.Int("page", 0, "Probe page for PDF input")

	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		fatal("Config error: %v", err)
	}
	cfg.BuildVersion = version

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "reference":
			cfg.ReferenceLibrary = *referencePtr
		case "output":
			cfg.OutputDir = *outputPtr
		case "format":
			cfg.Formats = strings.Split(*formatPtr, ",")
		case "workers":
			cfg.Workers = *workersPtr
		case "background":
			cfg.Background = *backgroundPtr
		case "threshold":
			cfg.Threshold = *thresholdPtr
		case "dpi":
			cfg.DPI = *dpiPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		case "log-level":
			cfg.LogLevel = *levelPtr
		case "tolerance":
			cfg.Wand.Tolerance = *tolerancePtr
		}
	})

	if err := cfg.Validate(); err != nil {
		fatal("Config error: %v", err)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := NewLogger(level)

	if *wandPtr != "" {
		if err := probe(cfg, *wandPtr, *pagePtr, *seedPtr); err != nil {
			fatal("%v", err)
		}
		return
	}

	system.InitResourceLimits(logger)

	var lib *reference.Library
	if cfg.ReferenceLibrary != "" {
		lib, err = reference.ReadLibrary(cfg.ReferenceLibrary)
		if err != nil {
			fatal("Reference library: %v", err)
		}
		logger.Debug("reference library loaded", "path", cfg.ReferenceLibrary, "chart_types", lib.ChartTypes())
	}

	paths, err := system.FindAnnotations(*inputPtr)
	if err != nil {
		fatal("%v. Put annotation YAML files in %s", err, *inputPtr)
	}

	fmt.Println("--- [CHARTINK] ---")
	fmt.Printf("[*] Build: %s | Files: %d | Workers: %d\n", cfg.BuildVersion, len(paths), cfg.Workers)
	fmt.Printf("[*] Background: %s | Threshold: %.1f | Formats: %s\n", cfg.Background, cfg.Threshold, strings.Join(cfg.Formats, ","))
	fmt.Println("------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	batch := engine.NewBatch(cfg, lib, logger)
	summary, err := batch.Run(ctx, paths)
	if err != nil {
		fatal("Batch failed: %v", err)
	}

	for _, r := range summary.Results {
		line := fmt.Sprintf("[>] %s: efficiency %.4f, density %.4f", r.Path, r.Analysis.EfficiencyRatio, r.Analysis.DensityRatio)
		if r.Comparison != nil {
			line += fmt.Sprintf(", %s vs %s", r.Comparison.Interpretation.Grade, r.Comparison.Metadata.DisplayName())
		}
		fmt.Println(line)
	}

	if cfg.ShowStats {
		host, err := system.HostStats()
		if err != nil {
			fmt.Printf("[!] Memory stats unavailable: %v\n", err)
		}
		summary.Report(os.Stdout, host)
	}

	fmt.Printf("[+++] Done! Reports: %s\n", cfg.OutputDir)
}

// probe grows one region from a seed and prints its rectangle.
func probe(cfg *config.Config, path string, page int, seed string) error {
	x, y, err := parseSeed(seed)
	if err != nil {
		return err
	}

	src, err := source.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	img, err := src.RenderPage(page, cfg.DPI)
	if err != nil {
		return err
	}

	rect, ok := cfg.Grower().Grow(raster.FromImage(img), x, y, cfg.Wand.Tolerance)
	if !ok {
		fmt.Printf("[!] No region at %d,%d (tolerance %.1f)\n", x, y, cfg.Wand.Tolerance)
		return nil
	}
	fmt.Printf("[+++] Region: x=%g y=%g width=%g height=%g\n", rect.X, rect.Y, rect.Width, rect.Height)
	return nil
}

func parseSeed(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, errors.New("seed must be x,y")
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("seed x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("seed y: %w", err)
	}
	return x, y, nil
}
