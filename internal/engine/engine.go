package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/chartink/internal/analyzer"
	"github.com/ivlev/chartink/internal/annotation"
	"github.com/ivlev/chartink/internal/compare"
	"github.com/ivlev/chartink/internal/config"
	"github.com/ivlev/chartink/internal/raster"
	"github.com/ivlev/chartink/internal/reference"
	"github.com/ivlev/chartink/internal/report"
	"github.com/ivlev/chartink/internal/source"
	"github.com/ivlev/chartink/internal/system"
)

// ErrRasterTooLarge is returned when a rendered page would not fit in the
// memory available on the host.
var ErrRasterTooLarge = errors.New("raster exceeds available memory")

// ErrDuplicateReport is returned when two annotation files in one batch
// would write reports under the same name.
var ErrDuplicateReport = errors.New("annotation files share a report name")

// Batch analyses annotated charts and writes their reports.
type Batch struct {
	Config  *config.Config
	Library *reference.Library
	Logger  *slog.Logger

	// Host is consulted before converting each rendered page. Nil means
	// system.HostStats.
	Host func() (system.Host, error)
}

func NewBatch(cfg *config.Config, lib *reference.Library, logger *slog.Logger) *Batch {
	return &Batch{
		Config:  cfg,
		Library: lib,
		Logger:  logger,
	}
}

// FileResult is the outcome of one annotation file.
type FileResult struct {
	Path       string
	ChartType  string
	Analysis   *analyzer.AnalysisResult
	Comparison *compare.Result
	Seeds      []annotation.Outcome
	Outputs    []string
}

// Run processes every path with at most Config.Workers files in flight.
// The first failure cancels the remaining work and is returned. Paths that
// would share a report name are rejected before any work starts.
func (b *Batch) Run(ctx context.Context, paths []string) (*Summary, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no annotation files")
	}
	if err := checkReportNames(paths); err != nil {
		return nil, err
	}
	start := time.Now()

	cls, err := b.Config.Classifier()
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, b.Config.Workers))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := b.process(path, cls)
			if err != nil {
				b.Logger.Error("analysis failed", "file", path, "err", err)
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = *res

			attrs := []any{
				"file", path,
				"ink", res.Analysis.TotalInkPixels,
				"efficiency", res.Analysis.EfficiencyRatio,
			}
			if res.Comparison != nil {
				attrs = append(attrs, "grade", res.Comparison.Interpretation.Grade)
			}
			b.Logger.Info("chart analysed", attrs...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := Summarize(results)
	sum.Elapsed = time.Since(start)
	return &sum, nil
}

// Process runs the pipeline for a single annotation file.
func (b *Batch) Process(path string) (*FileResult, error) {
	cls, err := b.Config.Classifier()
	if err != nil {
		return nil, err
	}
	return b.process(path, cls)
}

func (b *Batch) process(path string, cls analyzer.InkClassifier) (*FileResult, error) {
	ann, err := annotation.Read(path)
	if err != nil {
		return nil, err
	}

	buf, err := b.load(ann)
	if err != nil {
		return nil, err
	}

	regions, outcomes := ann.Resolve(buf, b.Config.Grower(), b.Config.Wand.Tolerance)
	for _, o := range outcomes {
		if !o.Found {
			b.Logger.Warn("seed grew no region", "file", path, "seed", o.Seed.Label, "x", o.Seed.X, "y", o.Seed.Y)
		}
	}

	res := &FileResult{
		Path:      path,
		ChartType: ann.ChartType,
		Analysis:  analyzer.Analyze(buf, regions, cls),
		Seeds:     outcomes,
	}

	if res.Comparison, err = b.compare(ann.ChartType, res.Analysis); err != nil {
		return nil, err
	}

	res.Outputs, err = report.Write(b.Config.OutputDir, reportBase(path), b.Config.Formats, res.Analysis, res.Comparison)
	if err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return res, nil
}

// reportBase names the reports of an annotation file: its base name
// without extension.
func reportBase(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func checkReportNames(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		base := reportBase(p)
		if prev, ok := seen[base]; ok {
			return fmt.Errorf("%s and %s both write %q: %w", prev, p, base, ErrDuplicateReport)
		}
		seen[base] = p
	}
	return nil
}

func (b *Batch) load(ann *annotation.Annotation) (*raster.Buffer, error) {
	src, err := source.Open(ann.ImagePath())
	if err != nil {
		return nil, err
	}
	defer src.Close()

	img, err := src.RenderPage(ann.Page, b.Config.DPI)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", ann.Page, err)
	}

	bounds := img.Bounds()
	need := raster.Bytes(bounds.Dx(), bounds.Dy())
	host, err := b.hostStats()
	if err != nil {
		b.Logger.Debug("memory check skipped", "err", err)
	} else if !host.Fits(need) {
		return nil, fmt.Errorf("%dx%d needs %d bytes: %w", bounds.Dx(), bounds.Dy(), need, ErrRasterTooLarge)
	}

	return raster.FromImage(img), nil
}

func (b *Batch) hostStats() (system.Host, error) {
	if b.Host != nil {
		return b.Host()
	}
	return system.HostStats()
}

// compare returns nil without error when there is nothing to compare against.
func (b *Batch) compare(chartType string, res *analyzer.AnalysisResult) (*compare.Result, error) {
	if chartType == "" || b.Library == nil {
		return nil, nil
	}

	entry, err := b.Library.Lookup(chartType)
	if err != nil {
		b.Logger.Warn("no reference", "chart_type", chartType, "err", err)
		return nil, nil
	}

	cmp, err := compare.Compare(res, entry.Result, &entry.Metadata)
	if err != nil {
		return nil, fmt.Errorf("compare with %s: %w", entry.Metadata.DisplayName(), err)
	}
	return cmp, nil
}
