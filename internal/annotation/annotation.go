package annotation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/chartink/internal/analyzer"
	"github.com/ivlev/chartink/internal/config"
	"github.com/ivlev/chartink/internal/raster"
)

// Palette is cycled for regions that do not name a colour.
var Palette = []string{"#3b82f6", "#ef4444", "#10b981", "#f59e0b", "#8b5cf6", "#ec4899"}

// Annotation describes one chart image and the regions drawn over it.
type Annotation struct {
	Image     string   `yaml:"image"`
	Page      int      `yaml:"page,omitempty"`
	ChartType string   `yaml:"chart_type,omitempty"`
	Regions   []Region `yaml:"regions"`
	Seeds     []Seed   `yaml:"seeds,omitempty"`

	path string
}

// Region is a drawn rectangle as stored on disk.
type Region struct {
	ID       string        `yaml:"id,omitempty"`
	Label    string        `yaml:"label"`
	Rect     analyzer.Rect `yaml:"rect"`
	Color    string        `yaml:"color,omitempty"`
	Data     bool          `yaml:"data"`
	FullArea bool          `yaml:"full_area,omitempty"`
}

// Seed is a magic-wand click whose grown rectangle becomes a region.
type Seed struct {
	ID        string   `yaml:"id,omitempty"`
	Label     string   `yaml:"label"`
	X         int      `yaml:"x"`
	Y         int      `yaml:"y"`
	Tolerance *float64 `yaml:"tolerance,omitempty"`
	Color     string   `yaml:"color,omitempty"`
	Data      bool     `yaml:"data"`
	FullArea  bool     `yaml:"full_area,omitempty"`
}

// Read loads an annotation file. Relative image paths resolve against the
// file's directory.
func Read(path string) (*Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var a Annotation
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode annotation %s: %w", path, err)
	}
	a.path = path

	if err := a.normalize(); err != nil {
		return nil, fmt.Errorf("annotation %s: %w", path, err)
	}

	return &a, nil
}

// Write stores a as YAML.
func Write(a *Annotation, path string) error {
	data, err := yaml.Marshal(a)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Path is the file the annotation was read from.
func (a *Annotation) Path() string { return a.path }

// ImagePath resolves the image location.
func (a *Annotation) ImagePath() string {
	if a.Image == "" || filepath.IsAbs(a.Image) || a.path == "" {
		return a.Image
	}
	return filepath.Join(filepath.Dir(a.path), a.Image)
}

func (a *Annotation) normalize() error {
	if a.Image == "" {
		return fmt.Errorf("no image")
	}
	if a.Page < 0 {
		return fmt.Errorf("negative page %d", a.Page)
	}

	n := 0
	for i := range a.Regions {
		r := &a.Regions[i]
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.Color == "" {
			r.Color = Palette[n%len(Palette)]
		}
		if _, err := config.ParseColor(r.Color); err != nil {
			return fmt.Errorf("region %q: %w", r.Label, err)
		}
		n++
	}
	for i := range a.Seeds {
		s := &a.Seeds[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.Color == "" {
			s.Color = Palette[n%len(Palette)]
		}
		if _, err := config.ParseColor(s.Color); err != nil {
			return fmt.Errorf("seed %q: %w", s.Label, err)
		}
		n++
	}

	return nil
}

// Outcome reports what happened to one seed.
type Outcome struct {
	Seed  Seed
	Rect  analyzer.Rect
	Found bool
}

// Resolve turns the annotation into the ordered region list for Analyze.
// Drawn regions come first; each seed is grown on buf and, when it yields a
// region, stacked on top in seed order. Seeds that find nothing are skipped.
func (a *Annotation) Resolve(buf *raster.Buffer, g *analyzer.RegionGrower, tolerance float64) ([]analyzer.Region, []Outcome) {
	regions := make([]analyzer.Region, 0, len(a.Regions)+len(a.Seeds))
	for _, r := range a.Regions {
		regions = append(regions, analyzer.Region{
			ID:            r.ID,
			Rect:          r.Rect,
			Label:         r.Label,
			Color:         r.Color,
			IsData:        r.Data,
			CountFullArea: r.FullArea,
		})
	}

	outcomes := make([]Outcome, 0, len(a.Seeds))
	for _, s := range a.Seeds {
		tol := tolerance
		if s.Tolerance != nil {
			tol = *s.Tolerance
		}

		rect, ok := g.Grow(buf, s.X, s.Y, tol)
		outcomes = append(outcomes, Outcome{Seed: s, Rect: rect, Found: ok})
		if !ok {
			continue
		}

		regions = append(regions, analyzer.Region{
			ID:            s.ID,
			Rect:          rect,
			Label:         s.Label,
			Color:         s.Color,
			IsData:        s.Data,
			CountFullArea: s.FullArea,
		})
	}

	return regions, outcomes
}
