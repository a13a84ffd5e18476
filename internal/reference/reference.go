package reference

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/chartink/internal/analyzer"
)

// ErrUnknownChartType is returned by Lookup for chart types the library lacks.
var ErrUnknownChartType = errors.New("unknown chart type")

// Metadata describes a reference chart.
type Metadata struct {
	ChartType   string   `json:"chartType" yaml:"chart_type"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Source      string   `json:"source,omitempty" yaml:"source,omitempty"`
	Principles  []string `json:"principles,omitempty" yaml:"principles,omitempty"`
}

// Validate reports whether m can label a comparison.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.New("reference metadata is nil")
	}
	if m.ChartType == "" {
		return errors.New("reference metadata has no chart type")
	}
	return nil
}

// DisplayName is Name, falling back to the chart type.
func (m *Metadata) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ChartType
}

// Entry is a pre-computed reference result with its description.
type Entry struct {
	Metadata Metadata                 `yaml:"metadata"`
	Result   *analyzer.AnalysisResult `yaml:"result"`
}

// Library holds reference entries keyed by chart type.
type Library struct {
	Version string           `yaml:"version"`
	Entries map[string]Entry `yaml:"references"`
}

// Lookup returns the entry for chartType.
func (l *Library) Lookup(chartType string) (Entry, error) {
	if l == nil {
		return Entry{}, fmt.Errorf("%q: %w", chartType, ErrUnknownChartType)
	}
	e, ok := l.Entries[chartType]
	if !ok {
		return Entry{}, fmt.Errorf("%q: %w", chartType, ErrUnknownChartType)
	}
	return e, nil
}

// ChartTypes lists the library keys in sorted order.
func (l *Library) ChartTypes() []string {
	types := make([]string, 0, len(l.Entries))
	for k := range l.Entries {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}

// ReadLibrary reads a reference library from a YAML file
func ReadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLibrary(data)
}

// ParseLibrary decodes a YAML library. Entries whose metadata omits the chart
// type inherit their map key.
func ParseLibrary(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("decode reference library: %w", err)
	}

	for key, e := range lib.Entries {
		if e.Metadata.ChartType == "" {
			e.Metadata.ChartType = key
		}
		if e.Result == nil {
			return nil, fmt.Errorf("reference %q has no result", key)
		}
		lib.Entries[key] = e
	}

	return &lib, nil
}
