package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/chartink/internal/analyzer"
	"github.com/ivlev/chartink/internal/compare"
)

// EncodeJSON writes v as indented JSON.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// EncodeYAML writes v as YAML.
func EncodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// DecodeAnalysisJSON reads an AnalysisResult record.
func DecodeAnalysisJSON(r io.Reader) (*analyzer.AnalysisResult, error) {
	var res analyzer.AnalysisResult
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DecodeAnalysisYAML reads an AnalysisResult record.
func DecodeAnalysisYAML(r io.Reader) (*analyzer.AnalysisResult, error) {
	var res analyzer.AnalysisResult
	if err := yaml.NewDecoder(r).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DecodeComparisonJSON reads a comparison record.
func DecodeComparisonJSON(r io.Reader) (*compare.Result, error) {
	var res compare.Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Write stores res (and cmp, when non-nil) in dir as base.<format> and
// base.comparison.<format>, one file per format. It returns the written paths.
func Write(dir, base string, formats []string, res *analyzer.AnalysisResult, cmp *compare.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var paths []string
	for _, format := range formats {
		path := filepath.Join(dir, base+"."+format)
		if err := writeFile(path, func(w io.Writer) error { return encode(w, format, res, true) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)

		if cmp == nil || format == "csv" {
			continue
		}
		path = filepath.Join(dir, base+".comparison."+format)
		if err := writeFile(path, func(w io.Writer) error { return encode(w, format, cmp, false) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func encode(w io.Writer, format string, v any, csvOK bool) error {
	switch format {
	case "json":
		return EncodeJSON(w, v)
	case "yaml":
		return EncodeYAML(w, v)
	case "csv":
		res, ok := v.(*analyzer.AnalysisResult)
		if !csvOK || !ok {
			return fmt.Errorf("csv supports analysis results only")
		}
		return WriteCSV(w, res)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := fn(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
