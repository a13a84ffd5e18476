package engine

import (
	"fmt"
	"io"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ivlev/chartink/internal/compare"
	"github.com/ivlev/chartink/internal/system"
)

// Summary aggregates a batch.
type Summary struct {
	Files      int
	Compared   int
	Efficiency Spread
	Density    Spread
	Grades     map[compare.Grade]int
	Results    []FileResult
	Elapsed    time.Duration
}

// Spread is the mean and sample standard deviation of a ratio.
type Spread struct {
	Mean   float64
	StdDev float64
}

func spread(xs []float64) Spread {
	switch len(xs) {
	case 0:
		return Spread{}
	case 1:
		return Spread{Mean: xs[0]}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	return Spread{Mean: mean, StdDev: std}
}

// Summarize computes batch statistics over results in order.
func Summarize(results []FileResult) Summary {
	s := Summary{
		Files:   len(results),
		Grades:  make(map[compare.Grade]int),
		Results: results,
	}

	eff := make([]float64, 0, len(results))
	dens := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Analysis == nil {
			continue
		}
		eff = append(eff, r.Analysis.EfficiencyRatio)
		dens = append(dens, r.Analysis.DensityRatio)
		if r.Comparison != nil {
			s.Compared++
			s.Grades[r.Comparison.Interpretation.Grade]++
		}
	}

	s.Efficiency = spread(eff)
	s.Density = spread(dens)
	return s
}

// Report prints the batch statistics block.
func (s *Summary) Report(w io.Writer, host system.Host) {
	fmt.Fprintf(w,
		"--- [BATCH REPORT] ---\n"+
			"Files: %d | Compared: %d\n"+
			"Efficiency: mean %.4f, std-dev %.4f\n"+
			"Density: mean %.4f, std-dev %.4f\n",
		s.Files, s.Compared,
		s.Efficiency.Mean, s.Efficiency.StdDev,
		s.Density.Mean, s.Density.StdDev,
	)
	for _, g := range []compare.Grade{compare.GradeExcellent, compare.GradeGood, compare.GradeFair, compare.GradePoor} {
		if n := s.Grades[g]; n > 0 {
			fmt.Fprintf(w, "Grade %s: %d\n", g, n)
		}
	}
	fmt.Fprintf(w, "Total Time: %.2fs\n", s.Elapsed.Seconds())
	if host.TotalMemory > 0 {
		fmt.Fprintf(w, "Memory: %d MiB available of %d MiB (%.1f%% used)\n",
			host.AvailableMemory>>20, host.TotalMemory>>20, host.UsedPercent)
	}
	fmt.Fprint(w, "----------------------\n")
}
