package system

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/mem"
)

// OpenFileLimit is the soft RLIMIT_NOFILE requested for large batches.
const OpenFileLimit = 2048

// InitResourceLimits raises the open file limit so a wide worker pool does
// not run out of descriptors while reading annotations and writing reports.
func InitResourceLimits(logger *slog.Logger) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warn("read open file limit", "err", err)
		return
	}
	if rLimit.Cur >= OpenFileLimit {
		return
	}

	rLimit.Cur = OpenFileLimit
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warn("raise open file limit", "err", err)
		return
	}
	logger.Debug("open file limit raised", "limit", rLimit.Cur)
}

func isAnnotation(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// FindAnnotations returns path itself when it is a file, or every YAML file
// directly inside it when it is a directory, sorted by name.
func FindAnnotations(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{path}, nil
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var found []string
	for _, f := range files {
		if f.IsDir() || !isAnnotation(f.Name()) {
			continue
		}
		found = append(found, filepath.Join(path, f.Name()))
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("no annotation files in %s", path)
	}
	slices.Sort(found)
	return found, nil
}

// Host is a memory snapshot of the machine running the batch.
type Host struct {
	TotalMemory     uint64
	AvailableMemory uint64
	UsedPercent     float64
}

func HostStats() (Host, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Host{}, fmt.Errorf("read memory stats: %w", err)
	}
	return Host{
		TotalMemory:     vm.Total,
		AvailableMemory: vm.Available,
		UsedPercent:     vm.UsedPercent,
	}, nil
}

// Fits reports whether n bytes stay within the memory currently available.
// An empty snapshot accepts everything.
func (h Host) Fits(n uint64) bool {
	if h.AvailableMemory == 0 {
		return true
	}
	return n <= h.AvailableMemory
}
