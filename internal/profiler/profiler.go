// Package profiler provides CPU and heap profile capture for the
// bench command.
package profiler

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler handles profile collection.
type Profiler struct {
	cpuFile *os.File
	memFile string
}

// Config configures the profiler.
type Config struct {
	CPUProfile string // file for CPU profile ("" = disabled)
	MemProfile string // file for heap profile ("" = disabled)
}

// Start begins profile collection. CPU profiling runs until Stop.
func Start(cfg Config) (*Profiler, error) {
	p := &Profiler{memFile: cfg.MemProfile}

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			return nil, fmt.Errorf("creating CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("starting CPU profile: %w", err)
		}
		p.cpuFile = f
	}

	return p, nil
}

// Stop finishes CPU profiling and writes the heap profile, if enabled.
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			return fmt.Errorf("closing CPU profile: %w", err)
		}
	}

	if p.memFile != "" {
		f, err := os.Create(p.memFile)
		if err != nil {
			return fmt.Errorf("creating heap profile: %w", err)
		}
		defer f.Close()

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("writing heap profile: %w", err)
		}
	}

	return nil
}
