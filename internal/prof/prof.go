// Package prof captures CPU and heap profiles of a run.
package prof

import (
	"os"
	"runtime"
	"runtime/pprof"

	"iconci/internal/fault"
)

// Session is an active profiling session. A nil *Session is valid and
// records nothing.
type Session struct {
	cpu     *os.File
	memPath string
	stopped bool
}

// Start enables CPU profiling into cpuPath and schedules a heap profile to
// memPath on Stop. Empty paths disable the corresponding profile; with both
// empty Start returns nil.
func Start(cpuPath, memPath string) (*Session, error) {
	if cpuPath == "" && memPath == "" {
		return nil, nil
	}
	s := &Session{memPath: memPath}
	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, fault.IOError(cpuPath, err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fault.IOError(cpuPath, err)
		}
		s.cpu = f
	}
	return s, nil
}

// Stop ends the CPU profile and writes the heap profile. Later calls are
// no-ops.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true
	if s.cpu != nil {
		pprof.StopCPUProfile()
		if err := s.cpu.Close(); err != nil {
			return fault.IOError(s.cpu.Name(), err)
		}
	}
	if s.memPath == "" {
		return nil
	}
	return writeHeap(s.memPath)
}

func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fault.IOError(path, err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return fault.IOError(path, err)
	}
	return fault.IOError(path, f.Close())
}
