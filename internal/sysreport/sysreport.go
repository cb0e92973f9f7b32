// Package sysreport samples process and system resource usage between
// harness phases, the way the teacher's DynamicCapacityManager
// (src/capacity.go) samples CPU and memory — except this benchmark never
// feeds the samples back into an admission decision, it only reports
// them, since a single-process in-memory benchmark has no connections to
// reject.
package sysreport

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot is a point-in-time resource reading.
type Snapshot struct {
	Time           time.Time
	SystemCPUPct   float64
	ProcessRSSMB   float64
	GoHeapAllocMB  float64
	NumGoroutines  int
}

// Sampler reads process and system metrics. Construction resolves the
// current process via its PID once; Sample can be called repeatedly.
type Sampler struct {
	proc *process.Process
}

// NewSampler resolves the current process for later sampling.
func NewSampler() (*Sampler, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Sampler{proc: p}, nil
}

// Sample takes one reading. System CPU percent is measured over the given
// window (blocking); callers typically call this between phases, not on
// a hot path.
func (s *Sampler) Sample(window time.Duration) Snapshot {
	snap := Snapshot{Time: time.Now(), NumGoroutines: runtime.NumGoroutine()}

	if pct, err := cpu.Percent(window, false); err == nil && len(pct) > 0 {
		snap.SystemCPUPct = pct[0]
	}

	if meminfo, err := s.proc.MemoryInfo(); err == nil && meminfo != nil {
		snap.ProcessRSSMB = float64(meminfo.RSS) / (1024 * 1024)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	snap.GoHeapAllocMB = float64(mem.Alloc) / (1024 * 1024)

	return snap
}
