package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/wellsgz/sockmon/internal/types"
)

// procReading is one raw observation of a process.
type procReading struct {
	PID        int32
	Name       string
	Status     types.ProcessStatus
	CPUSeconds float64 // user + system time consumed so far
	RSS        uint64  // bytes
}

type lister func(ctx context.Context) ([]procReading, error)

// ProcessSampler produces usage snapshots. CPU percentages are computed from
// the CPU time consumed between two consecutive samples, so the first sample
// reports 0% for every process.
//
// A ProcessSampler is not safe for concurrent use.
type ProcessSampler struct {
	list lister
	now  func() time.Time

	prevCPU map[int32]float64
	prevAt  time.Time
}

// NewProcessSampler returns a sampler reading the host process table.
func NewProcessSampler() *ProcessSampler {
	return newSampler(listProcesses, time.Now)
}

func newSampler(list lister, now func() time.Time) *ProcessSampler {
	return &ProcessSampler{
		list:    list,
		now:     now,
		prevCPU: make(map[int32]float64),
	}
}

// Sample reads every process and returns a new snapshot.
func (s *ProcessSampler) Sample(ctx context.Context) (*Usage, error) {
	readings, err := s.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	at := s.now()
	var elapsed float64
	if !s.prevAt.IsZero() {
		elapsed = at.Sub(s.prevAt).Seconds()
	}

	cpu := make(map[int32]float64, len(readings))
	procs := make([]types.ProcessUsage, 0, len(readings))
	for _, r := range readings {
		var pct float64
		if prev, ok := s.prevCPU[r.PID]; ok && elapsed > 0 && r.CPUSeconds >= prev {
			pct = (r.CPUSeconds - prev) / elapsed * 100
		}
		cpu[r.PID] = r.CPUSeconds

		procs = append(procs, types.ProcessUsage{
			PID:        r.PID,
			Name:       r.Name,
			Status:     r.Status,
			CPUPercent: pct,
			MemoryKiB:  r.RSS / 1024,
		})
	}

	// Forget processes that have exited.
	s.prevCPU = cpu
	s.prevAt = at

	return NewUsage(procs), nil
}

func listProcesses(ctx context.Context) ([]procReading, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	readings := make([]procReading, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// Exited between listing and reading.
			continue
		}
		r := procReading{PID: p.Pid, Name: name}

		if status, err := p.StatusWithContext(ctx); err == nil && len(status) > 0 {
			r.Status = parseStatus(status[0])
		}
		if times, err := p.TimesWithContext(ctx); err == nil {
			r.CPUSeconds = times.User + times.System
		}
		if mem, err := p.MemoryInfoWithContext(ctx); err == nil {
			r.RSS = mem.RSS
		}
		readings = append(readings, r)
	}
	return readings, nil
}

func parseStatus(s string) types.ProcessStatus {
	switch s {
	case process.Running:
		return types.StatusRunning
	case process.Sleep:
		return types.StatusSleeping
	case process.Idle:
		return types.StatusIdle
	case process.Stop:
		return types.StatusStopped
	case process.Zombie:
		return types.StatusZombie
	case process.Wait:
		return types.StatusWaiting
	case process.Lock:
		return types.StatusLocked
	case process.Blocked:
		return types.StatusBlocked
	default:
		return types.StatusUnknown
	}
}
