// Package snapshot enumerates host sockets and samples process resource usage.
package snapshot

import (
	"context"
	"sort"

	"github.com/wellsgz/sockmon/internal/types"
)

// Provider returns the sockets currently open on the host.
type Provider interface {
	Connections(ctx context.Context) ([]types.Socket, error)
}

// Sampler takes a fresh process usage snapshot on each call.
type Sampler interface {
	Sample(ctx context.Context) (*Usage, error)
}

// FetchError is returned when sockets cannot be enumerated, whatever the
// underlying reason (permissions, platform API failure).
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "enumerating sockets: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Usage is an immutable set of process usage readings keyed by PID.
type Usage struct {
	procs map[int32]types.ProcessUsage
}

// NewUsage builds a usage snapshot from a list of readings.
func NewUsage(procs []types.ProcessUsage) *Usage {
	u := &Usage{procs: make(map[int32]types.ProcessUsage, len(procs))}
	for _, p := range procs {
		u.procs[p.PID] = p
	}
	return u
}

// Lookup returns the reading for pid. It is safe to call on a nil *Usage.
func (u *Usage) Lookup(pid int32) (types.ProcessUsage, bool) {
	if u == nil {
		return types.ProcessUsage{}, false
	}
	p, ok := u.procs[pid]
	return p, ok
}

// Len returns the number of processes in the snapshot.
func (u *Usage) Len() int {
	if u == nil {
		return 0
	}
	return len(u.procs)
}

// Owners returns the readings of every process that owns one of sockets,
// ordered by PID. Owners without a reading are skipped.
func (u *Usage) Owners(sockets []types.Socket) []types.ProcessUsage {
	seen := make(map[int32]bool)
	var out []types.ProcessUsage
	for _, s := range sockets {
		for _, pid := range s.OwnerPIDs() {
			if seen[pid] {
				continue
			}
			seen[pid] = true
			if p, ok := u.Lookup(pid); ok {
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}
