// Package app holds the dashboard's application state and its refresh cycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wellsgz/sockmon/internal/list"
	"github.com/wellsgz/sockmon/internal/snapshot"
	"github.com/wellsgz/sockmon/internal/types"
)

// Listing is the outcome of the most recent socket fetch: either Loaded or
// Failed, never both.
type Listing interface {
	listing()
}

// Loaded holds the browsable socket list after a successful fetch.
type Loaded struct {
	Sockets *list.List[types.Socket]
}

// Failed holds the error of the most recent fetch. No sockets are kept.
type Failed struct {
	Err error
}

func (Loaded) listing() {}
func (Failed) listing() {}

// Refresh is the result of one Fetch, handed to Apply.
type Refresh struct {
	Sockets []types.Socket
	Err     error
	Usage   *snapshot.Usage
	// UsageErr is set when process usage could not be sampled.
	UsageErr error
	At       time.Time
}

// State is the dashboard's application state.
type State struct {
	provider snapshot.Provider
	sampler  snapshot.Sampler
	log      *slog.Logger

	listing     Listing
	usage       *snapshot.Usage
	usageErr    error
	lastRefresh time.Time
}

// New performs the initial fetch and returns the resulting state.
// A nil logger uses slog.Default().
func New(ctx context.Context, provider snapshot.Provider, sampler snapshot.Sampler, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	s := &State{
		provider: provider,
		sampler:  sampler,
		log:      logger,
	}
	s.Apply(s.Fetch(ctx))
	return s
}

// Fetch reads sockets and process usage without touching the state, so it can
// run off the UI goroutine. Calls must not overlap: the sampler keeps the CPU
// baseline of the previous call.
func (s *State) Fetch(ctx context.Context) Refresh {
	r := Refresh{At: time.Now()}

	r.Sockets, r.Err = s.provider.Connections(ctx)
	if r.Err != nil {
		var fe *snapshot.FetchError
		if !errors.As(r.Err, &fe) {
			r.Err = &snapshot.FetchError{Err: r.Err}
		}
		r.Sockets = nil
	}

	usage, err := s.sampler.Sample(ctx)
	if err != nil {
		r.UsageErr = fmt.Errorf("sampling process usage: %w", err)
		usage = snapshot.NewUsage(nil)
	}
	r.Usage = usage

	return r
}

// Apply installs a fetch result. A failure replaces any loaded list; a success
// after a failure starts a fresh unselected list; a success after a success
// keeps the cursor position (clamped) on the new items. The usage snapshot is
// replaced either way.
func (s *State) Apply(r Refresh) {
	if r.UsageErr != nil && s.usageErr == nil {
		s.log.Warn("process usage unavailable", "error", r.UsageErr)
	}
	s.usage = r.Usage
	s.usageErr = r.UsageErr

	if r.Err != nil {
		if _, wasFailed := s.listing.(Failed); !wasFailed {
			s.log.Error("socket refresh failed", "error", r.Err)
		}
		s.listing = Failed{Err: r.Err}
		return
	}

	switch l := s.listing.(type) {
	case Loaded:
		l.Sockets.ReplaceItems(r.Sockets)
	case Failed:
		s.log.Info("socket refresh recovered", "sockets", len(r.Sockets))
		s.listing = Loaded{Sockets: list.WithItems(r.Sockets)}
	default:
		s.listing = Loaded{Sockets: list.WithItems(r.Sockets)}
	}
	s.lastRefresh = r.At
	s.log.Debug("sockets refreshed", "sockets", len(r.Sockets), "processes", r.Usage.Len())
}

// Update fetches and applies in one blocking step.
func (s *State) Update(ctx context.Context) {
	s.Apply(s.Fetch(ctx))
}

// SelectNext moves the cursor down. It does nothing while the last fetch failed.
func (s *State) SelectNext() {
	if l, ok := s.listing.(Loaded); ok {
		l.Sockets.Next()
	}
}

// SelectPrevious moves the cursor up. It does nothing while the last fetch failed.
func (s *State) SelectPrevious() {
	if l, ok := s.listing.(Loaded); ok {
		l.Sockets.Previous()
	}
}

// Listing returns the current fetch outcome.
func (s *State) Listing() Listing {
	return s.listing
}

// SelectedSocket returns the socket under the cursor, if any.
func (s *State) SelectedSocket() (types.Socket, bool) {
	l, ok := s.listing.(Loaded)
	if !ok {
		return nil, false
	}
	return l.Sockets.SelectedItem()
}

// Usage looks pid up in the latest usage snapshot.
func (s *State) Usage(pid int32) (types.ProcessUsage, bool) {
	return s.usage.Lookup(pid)
}

// UsageErr returns the error of the last usage sample, or nil.
func (s *State) UsageErr() error {
	return s.usageErr
}

// LastRefresh returns the time of the last successful fetch.
func (s *State) LastRefresh() time.Time {
	return s.lastRefresh
}
