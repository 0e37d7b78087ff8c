// Package logbuf keeps the most recent log lines in memory for display.
package logbuf

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is the number of lines kept when none is configured.
const DefaultCapacity = 200

// Ring is a bounded line buffer. It implements io.Writer so it can sit behind
// a slog handler; each written chunk is split into lines and the oldest lines
// are dropped once the buffer is full. Safe for concurrent use.
type Ring struct {
	mu    sync.Mutex
	lines []string
	head  int
	count int
	total uint64
}

// New returns a ring holding at most capacity lines.
func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{lines: make([]string, capacity)}
}

// Write appends p, one entry per non-empty line. It never fails.
func (r *Ring) Write(p []byte) (int, error) {
	text := string(bytes.TrimRight(p, "\n"))
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		r.Append(line)
	}
	return len(p), nil
}

// Append adds a single line.
func (r *Ring) Append(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := len(r.lines)
	if r.count < size {
		r.lines[(r.head+r.count)%size] = line
		r.count++
	} else {
		r.lines[r.head] = line
		r.head = (r.head + 1) % size
	}
	r.total++
}

// Tail returns up to n of the newest lines, oldest first.
func (r *Ring) Tail(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	start := r.count - n
	for i := 0; i < n; i++ {
		out[i] = r.lines[(r.head+start+i)%len(r.lines)]
	}
	return out
}

// Total returns how many lines were ever appended.
func (r *Ring) Total() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// ShortTime is a slog ReplaceAttr func that trims record timestamps to
// wall-clock seconds, which is all the log pane has room for.
func ShortTime(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && len(groups) == 0 {
		if t, ok := a.Value.Any().(time.Time); ok {
			return slog.String(slog.TimeKey, t.Format("15:04:05"))
		}
	}
	return a
}
