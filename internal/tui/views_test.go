package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wellsgz/sockmon/internal/app"
	"github.com/wellsgz/sockmon/internal/types"
)

func TestRenderDetails(t *testing.T) {
	sshd := types.ProcessUsage{PID: 42, Name: "sshd", Status: types.StatusSleeping, CPUPercent: 1.5, MemoryKiB: 12345}

	tests := []struct {
		name    string
		sockets []types.Socket
		sampler *fakeSampler
		moves   int
		want    []string
	}{
		{
			name:    "nothing selected",
			sockets: []types.Socket{tcp(1, 42)},
			sampler: &fakeSampler{procs: []types.ProcessUsage{sshd}},
			want:    []string{msgNoSelection},
		},
		{
			name:    "unattributed socket",
			sockets: []types.Socket{tcp(1)},
			sampler: &fakeSampler{},
			moves:   1,
			want:    []string{msgNoProcess},
		},
		{
			name:    "process gone",
			sockets: []types.Socket{tcp(1, 7)},
			sampler: &fakeSampler{procs: []types.ProcessUsage{sshd}},
			moves:   1,
			want:    []string{msgProcessNotFound},
		},
		{
			name:    "usage unavailable",
			sockets: []types.Socket{tcp(1, 42)},
			sampler: &fakeSampler{err: errors.New("no /proc")},
			moves:   1,
			want:    []string{msgUsageError},
		},
		{
			name:    "first pid shown",
			sockets: []types.Socket{tcp(1, 42, 7)},
			sampler: &fakeSampler{procs: []types.ProcessUsage{sshd}},
			moves:   1,
			want:    []string{"42", "sshd", "Sleeping", "1.50%", "12,345 KB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, &fakeProvider{sockets: tt.sockets}, tt.sampler)
			for i := 0; i < tt.moves; i++ {
				m, _ = press(t, m, keyDown)
			}
			got := m.renderDetails()
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestView_HighlightsSelectedRow(t *testing.T) {
	m := newModel(t, &fakeProvider{sockets: []types.Socket{tcp(1, 5), tcp(2)}}, &fakeSampler{})
	assert.NotContains(t, m.View(), SymbolHighlight)

	m, _ = press(t, m, keyDown)
	m, _ = press(t, m, keyDown)
	view := m.View()
	assert.Contains(t, view, SymbolHighlight+"TCP 127.0.0.1:2 -> 10.0.0.1:443 [] ESTABLISHED")
	assert.Contains(t, view, "TCP 127.0.0.1:1 -> 10.0.0.1:443 [5] ESTABLISHED")
}

func TestView_ErrorPane(t *testing.T) {
	m := newModel(t, &fakeProvider{err: errors.New("permission denied")}, &fakeSampler{})
	view := m.View()
	assert.Contains(t, view, "Error fetching socket information: enumerating sockets: permission denied")
	assert.Contains(t, view, "Fetch failed")
}

func TestRenderList_ScrollsToCursor(t *testing.T) {
	var sockets []types.Socket
	for p := uint16(1); p <= 20; p++ {
		sockets = append(sockets, tcp(p))
	}
	m := newModel(t, &fakeProvider{sockets: sockets}, &fakeSampler{})
	for i := 0; i < 15; i++ {
		m, _ = press(t, m, keyDown)
	}

	out := renderList(m.state.Listing().(app.Loaded), 5)
	assert.Contains(t, out, SymbolHighlight+"TCP 127.0.0.1:15 ")
	assert.Contains(t, out, "TCP 127.0.0.1:11 ")
	assert.NotContains(t, out, "TCP 127.0.0.1:10 ")
}
