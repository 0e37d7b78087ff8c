package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellsgz/sockmon/internal/types"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "snap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWriteSnapshot(t *testing.T) {
	db := openTemp(t)
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	sockets := []types.Socket{
		&types.TCPSocket{
			Local:  types.Endpoint{IP: "127.0.0.1", Port: 5432},
			Remote: types.Endpoint{IP: "127.0.0.1", Port: 51234},
			State:  types.TCPEstablished,
			PIDs:   []int32{812},
		},
		&types.UDPSocket{Local: types.Endpoint{IP: "0.0.0.0", Port: 53}, PIDs: []int32{611, 612}},
		&types.UDPSocket{Local: types.Endpoint{IP: "::", Port: 5353}},
	}
	procs := []types.ProcessUsage{
		{PID: 812, Name: "postgres", Status: types.StatusSleeping, CPUPercent: 0.5, MemoryKiB: 20480},
	}

	require.NoError(t, db.WriteSnapshot(at, sockets, procs))

	counts, err := db.SocketCount()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"TCP": 1, "UDP": 2}, counts)

	got, err := db.CapturedAt()
	require.NoError(t, err)
	assert.True(t, at.Equal(got))

	var pids string
	require.NoError(t, db.db.QueryRow("SELECT pids FROM sockets WHERE local_port = 53").Scan(&pids))
	assert.Equal(t, "[611, 612]", pids)

	var remote *string
	require.NoError(t, db.db.QueryRow("SELECT remote_ip FROM sockets WHERE local_port = 5353").Scan(&remote))
	assert.Nil(t, remote)

	var name string
	var mem int64
	require.NoError(t, db.db.QueryRow("SELECT name, memory_kib FROM processes WHERE pid = 812").Scan(&name, &mem))
	assert.Equal(t, "postgres", name)
	assert.Equal(t, int64(20480), mem)
}

func TestWriteSnapshot_Replaces(t *testing.T) {
	db := openTemp(t)
	first := []types.Socket{
		&types.UDPSocket{Local: types.Endpoint{IP: "0.0.0.0", Port: 1}},
		&types.UDPSocket{Local: types.Endpoint{IP: "0.0.0.0", Port: 2}},
	}
	require.NoError(t, db.WriteSnapshot(time.Now(), first, nil))

	second := []types.Socket{
		&types.TCPSocket{Local: types.Endpoint{IP: "0.0.0.0", Port: 22}, State: types.TCPListen},
	}
	later := time.Now().Add(time.Minute)
	require.NoError(t, db.WriteSnapshot(later, second, nil))

	counts, err := db.SocketCount()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"TCP": 1}, counts)

	got, err := db.CapturedAt()
	require.NoError(t, err)
	assert.True(t, later.Truncate(time.Second).Equal(got))
}

func TestCapturedAt_Empty(t *testing.T) {
	db := openTemp(t)
	_, err := db.CapturedAt()
	assert.Error(t, err)
}
