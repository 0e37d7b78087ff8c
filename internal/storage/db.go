// Package storage writes socket snapshots to a SQLite file.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wellsgz/sockmon/internal/types"
)

// DB wraps SQLite database operations.
type DB struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// schema defines the database tables.
const schema = `
-- One row per socket of the last written snapshot
CREATE TABLE IF NOT EXISTS sockets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    protocol TEXT NOT NULL,
    local_ip TEXT NOT NULL,
    local_port INTEGER NOT NULL,
    remote_ip TEXT,          -- NULL for UDP
    remote_port INTEGER,     -- NULL for UDP
    state TEXT,              -- NULL for UDP
    pids TEXT NOT NULL       -- e.g. [812, 813]
);

-- Owning processes of those sockets
CREATE TABLE IF NOT EXISTS processes (
    pid INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    status TEXT NOT NULL,
    cpu_percent REAL DEFAULT 0,
    memory_kib INTEGER DEFAULT 0
);

-- Metadata
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_sockets_local_port ON sockets(local_port);
`

// Open opens or creates the SQLite database at path.
func Open(path string) (*DB, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Apply schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	slog.Debug("database opened", "path", path)

	return &DB{
		db:   db,
		path: path,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// WriteSnapshot replaces the stored snapshot with sockets and procs in one
// transaction.
func (d *DB) WriteSnapshot(at time.Time, sockets []types.Socket, procs []types.ProcessUsage) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"sockets", "processes"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	sockStmt, err := tx.Prepare(`
		INSERT INTO sockets (protocol, local_ip, local_port, remote_ip, remote_port, state, pids)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing socket insert: %w", err)
	}
	defer sockStmt.Close()

	for _, s := range sockets {
		var remoteIP, state sql.NullString
		var remotePort sql.NullInt64
		if t, ok := s.(*types.TCPSocket); ok {
			remoteIP = sql.NullString{String: t.Remote.IP, Valid: true}
			remotePort = sql.NullInt64{Int64: int64(t.Remote.Port), Valid: true}
			state = sql.NullString{String: t.State.String(), Valid: true}
		}
		local := s.LocalEndpoint()
		if _, err := sockStmt.Exec(s.Protocol().String(), local.IP, local.Port,
			remoteIP, remotePort, state, types.FormatPIDs(s.OwnerPIDs())); err != nil {
			return fmt.Errorf("inserting socket %s: %w", local, err)
		}
	}

	procStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO processes (pid, name, status, cpu_percent, memory_kib)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing process insert: %w", err)
	}
	defer procStmt.Close()

	for _, p := range procs {
		if _, err := procStmt.Exec(p.PID, p.Name, p.Status.String(), p.CPUPercent, int64(p.MemoryKiB)); err != nil {
			return fmt.Errorf("inserting process %d: %w", p.PID, err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO metadata (key, value) VALUES ('captured_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, at.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}

	slog.Debug("snapshot written", "path", d.path, "sockets", len(sockets), "processes", len(procs))
	return nil
}

// CapturedAt returns the time the stored snapshot was taken.
func (d *DB) CapturedAt() (time.Time, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var value string
	err := d.db.QueryRow("SELECT value FROM metadata WHERE key = 'captured_at'").Scan(&value)
	if err != nil {
		return time.Time{}, fmt.Errorf("querying captured_at: %w", err)
	}
	return time.Parse(time.RFC3339, value)
}

// SocketCount returns how many sockets of each protocol are stored.
func (d *DB) SocketCount() (map[string]int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rows, err := d.db.Query("SELECT protocol, COUNT(*) FROM sockets GROUP BY protocol")
	if err != nil {
		return nil, fmt.Errorf("querying sockets: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var proto string
		var n int
		if err := rows.Scan(&proto, &n); err != nil {
			return nil, err
		}
		counts[proto] = n
	}
	return counts, rows.Err()
}
