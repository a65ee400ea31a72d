package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// BenchStore provides SQLite-backed history for benchmark runs, so score
// and timing regressions are visible across invocations.
type BenchStore struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// DefaultStorePath returns the store location under the user data
// directory.
func DefaultStorePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "cspc", "bench.db")
}

// OpenBenchStore opens (creating if needed) the store at the given path.
func OpenBenchStore(dbPath string) (*BenchStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	// Enable WAL mode for concurrent reads.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	store := &BenchStore{db: conn, dbPath: dbPath}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

// migrate creates the tables and applies pending schema versions.
func (s *BenchStore) migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS bench_schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	var current int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM bench_schema_version")
	if err := row.Scan(&current); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Results},
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.Exec("INSERT INTO bench_schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

const migrationV1Results = `
	CREATE TABLE IF NOT EXISTS bench_results (
		run_id TEXT NOT NULL,
		scheduler TEXT NOT NULL,
		file TEXT NOT NULL,
		score INTEGER NOT NULL,
		best_known INTEGER NOT NULL,
		seconds REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_bench_results_run ON bench_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_bench_results_scheduler ON bench_results(scheduler, file);
`

// Record persists every entry of a report under a fresh run id, which is
// returned for cross-referencing.
func (s *BenchStore) Record(report *Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	for _, entry := range report.Entries {
		_, err := tx.Exec(
			"INSERT INTO bench_results (run_id, scheduler, file, score, best_known, seconds) VALUES (?, ?, ?, ?, ?, ?)",
			runID, report.Scheduler, entry.Name, int64(entry.Score), int64(entry.BestKnown), entry.Seconds,
		)
		if err != nil {
			tx.Rollback()
			return "", fmt.Errorf("record run: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}

	return runID, nil
}

// BestScore returns the highest score ever recorded for a scheduler/file
// pair; ok is false when the pair has no history.
func (s *BenchStore) BestScore(scheduler, file string) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var score sql.NullInt64
	row := s.db.QueryRow(
		"SELECT MAX(score) FROM bench_results WHERE scheduler = ? AND file = ?",
		scheduler, file,
	)
	if err := row.Scan(&score); err != nil {
		return 0, false, fmt.Errorf("query history: %w", err)
	}
	if !score.Valid {
		return 0, false, nil
	}
	return uint64(score.Int64), true, nil
}

// Close releases the database handle.
func (s *BenchStore) Close() error {
	return s.db.Close()
}
