package results

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Attempt 一次已评分的测验记录
// Attempt is one graded assessment kept in the local ledger.
type Attempt struct {
	ID        int64
	Mode      string
	Topic     string
	Score     int
	Total     int
	Percent   int
	CreatedAt string
}

// Store 基于 SQLite (WAL 模式) 的本地测验台账
// Store keeps a local history of graded attempts using SQLite with WAL mode.
// The server owns the canonical knowledge profile; this ledger lets the user
// review past attempts offline.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates and initializes the ledger database under baseDir.
func Open(baseDir string) (*Store, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, fmt.Errorf("results dir is empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create results directory: %w", err)
	}
	dbPath := filepath.Join(baseDir, "results.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return store, nil
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		mode       TEXT NOT NULL,
		topic      TEXT NOT NULL DEFAULT '',
		score      INTEGER NOT NULL,
		total      INTEGER NOT NULL,
		percent    INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_created ON attempts(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close 关闭数据库连接 / Close the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordAttempt appends one graded attempt to the ledger.
func (s *Store) RecordAttempt(ctx context.Context, mode, topic string, score, total, percent int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (mode, topic, score, total, percent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		mode, topic, score, total, percent, nowUTC())
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// RecentAttempts returns up to limit attempts, newest first.
func (s *Store) RecentAttempts(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, topic, score, total, percent, created_at
		FROM attempts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.Mode, &a.Topic, &a.Score, &a.Total, &a.Percent, &a.CreatedAt); err != nil {
			continue
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
