// Package storage provides SQLite-based persistence for finished runs and
// the coins they earned. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/golem-runner/internal/rewards"
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for the run ledger.
type Store struct {
	db *sql.DB
}

// RunRecord is a single finished run.
type RunRecord struct {
	ID        int64
	Theme     string
	WorldID   string
	GolemID   string
	Score     int
	Coins     int
	Tier      string
	Duration  time.Duration
	Seed      int64
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			theme TEXT NOT NULL,
			world_id TEXT NOT NULL DEFAULT '',
			golem_id TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			tier TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_theme ON runs(theme);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(theme, score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_golem ON runs(golem_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	return s.saveRun(context.Background(), r)
}

func (s *Store) saveRun(ctx context.Context, r RunRecord) (int64, error) {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (theme, world_id, golem_id, score, coins, tier, duration_ms, seed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Theme, r.WorldID, r.GolemID, r.Score, r.Coins, r.Tier,
		r.Duration.Milliseconds(), r.Seed, createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Submit implements rewards.Submitter by writing the claim to the local
// ledger.
func (s *Store) Submit(ctx context.Context, c rewards.Claim) error {
	_, err := s.saveRun(ctx, RunRecord{
		Theme:     c.Theme,
		WorldID:   c.WorldID,
		GolemID:   c.GolemID,
		Score:     c.Score,
		Coins:     c.Coins,
		Tier:      c.Tier,
		Duration:  c.Duration,
		Seed:      c.Seed,
		CreatedAt: c.At,
	})
	return err
}

var _ rewards.Submitter = (*Store)(nil)

// TopRuns retrieves the top N runs for the given theme.
// Results are ordered by score descending.
func (s *Store) TopRuns(theme string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, theme, world_id, golem_id, score, coins, tier, duration_ms, seed, created_at
		 FROM runs
		 WHERE theme = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		theme, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunRecord
	for rows.Next() {
		var e RunRecord
		var durationMs int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Theme, &e.WorldID, &e.GolemID, &e.Score, &e.Coins, &e.Tier, &durationMs, &e.Seed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given theme.
// Returns 0 if no runs exist.
func (s *Store) HighScore(theme string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE theme = ?",
		theme,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// TotalCoins returns the coins a golem has earned over all runs.
func (s *Store) TotalCoins(golemID string) (int, error) {
	var total int
	err := s.db.QueryRow(
		"SELECT COALESCE(SUM(coins), 0) FROM runs WHERE golem_id = ?",
		golemID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query coins: %w", err)
	}
	return total, nil
}

// ClearRuns deletes all runs for the given theme.
func (s *Store) ClearRuns(theme string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE theme = ?", theme)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// ThemeStats contains aggregated statistics for a theme.
type ThemeStats struct {
	Theme      string
	RunsCount  int
	HighScore  int
	AvgScore   float64
	TotalCoins int64
	LastPlayed time.Time
}

// ThemeStats retrieves aggregated statistics for a specific theme.
func (s *Store) ThemeStats(theme string) (*ThemeStats, error) {
	stats := &ThemeStats{Theme: theme}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(coins), 0), MAX(created_at)
		 FROM runs WHERE theme = ?`,
		theme,
	).Scan(&stats.RunsCount, &stats.HighScore, &stats.AvgScore, &stats.TotalCoins, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get theme stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// AllThemeStats retrieves statistics for every theme that has been played.
func (s *Store) AllThemeStats() (map[string]*ThemeStats, error) {
	rows, err := s.db.Query(
		`SELECT theme, COUNT(*), MAX(score), AVG(score), SUM(coins), MAX(created_at)
		 FROM runs
		 GROUP BY theme`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all theme stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ThemeStats)
	for rows.Next() {
		var st ThemeStats
		var lastPlayed any
		if err := rows.Scan(&st.Theme, &st.RunsCount, &st.HighScore, &st.AvgScore, &st.TotalCoins, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Theme] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
