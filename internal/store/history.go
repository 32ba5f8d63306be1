// Package store keeps a history of audit runs in SQLite so reports can show
// how each language's score moved since the previous run.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"i18ncheck/internal/audit"
	"i18ncheck/internal/logging"

	_ "modernc.org/sqlite"
)

// LanguageScore is one language's stored result for a run.
type LanguageScore struct {
	Language     string
	Score        int
	Missing      int
	Identical    int
	Untranslated int
	LengthIssues int
	Stale        int
}

// Run is a stored audit run.
type Run struct {
	ID           string
	CreatedAt    time.Time
	BaseLanguage string
	Average      float64
	Languages    []LanguageScore
}

// Store is the run history database.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	now    func() time.Time
}

// NewStore opens (creating if needed) the history database at path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: path, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Get(logging.CategoryStore).Debugw("history store opened", "path", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		base_language TEXT NOT NULL,
		average_score REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

	CREATE TABLE IF NOT EXISTS language_scores (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		language TEXT NOT NULL,
		score INTEGER NOT NULL,
		missing INTEGER NOT NULL,
		identical INTEGER NOT NULL,
		untranslated INTEGER NOT NULL,
		length_issues INTEGER NOT NULL,
		stale INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, language),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun records res.
func (s *Store) SaveRun(ctx context.Context, res *audit.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := logging.StartTimer(logging.CategoryStore, "SaveRun")
	defer timer.StopWithThreshold(time.Second)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, base_language, average_score)
		VALUES (?, ?, ?, ?)
	`, res.RunID, s.now().UnixNano(), res.BaseLanguage, res.Average()); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	for i := range res.Languages {
		l := &res.Languages[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO language_scores (run_id, position, language, score,
				missing, identical, untranslated, length_issues, stale)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, res.RunID, i, l.Language, l.Score, l.MissingCount(), l.IdenticalCount(),
			l.UntranslatedCount(), l.LengthIssueCount(), len(l.Stale)); err != nil {
			return fmt.Errorf("failed to record score for %s: %w", l.Language, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	logging.Get(logging.CategoryStore).Debugw("run saved", "run", res.RunID, "languages", len(res.Languages))
	return nil
}

// LatestScores returns the per-language scores of the most recent run, or an
// empty map if nothing has been recorded.
func (s *Store) LatestScores(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT language, score FROM language_scores
		WHERE run_id = (SELECT id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]int)
	for rows.Next() {
		var lang string
		var score int
		if err := rows.Scan(&lang, &score); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores[lang] = score
	}
	return scores, rows.Err()
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, base_language, average_score
		FROM runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	var runs []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &created, &r.BaseLanguage, &r.Average); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.CreatedAt = time.Unix(0, created)
		runs = append(runs, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		langs, err := s.languageScores(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Languages = langs
	}
	return runs, nil
}

func (s *Store) languageScores(ctx context.Context, runID string) ([]LanguageScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT language, score, missing, identical, untranslated, length_issues, stale
		FROM language_scores
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []LanguageScore
	for rows.Next() {
		var l LanguageScore
		if err := rows.Scan(&l.Language, &l.Score, &l.Missing, &l.Identical,
			&l.Untranslated, &l.LengthIssues, &l.Stale); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
