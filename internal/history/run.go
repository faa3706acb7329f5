package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the outcome of a crew run.
type RunStatus string

const (
	RunOK     RunStatus = "ok"
	RunFailed RunStatus = "failed"
)

// Run is the metadata recorded for one crew run.
type Run struct {
	ID           string        `json:"id"`
	Kind         string        `json:"kind"`
	Topic        string        `json:"topic"`
	Difficulty   string        `json:"difficulty"`
	Backend      string        `json:"backend"`
	Model        string        `json:"model"`
	FileCount    int           `json:"file_count"`
	CorpusChars  int           `json:"corpus_chars"`
	InputTokens  int64         `json:"input_tokens"`
	OutputTokens int64         `json:"output_tokens"`
	Status       RunStatus     `json:"status"`
	Error        string        `json:"error"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
}

// Record inserts a run. A missing ID is filled with a new UUID and a zero
// StartedAt with the current time.
func (db *DB) Record(r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	if r.Status == "" {
		r.Status = RunOK
	}

	_, err := db.Exec(`
		INSERT INTO runs (id, kind, topic, difficulty, backend, model, file_count, corpus_chars,
			input_tokens, output_tokens, status, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Kind, r.Topic, r.Difficulty, r.Backend, r.Model, r.FileCount, r.CorpusChars,
		r.InputTokens, r.OutputTokens, string(r.Status), r.Error, formatTime(r.StartedAt),
		r.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

const runColumns = `id, kind, topic, difficulty, backend, model, file_count, corpus_chars,
	input_tokens, output_tokens, status, error, started_at, duration_ms`

// ErrAmbiguousID is returned when an ID prefix matches more than one run.
var ErrAmbiguousID = errors.New("ambiguous run ID")

// GetRun retrieves a run by ID or by a unique ID prefix, as shown in the
// history table. It returns nil, nil when no run matches.
func (db *DB) GetRun(id string) (*Run, error) {
	if id == "" {
		return nil, nil
	}

	rows, err := db.Query(`SELECT `+runColumns+` FROM runs
		WHERE substr(id, 1, ?) = ?
		ORDER BY id = ? DESC
		LIMIT 2`, len(id), id, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("get run: %w", err)
		}
		matches = append(matches, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	switch {
	case len(matches) == 0:
		return nil, nil
	case len(matches) == 1 || matches[0].ID == id:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// PurgeOldRuns deletes runs older than the specified duration.
// Returns the number of runs deleted.
func (db *DB) PurgeOldRuns(olderThan time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-olderThan))

	result, err := db.Exec(`DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge old runs: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var r Run
	var startedAt string
	var durationMS int64
	err := s.Scan(&r.ID, &r.Kind, &r.Topic, &r.Difficulty, &r.Backend, &r.Model,
		&r.FileCount, &r.CorpusChars, &r.InputTokens, &r.OutputTokens,
		&r.Status, &r.Error, &startedAt, &durationMS)
	if err != nil {
		return nil, err
	}
	r.StartedAt, _ = parseTime(startedAt)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return &r, nil
}
