package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AttemptStatus is the outcome of a verification attempt.
type AttemptStatus string

const (
	StatusInProgress AttemptStatus = "in_progress"
	StatusVerified   AttemptStatus = "verified"
	StatusReset      AttemptStatus = "reset"
	StatusAborted    AttemptStatus = "aborted"
	StatusAbandoned  AttemptStatus = "abandoned"
)

// Terminal reports whether the status ends an attempt.
func (s AttemptStatus) Terminal() bool {
	switch s {
	case StatusVerified, StatusReset, StatusAborted, StatusAbandoned:
		return true
	}
	return false
}

// Attempt is one run through the challenge sequence.
type Attempt struct {
	ID         string        `json:"id"`
	Status     AttemptStatus `json:"status"`
	Total      int           `json:"total"`
	Completed  int           `json:"completed"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Reason     string        `json:"reason,omitempty"`
}

// AttemptRepository provides access to attempts.
type AttemptRepository struct {
	db *sql.DB
}

// Attempts returns the attempt repository for this store.
func (s *Store) Attempts() *AttemptRepository {
	return &AttemptRepository{db: s.db}
}

// Create inserts a new in-progress attempt. StartedAt defaults to now.
func (r *AttemptRepository) Create(a *Attempt) error {
	if a.StartedAt.IsZero() {
		a.StartedAt = time.Now().UTC()
	}
	if a.Status == "" {
		a.Status = StatusInProgress
	}

	_, err := r.db.Exec(
		`INSERT INTO attempts (id, status, total, completed, started_at, reason)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Status), a.Total, a.Completed, a.StartedAt, a.Reason,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// GetByID retrieves an attempt by its ID.
func (r *AttemptRepository) GetByID(id string) (*Attempt, error) {
	row := r.db.QueryRow(
		`SELECT id, status, total, completed, started_at, finished_at, reason
		 FROM attempts WHERE id = ?`,
		id,
	)

	a, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// List returns the most recent attempts first. A limit of 0 or less returns all.
func (r *AttemptRepository) List(limit int) ([]*Attempt, error) {
	query := `SELECT id, status, total, completed, started_at, finished_at, reason
		 FROM attempts ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attempts, nil
}

// SetCompleted records how many challenges an in-progress attempt has passed.
func (r *AttemptRepository) SetCompleted(id string, completed int) error {
	result, err := r.db.Exec(
		`UPDATE attempts SET completed = ? WHERE id = ? AND status = ?`,
		completed, id, string(StatusInProgress),
	)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// Finish moves an in-progress attempt to a terminal status. Finishing an
// attempt that is unknown or already finished returns ErrNotFound.
func (r *AttemptRepository) Finish(id string, status AttemptStatus, completed int, reason string) error {
	if !status.Terminal() {
		return fmt.Errorf("status %q does not finish an attempt", status)
	}

	result, err := r.db.Exec(
		`UPDATE attempts SET status = ?, completed = ?, finished_at = ?, reason = ?
		 WHERE id = ? AND status = ?`,
		string(status), completed, time.Now().UTC(), reason, id, string(StatusInProgress),
	)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// AbandonStale marks every attempt still in progress as abandoned. It runs at
// startup, when no session can still own one.
func (r *AttemptRepository) AbandonStale(reason string) (int64, error) {
	result, err := r.db.Exec(
		`UPDATE attempts SET status = ?, finished_at = ?, reason = ? WHERE status = ?`,
		string(StatusAbandoned), time.Now().UTC(), reason, string(StatusInProgress),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*Attempt, error) {
	a := &Attempt{}
	var status string
	var finished sql.NullTime

	if err := row.Scan(&a.ID, &status, &a.Total, &a.Completed, &a.StartedAt, &finished, &a.Reason); err != nil {
		return nil, err
	}

	a.Status = AttemptStatus(status)
	if finished.Valid {
		t := finished.Time
		a.FinishedAt = &t
	}
	return a, nil
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
