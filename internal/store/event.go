package store

import (
	"database/sql"
	"fmt"
	"time"
)

// EventKind names a lifecycle event of an attempt.
type EventKind string

const (
	EventStarted            EventKind = "started"
	EventChallengeCompleted EventKind = "challenge_completed"
	EventVerified           EventKind = "verified"
	EventReset              EventKind = "reset"
	EventAborted            EventKind = "aborted"
	EventAbandoned          EventKind = "abandoned"
)

// Event is one entry in an attempt's ordered log.
type Event struct {
	ID             int64     `json:"id"`
	AttemptID      string    `json:"attempt_id"`
	Seq            int       `json:"seq"`
	Kind           EventKind `json:"kind"`
	ChallengeID    string    `json:"challenge_id,omitempty"`
	ChallengeIndex *int      `json:"challenge_index,omitempty"`
	Label          string    `json:"label,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// EventRepository provides access to attempt events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append stores e as the next event of its attempt and fills in ID, Seq and
// CreatedAt.
func (r *EventRepository) Append(e *Event) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seq int
	err = tx.QueryRow(
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM attempt_events WHERE attempt_id = ?`,
		e.AttemptID,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	createdAt := time.Now().UTC()

	var challengeIndex sql.NullInt64
	if e.ChallengeIndex != nil {
		challengeIndex = sql.NullInt64{Int64: int64(*e.ChallengeIndex), Valid: true}
	}

	result, err := tx.Exec(
		`INSERT INTO attempt_events (attempt_id, seq, kind, challenge_id, challenge_index, label, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.AttemptID, seq, string(e.Kind), nullString(e.ChallengeID), challengeIndex, nullString(e.Label), createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	e.ID = id
	e.Seq = seq
	e.CreatedAt = createdAt
	return nil
}

// ListByAttempt returns the events of an attempt in order.
func (r *EventRepository) ListByAttempt(attemptID string) ([]Event, error) {
	rows, err := r.db.Query(
		`SELECT id, attempt_id, seq, kind, challenge_id, challenge_index, label, created_at
		 FROM attempt_events
		 WHERE attempt_id = ?
		 ORDER BY seq`,
		attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var kind string
		var challengeID, label sql.NullString
		var challengeIndex sql.NullInt64

		if err := rows.Scan(&e.ID, &e.AttemptID, &e.Seq, &kind, &challengeID, &challengeIndex, &label, &e.CreatedAt); err != nil {
			return nil, err
		}

		e.Kind = EventKind(kind)
		e.ChallengeID = challengeID.String
		e.Label = label.String
		if challengeIndex.Valid {
			i := int(challengeIndex.Int64)
			e.ChallengeIndex = &i
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
