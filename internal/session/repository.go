package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PraneethJain/simplipy-backend/internal/platform/db"
)

var ErrQueryFailed = errors.New("session repository: query failed")

// Program is an archived submission: the source a client sent together
// with the simplified form the debugger actually ran.
type Program struct {
	ID         string
	SessionID  string
	Filename   string
	Source     string
	Simplified string
	CreatedAt  time.Time
}

type SaveProgramParams struct {
	SessionID  string
	Filename   string
	Source     string
	Simplified string
}

// Repository archives programs and session events in Postgres. Live
// stepping state never touches the database; only submissions and
// lifecycle events are persisted.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbConn *sql.DB) *Repository {
	return &Repository{db: dbConn}
}

// executor returns the transaction bound to the context when one is
// active, falling back to the pooled connection.
func (r *Repository) executor(ctx context.Context) db.Executor {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

const QueryProgramCreate = `
INSERT INTO programs (session_id, filename, source, simplified)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at
`

func (r *Repository) SaveProgram(ctx context.Context, params SaveProgramParams) (Program, error) {
	row := r.executor(ctx).QueryRowContext(ctx, QueryProgramCreate,
		params.SessionID, params.Filename, params.Source, params.Simplified)

	p := Program{
		SessionID:  params.SessionID,
		Filename:   params.Filename,
		Source:     params.Source,
		Simplified: params.Simplified,
	}
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return p, fmt.Errorf("%w: save program for session %s: %v", ErrQueryFailed, params.SessionID, err)
	}
	return p, nil
}

const QueryEventCreate = `
INSERT INTO session_events (session_id, kind)
VALUES ($1, $2)
`

func (r *Repository) RecordEvent(ctx context.Context, sessionID, kind string) error {
	if _, err := r.executor(ctx).ExecContext(ctx, QueryEventCreate, sessionID, kind); err != nil {
		return fmt.Errorf("%w: record %s event for session %s: %v", ErrQueryFailed, kind, sessionID, err)
	}
	return nil
}

const QueryProgramsBySession = `
SELECT id, session_id, filename, source, simplified, created_at FROM programs
WHERE session_id = $1
ORDER BY created_at
`

// ListPrograms returns every program a session has run, oldest first.
func (r *Repository) ListPrograms(ctx context.Context, sessionID string) ([]Program, error) {
	rows, err := r.executor(ctx).QueryContext(ctx, QueryProgramsBySession, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: list programs for session %s: %v", ErrQueryFailed, sessionID, err)
	}
	defer rows.Close()

	//nolint:prealloc //Cannot identify the length of the rows without running another query.
	var programs []Program
	for rows.Next() {
		var p Program
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Filename, &p.Source, &p.Simplified, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("session repository: scan row: %w", err)
		}
		programs = append(programs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session repository: iterate over program rows: %w", err)
	}

	return programs, nil
}
