package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the persistence interface consumed by the game service:
// session rows keyed by (chat_id, finished) and the append-only action
// ledger keyed by session_id.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetOpenSession returns the unfinished session for a chat,
	// or nil, nil when the chat has none.
	GetOpenSession(ctx context.Context, chatID string) (*Session, error)

	// CreateSession inserts a new unfinished session for a chat.
	CreateSession(ctx context.Context, chatID string) (*Session, error)

	// FinishSession marks a session as finished. The transition is
	// irreversible; sessions are never deleted.
	FinishSession(ctx context.Context, sessionID int64) error

	// ListFinishedSessions returns all finished sessions for a chat in
	// creation order.
	ListFinishedSessions(ctx context.Context, chatID string) ([]Session, error)

	// AddActions appends ledger entries in a single transaction, so a
	// multi-user buy-in is recorded atomically.
	AddActions(ctx context.Context, actions []*Action) error

	// ListActions returns all actions of a session ordered by (ts, id)
	// ascending.
	ListActions(ctx context.Context, sessionID int64) ([]Action, error)

	// DeleteAction removes a single ledger entry by id.
	DeleteAction(ctx context.Context, actionID int64) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store on top of sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given sqlx connection pool.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetOpenSession(ctx context.Context, chatID string) (*Session, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat_id cannot be empty")
	}

	var session Session
	query := `SELECT id, chat_id, finished, created_at, updated_at
	          FROM sessions
	          WHERE chat_id = ? AND finished = 0
	          LIMIT 1`

	err := s.db.GetContext(ctx, &session, query, chatID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting open session", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get open session for chat %s: %w", chatID, err)
	}

	return &session, nil
}

func (s *sqlxStore) CreateSession(ctx context.Context, chatID string) (*Session, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat_id cannot be empty")
	}

	now := time.Now().UTC()
	session := &Session{
		ChatID:    chatID,
		Finished:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO sessions (chat_id, finished, created_at, updated_at)
	          VALUES (:chat_id, :finished, :created_at, :updated_at)`

	result, err := s.db.NamedExecContext(ctx, query, session)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating session", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to create session for chat %s: %w", chatID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get session id after insert: %w", err)
	}
	session.ID = id

	s.logger.DebugContext(ctx, "Session created", "chat_id", chatID, "session_id", id)
	return session, nil
}

func (s *sqlxStore) FinishSession(ctx context.Context, sessionID int64) error {
	query := `UPDATE sessions SET finished = 1, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), sessionID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error finishing session", "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to finish session %d: %w", sessionID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected finishing session",
			"session_id", sessionID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Session finished", "session_id", sessionID)
	return nil
}

func (s *sqlxStore) ListFinishedSessions(ctx context.Context, chatID string) ([]Session, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat_id cannot be empty")
	}

	var sessions []Session
	query := `SELECT id, chat_id, finished, created_at, updated_at
	          FROM sessions
	          WHERE chat_id = ? AND finished = 1
	          ORDER BY id ASC`

	if err := s.db.SelectContext(ctx, &sessions, query, chatID); err != nil {
		s.logger.ErrorContext(ctx, "Error listing finished sessions", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to list finished sessions for chat %s: %w", chatID, err)
	}

	return sessions, nil
}

func (s *sqlxStore) AddActions(ctx context.Context, actions []*Action) error {
	if len(actions) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, action := range actions {
		if action == nil {
			return fmt.Errorf("cannot save nil action")
		}
		if action.SessionID == 0 {
			return fmt.Errorf("action must have a non-zero session_id")
		}
		action.CreatedAt = now
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving actions", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `INSERT INTO actions (session_id, kind, user_id, amount, ts, created_at)
	          VALUES (:session_id, :kind, :user_id, :amount, :ts, :created_at)`

	for _, action := range actions {
		result, err := tx.NamedExecContext(ctx, query, action)
		if err != nil {
			s.logger.ErrorContext(ctx, "Error saving action",
				"session_id", action.SessionID, "kind", action.Kind, "user_id", action.UserID, "error", err)
			return fmt.Errorf("failed to save %s for user %s: %w", action.Kind, action.UserID, err)
		}

		if id, err := result.LastInsertId(); err == nil {
			action.ID = id
		} else {
			s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving action",
				"session_id", action.SessionID, "user_id", action.UserID, "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Actions saved", "count", len(actions))
	return nil
}

func (s *sqlxStore) ListActions(ctx context.Context, sessionID int64) ([]Action, error) {
	var actions []Action
	query := `SELECT id, session_id, kind, user_id, amount, ts, created_at
	          FROM actions
	          WHERE session_id = ?
	          ORDER BY ts ASC, id ASC`

	if err := s.db.SelectContext(ctx, &actions, query, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "Error listing actions", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to list actions for session %d: %w", sessionID, err)
	}

	return actions, nil
}

func (s *sqlxStore) DeleteAction(ctx context.Context, actionID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM actions WHERE id = ?`, actionID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting action", "action_id", actionID, "error", err)
		return fmt.Errorf("failed to delete action %d: %w", actionID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected deleting action",
			"action_id", actionID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Action deleted", "action_id", actionID)
	return nil
}

// RunSQLMaintenance executes a VACUUM on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")

	// VACUUM must run outside a transaction in SQLite.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}
