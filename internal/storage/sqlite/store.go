// Package sqlite persists chat turns and session locations in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/phuslu/log"

	"github.com/tripmate/backend/internal/model/chat"
	"github.com/tripmate/backend/internal/model/geo"
)

// DefaultHistoryLimit is used when History is called with a non-positive limit.
const DefaultHistoryLimit = 10

// ErrSessionNotFound is returned when no session row exists for an id.
var ErrSessionNotFound = errors.New("session not found")

// Store is the conversation store. It is safe for concurrent use: writes are
// serialised by SQLite, with WAL and a busy timeout absorbing contention.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// _txlock=immediate takes the write lock at BEGIN so concurrent SaveTurn
	// transactions wait on busy_timeout instead of failing on lock upgrade.
	dsn := path + "?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	log.Info().Str("path", path).Msg("conversation store initialized")
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveTurn appends a turn and refreshes the session's last activity,
// creating the session row on first contact.
func (s *Store) SaveTurn(ctx context.Context, turn chat.Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}

	locationJSON, err := encodeOptional(turn.Location)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	var entitiesJSON sql.NullString
	if len(turn.Entities) > 0 {
		if entitiesJSON, err = encodeOptional(&turn.Entities); err != nil {
			return fmt.Errorf("encode entities: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save turn: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_history (session_id, user_message, ai_response, location_data, timestamp, intent, entities)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, turn.SessionID, turn.UserMessage, turn.AssistantResponse, locationJSON, turn.Timestamp,
		nullString(turn.Intent), entitiesJSON); err != nil {
		return fmt.Errorf("insert chat turn: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_sessions (session_id, created_at, last_activity)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET last_activity = excluded.last_activity
	`, turn.SessionID, turn.Timestamp, turn.Timestamp); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save turn: %w", err)
	}
	return nil
}

// History returns up to limit turns for the session, newest first.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, user_message, ai_response, location_data, timestamp, intent, entities
		FROM chat_history
		WHERE session_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	turns := make([]chat.Turn, 0, limit)
	for rows.Next() {
		var (
			turn     chat.Turn
			location sql.NullString
			intent   sql.NullString
			entities sql.NullString
		)
		if err := rows.Scan(&turn.ID, &turn.SessionID, &turn.UserMessage, &turn.AssistantResponse,
			&location, &turn.Timestamp, &intent, &entities); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}

		if location.Valid {
			var loc geo.Location
			if err := json.Unmarshal([]byte(location.String), &loc); err != nil {
				return nil, fmt.Errorf("decode location of turn %d: %w", turn.ID, err)
			}
			turn.Location = &loc
		}
		if entities.Valid {
			if err := json.Unmarshal([]byte(entities.String), &turn.Entities); err != nil {
				return nil, fmt.Errorf("decode entities of turn %d: %w", turn.ID, err)
			}
		}
		turn.Intent = intent.String
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return turns, nil
}

// UpsertSessionLocation records loc as the session's current location,
// replacing any previous one.
func (s *Store) UpsertSessionLocation(ctx context.Context, sessionID string, loc geo.Location) error {
	locationJSON, err := encodeOptional(&loc)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO user_sessions (session_id, current_location, created_at, last_activity)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			current_location = excluded.current_location,
			last_activity = excluded.last_activity
	`, sessionID, locationJSON, now, now); err != nil {
		return fmt.Errorf("upsert session location: %w", err)
	}
	return nil
}

// Session loads a session row.
func (s *Store) Session(ctx context.Context, sessionID string) (chat.Session, error) {
	var (
		session  chat.Session
		location sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, current_location, created_at, last_activity
		FROM user_sessions WHERE session_id = ?
	`, sessionID).Scan(&session.ID, &location, &session.CreatedAt, &session.LastActivity)
	if errors.Is(err, sql.ErrNoRows) {
		return chat.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return chat.Session{}, fmt.Errorf("get session: %w", err)
	}

	if location.Valid {
		var loc geo.Location
		if err := json.Unmarshal([]byte(location.String), &loc); err != nil {
			return chat.Session{}, fmt.Errorf("decode session location: %w", err)
		}
		session.CurrentLocation = &loc
	}
	return session, nil
}

func encodeOptional[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
