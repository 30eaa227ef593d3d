// Package credstore implements the console's durable local storage: the
// bearer credential, the last-known user profile, and a small cache of
// recent searches. Everything lives in a single sqlite database so the
// credential and profile can be written atomically.
//
// The store performs no network I/O; every call is a synchronous local read
// or write.
package credstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"logdeck/internal/console/credstore/migrations"
	"logdeck/internal/console/models"
	"logdeck/internal/logging"
)

const (
	keyToken = "token"
	keyUser  = "user"

	// historyLimit caps the number of locally cached searches.
	historyLimit = 50
)

// Store is the durable credential store. A single instance is shared
// process-wide; only the session transition function writes to it.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

// Open opens (creating if necessary) the sqlite database at dsn and brings
// its schema up to date.
func Open(ctx context.Context, dsn string, log logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage %s: %w", dsn, err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession persists the credential and the user profile in a single
// transaction.
func (s *Store) SaveSession(ctx context.Context, token string, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := setValue(ctx, tx, keyToken, []byte(token)); err != nil {
		return err
	}
	if err := setValue(ctx, tx, keyUser, data); err != nil {
		return err
	}
	return tx.Commit()
}

// SetUser replaces only the stored profile, leaving the credential as is.
func (s *Store) SetUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return setValue(ctx, s.db, keyUser, data)
}

// Credential returns the stored bearer token, or an empty string when none
// is stored.
func (s *Store) Credential(ctx context.Context) (string, error) {
	value, err := s.getValue(ctx, keyToken)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// User returns the stored profile, or nil when none is stored. A corrupted
// record is treated as absent: it is logged and reported as nil so startup
// is never blocked by a bad local file.
func (s *Store) User(ctx context.Context) (*models.User, error) {
	value, err := s.getValue(ctx, keyUser)
	if err != nil {
		return nil, err
	}
	if len(value) == 0 {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal(value, &user); err != nil {
		s.log.Warn(ctx, "stored user profile is corrupted, treating as absent", "error", err)
		return nil, nil
	}
	return &user, nil
}

// Clear removes both the credential and the profile. Clearing an already
// empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM credentials WHERE key IN (?, ?)`, keyToken, keyUser)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setValue(ctx context.Context, db execer, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}

func (s *Store) getValue(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials[%s]: %w", key, err)
	}
	return value, nil
}

// SaveSearch appends f to the local search history, pruning the history to
// the most recent entries.
func (s *Store) SaveSearch(ctx context.Context, f models.SearchFilters) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode search filters: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_history (filters, created_at) VALUES (?, ?)`,
		data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save search: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM search_history WHERE id NOT IN (
			SELECT id FROM search_history ORDER BY id DESC LIMIT ?
		)`, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to prune search history: %w", err)
	}
	return nil
}

// RecentSearches returns up to limit locally cached searches, newest first.
// Entries that no longer decode are skipped.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]models.SearchFilters, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT filters FROM search_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}
	defer rows.Close()

	var result []models.SearchFilters
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan search history row: %w", err)
		}
		var f models.SearchFilters
		if err := json.Unmarshal(data, &f); err != nil {
			s.log.Warn(ctx, "skipping corrupted search history entry", "error", err)
			continue
		}
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search history: %w", err)
	}
	return result, nil
}
