package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tailor/internal/session"
)

// casRetries bounds the optimistic-concurrency loop in Update.
const casRetries = 25

// SQLiteStore persists sessions in a SQLite database. Updates use an
// optimistic version check so concurrent writers for the same id cannot
// lose each other's writes. Expired rows are treated as absent and purged
// on access.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore creates or opens the database at path.
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// One connection keeps writers serialized at the driver level; the
	// version check still guards against interleaved read-modify-write.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db, ttl: ttl, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			data JSON NOT NULL,
			version INTEGER NOT NULL,
			expires_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expiry ON sessions(expires_at);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Put(ctx context.Context, sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, version, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data=excluded.data,
			version=excluded.version,
			expires_at=excluded.expires_at
	`, sess.ID, data, sess.Version, s.now().Add(s.ttl).UTC())
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*session.Session, error) {
	sess, _, err := s.load(ctx, id)
	return sess, err
}

func (s *SQLiteStore) load(ctx context.Context, id string) (*session.Session, int64, error) {
	var data []byte
	var version int64
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT data, version, expires_at FROM sessions WHERE id = ?`, id,
	).Scan(&data, &version, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	if s.now().After(expiresAt) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		return nil, 0, ErrNotFound
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, 0, err
	}
	sess.Version = version
	return &sess, version, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, mutate func(*session.Session) error) (*session.Session, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		sess, version, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := mutate(sess); err != nil {
			return nil, err
		}
		sess.Version = version + 1

		data, err := json.Marshal(sess)
		if err != nil {
			return nil, err
		}
		res, err := s.db.ExecContext(ctx, `
			UPDATE sessions SET data = ?, version = ?, expires_at = ?
			WHERE id = ? AND version = ?
		`, data, sess.Version, s.now().Add(s.ttl).UTC(), id, version)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return sess, nil
		}
		// Lost the race; reload and try again.
	}
	return nil, fmt.Errorf("update of session %s kept conflicting after %d attempts", id, casRetries)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
