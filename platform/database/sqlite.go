package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/cache"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS rooms (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	host_id TEXT NOT NULL,
	status  TEXT NOT NULL,
	players INTEGER NOT NULL
);`

// SQLiteStore is the default local store: a key/value table for the peer's
// identity and host snapshot, plus the rooms this peer has announced.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", cache.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Del(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Announce(ctx context.Context, room models.Room) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rooms (id, name, host_id, status, players) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			host_id = excluded.host_id,
			status = excluded.status,
			players = excluded.players`,
		room.Id, room.Name, room.HostId, room.Status, room.Players)
	if err != nil {
		return fmt.Errorf("announce room %s: %w", room.Id, err)
	}
	return nil
}

func (s *SQLiteStore) Available(ctx context.Context) ([]models.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, host_id, status, players FROM rooms WHERE status = ? ORDER BY id`,
		string(models.StatusPlaying))
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.Id, &room.Name, &room.HostId, &room.Status, &room.Players); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (s *SQLiteStore) Verify(ctx context.Context, code string) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ?`, code).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("verify room %s: %w", code, err)
	}
	return true, nil
}
