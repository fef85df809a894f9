// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface. The encoded snapshot occupies a single row, so a
// save is one atomic UPSERT and the previous value is fully replaced.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mkhuang/giftledger/internal/codec"
	"github.com/mkhuang/giftledger/internal/models"
	"github.com/mkhuang/giftledger/internal/storage"
)

// SlotKey names the single slot holding the encoded ledger snapshot.
const SlotKey = "ledger"

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	codec codec.Codec
}

// New creates a new SQLiteStore at the given database path, running
// snapshots through c on every load and save. It creates the parent
// directories and runs migrations automatically.
func New(dbPath string, c codec.Codec) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, codec: c}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the slot and decodes it into a snapshot.
//
// A missing slot is the valid initial state and returns the empty snapshot.
// Stored text that fails the codec or JSON parsing also returns the empty
// snapshot with a warning logged: a corrupted slot degrades to a fresh
// ledger instead of taking the process down.
func (s *SQLiteStore) Load(ctx context.Context) (models.Snapshot, error) {
	raw, err := s.ReadRaw(ctx)
	if err != nil {
		return models.EmptySnapshot(), err
	}
	if raw == "" {
		return models.EmptySnapshot(), nil
	}

	plain, err := s.codec.Decode(raw)
	if err != nil {
		slog.Warn("stored ledger failed to decode, starting empty", "error", err)
		return models.EmptySnapshot(), nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(plain), &snap); err != nil {
		slog.Warn("stored ledger is not valid snapshot JSON, starting empty", "error", err)
		return models.EmptySnapshot(), nil
	}
	if snap.People == nil {
		snap.People = []models.Person{}
	}
	if snap.Transactions == nil {
		snap.Transactions = []models.Transaction{}
	}
	return snap, nil
}

// Save serializes and encodes the snapshot and overwrites the slot.
func (s *SQLiteStore) Save(ctx context.Context, snap models.Snapshot) error {
	plain, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		SlotKey, s.codec.Encode(string(plain)), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write slot: %w", err)
	}
	return nil
}

// ReadRaw returns the stored opaque text without decoding it, or "" when the
// slot has never been written.
func (s *SQLiteStore) ReadRaw(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM slots WHERE key = ?", SlotKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read slot: %w", err)
	}
	return value, nil
}
