// Package backup exports the persisted ledger slot as a portable file and
// restores it again.
//
// Export repackages the already-encoded slot text verbatim inside a small
// versioned envelope; it never decodes. Import is the symmetric operation:
// it opens the envelope, runs the payload through the codec, and hands the
// restored snapshot to the store.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mkhuang/giftledger/internal/codec"
	"github.com/mkhuang/giftledger/internal/models"
	"github.com/mkhuang/giftledger/internal/storage"
)

// Version is the backup envelope format version.
const Version = 1

// filePrefix names exported backup files; the current date is appended.
const filePrefix = "gift_ledger_backup_"

// Envelope is the on-disk backup format. Payload is the same opaque text
// the codec produces; an importer must run it through Decode before use.
type Envelope struct {
	Version   int    `json:"version"`
	Timestamp string `json:"timestamp"`
	Payload   string `json:"payload"`
}

// Manager exports and imports backups against one store.
type Manager struct {
	store storage.Store
	codec codec.Codec
}

// NewManager returns a Manager using the given store and codec. The codec
// must match the one the store persists with, or imported payloads will not
// decode.
func NewManager(store storage.Store, c codec.Codec) *Manager {
	return &Manager{store: store, codec: c}
}

// Export writes the current slot into dir as
// gift_ledger_backup_<YYYY-MM-DD>.json and returns the file path.
//
// When nothing has been persisted yet there is nothing to protect: Export
// returns "" with no error.
func (m *Manager) Export(ctx context.Context, dir string) (string, error) {
	raw, err := m.store.ReadRaw(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read ledger slot: %w", err)
	}
	if raw == "" {
		slog.Info("nothing persisted yet, skipping backup export")
		return "", nil
	}

	now := time.Now().UTC()
	env := Envelope{
		Version:   Version,
		Timestamp: now.Format(time.RFC3339),
		Payload:   raw,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to serialize backup envelope: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	path := filepath.Join(dir, filePrefix+now.Format("2006-01-02")+".json")

	// Write to a temp file first and rename into place so a crash mid-write
	// never leaves a truncated backup behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to finalize backup file: %w", err)
	}

	slog.Info("backup exported", "path", path)
	return path, nil
}

// Import restores a backup file: it verifies the envelope, decodes the
// payload through the codec, saves the snapshot to the store, and returns
// the restored snapshot.
func (m *Manager) Import(ctx context.Context, path string) (models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	return m.Restore(ctx, data)
}

// Restore is Import for an in-memory envelope, used by the HTTP surface
// where the file arrives as a request body.
func (m *Manager) Restore(ctx context.Context, data []byte) (models.Snapshot, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return models.Snapshot{}, fmt.Errorf("not a backup envelope: %w", err)
	}
	if env.Version != Version {
		return models.Snapshot{}, fmt.Errorf("unsupported backup version %d", env.Version)
	}

	plain, err := m.codec.Decode(env.Payload)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to decode backup payload: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(plain), &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("backup payload is not a snapshot: %w", err)
	}
	if snap.People == nil {
		snap.People = []models.Person{}
	}
	if snap.Transactions == nil {
		snap.Transactions = []models.Transaction{}
	}

	if err := m.store.Save(ctx, snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to save restored snapshot: %w", err)
	}
	slog.Info("backup restored", "people", len(snap.People), "transactions", len(snap.Transactions))
	return snap, nil
}
