// Package storage provides abstractions for persisting the ledger snapshot.
package storage

import (
	"context"

	"github.com/mkhuang/giftledger/internal/models"
)

// Store is the persisted snapshot slot. One named slot holds the full
// codec-encoded ledger; Save is a whole-snapshot overwrite and the only
// mutator of stored state. This abstraction allows swapping backends
// (SQLite, a flat file, etc.) without changing the service layer.
type Store interface {
	// Load reads and decodes the persisted snapshot. An absent slot is a
	// valid initial state and yields the empty snapshot. Corrupted or
	// foreign stored text also yields the empty snapshot, with a logged
	// diagnostic rather than an error: load failures are never fatal.
	Load(ctx context.Context) (models.Snapshot, error)

	// Save encodes the full snapshot and atomically overwrites the slot.
	// Last writer wins; there are no partial or merge writes.
	Save(ctx context.Context, snap models.Snapshot) error

	// ReadRaw returns the opaque encoded text exactly as stored, without
	// decoding, or "" when nothing is persisted yet. The backup exporter
	// uses this to repackage the slot verbatim.
	ReadRaw(ctx context.Context) (string, error)

	// Close releases any resources held by the store.
	Close() error
}
