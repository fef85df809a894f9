// Package service wires the pure ledger engine to the persisted store and
// enforces the single-writer discipline the snapshot model requires.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mkhuang/giftledger/internal/ledger"
	"github.com/mkhuang/giftledger/internal/metrics"
	"github.com/mkhuang/giftledger/internal/models"
	"github.com/mkhuang/giftledger/internal/storage"
)

// PersonResolver maps a typed name to an existing person, keeping the
// engine's contract decoupled from fuzzy matching policy.
type PersonResolver interface {
	// ResolvePerson returns the matching person and true, or false when no
	// person matches. Matching is case-insensitive: an exact name match
	// wins, otherwise the first substring match in directory order.
	ResolvePerson(ctx context.Context, name string) (models.Person, bool, error)
}

// LedgerService runs load → engine → save cycles against one store.
//
// The engine itself is pure; the service owns the sequencing. A mutex
// guarantees only one mutate-then-save cycle is in flight at a time, which
// is the whole concurrency model: the snapshot is a single slot and writes
// are whole-snapshot overwrites.
type LedgerService struct {
	mu    sync.Mutex
	store storage.Store
}

var _ PersonResolver = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// AddTransaction records a new gift event and returns the persisted snapshot.
func (s *LedgerService) AddTransaction(ctx context.Context, draft models.TransactionDraft) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	next, err := ledger.Add(snap, draft)
	if err != nil {
		return models.Snapshot{}, err
	}
	if err := s.save(ctx, next); err != nil {
		return models.Snapshot{}, err
	}
	metrics.TransactionsAdded.Inc()
	return next, nil
}

// UpdateTransaction applies an edited transaction and returns the persisted
// snapshot. An unknown transaction ID returns ledger.ErrTransactionNotFound
// with the stored snapshot untouched.
func (s *LedgerService) UpdateTransaction(ctx context.Context, edited models.Transaction) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	next, err := ledger.Update(snap, edited)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrTransactionNotFound):
			metrics.TransactionUpdates.WithLabelValues("not_found").Inc()
		default:
			metrics.TransactionUpdates.WithLabelValues("invalid").Inc()
		}
		return models.Snapshot{}, err
	}
	if err := s.save(ctx, next); err != nil {
		return models.Snapshot{}, err
	}
	metrics.TransactionUpdates.WithLabelValues("ok").Inc()
	return next, nil
}

// Ledger returns the current snapshot.
func (s *LedgerService) Ledger(ctx context.Context) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

// People returns all known persons.
func (s *LedgerService) People(ctx context.Context) ([]models.Person, error) {
	snap, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	return snap.People, nil
}

// Transactions returns all transactions, newest first.
func (s *LedgerService) Transactions(ctx context.Context) ([]models.Transaction, error) {
	snap, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Transactions, nil
}

// ResolvePerson implements PersonResolver over the current snapshot.
func (s *LedgerService) ResolvePerson(ctx context.Context, name string) (models.Person, bool, error) {
	snap, err := s.Ledger(ctx)
	if err != nil {
		return models.Person{}, false, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return models.Person{}, false, nil
	}
	for _, p := range snap.People {
		if strings.ToLower(p.Name) == needle {
			return p, true, nil
		}
	}
	for _, p := range snap.People {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return p, true, nil
		}
	}
	return models.Person{}, false, nil
}

func (s *LedgerService) save(ctx context.Context, snap models.Snapshot) error {
	start := time.Now()
	err := s.store.Save(ctx, snap)
	metrics.SnapshotSaveSeconds.Observe(time.Since(start).Seconds())
	return err
}
