// Package ledger implements the state-transition engine for the gift ledger.
//
// Both operations are pure functions from (Snapshot, input) to a new
// Snapshot: the input snapshot is never mutated, no storage is touched, and
// the only nondeterminism is ID and creation-timestamp assignment on the add
// path. Callers persist the returned snapshot themselves.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkhuang/giftledger/internal/models"
)

// DateFormat is the ISO layout for transaction dates. Zero-padded ISO dates
// compare correctly as plain strings, which the engine relies on for
// LastInteraction bookkeeping.
const DateFormat = "2006-01-02"

var (
	// ErrTransactionNotFound is returned by Update when no transaction with
	// the edited ID exists. The snapshot is returned unchanged; callers
	// should treat this as "nothing to update", not a crash.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInconsistentLedger is returned when reverting a transaction would
	// drive a person's running totals negative. Legitimate edit sequences
	// never trigger it; it indicates the snapshot and the edit disagree
	// about history.
	ErrInconsistentLedger = errors.New("inconsistent ledger: revert would produce negative totals")
)

// ValidateDraft checks the caller-supplied fields of a draft. The HTTP layer
// validates before calling the engine, but the engine fails closed on bad
// input rather than silently coercing it.
func ValidateDraft(d models.TransactionDraft) error {
	if !d.Type.Valid() {
		return fmt.Errorf("invalid transaction type %q", d.Type)
	}
	if strings.TrimSpace(d.PersonName) == "" {
		return errors.New("person name must not be empty")
	}
	if d.Amount.Sign() <= 0 {
		return errors.New("amount must be positive")
	}
	if _, err := time.Parse(DateFormat, d.Date); err != nil {
		return fmt.Errorf("invalid date %q: want %s", d.Date, DateFormat)
	}
	return nil
}

// validateEdit checks a full transaction submitted to Update.
func validateEdit(tx models.Transaction) error {
	if tx.ID == "" {
		return errors.New("transaction id must not be empty")
	}
	if tx.PersonID == "" {
		return errors.New("person id must not be empty")
	}
	return ValidateDraft(models.TransactionDraft{
		Type:       tx.Type,
		PersonID:   tx.PersonID,
		PersonName: tx.PersonName,
		Amount:     tx.Amount,
		Date:       tx.Date,
	})
}

// Add records a new gift event.
//
// It assigns a fresh ID and creation timestamp, prepends the transaction
// (the sequence is newest first), and applies the amount to the referenced
// person, creating the person with zeroed totals if the ID is unknown. An
// empty draft PersonID means a brand-new person; the engine mints the ID.
func Add(snap models.Snapshot, draft models.TransactionDraft) (models.Snapshot, error) {
	if err := ValidateDraft(draft); err != nil {
		return snap, err
	}

	personID := draft.PersonID
	if personID == "" {
		personID = uuid.NewString()
	}

	tx := models.Transaction{
		ID:         uuid.NewString(),
		Type:       draft.Type,
		PersonID:   personID,
		PersonName: draft.PersonName,
		Amount:     draft.Amount,
		Date:       draft.Date,
		Occasion:   draft.Occasion,
		Notes:      draft.Notes,
		Tags:       draft.Tags,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	out := snap.Clone()
	out.Transactions = append([]models.Transaction{tx}, out.Transactions...)

	i := out.PersonIndex(personID)
	if i == -1 {
		out.People = append(out.People, newPerson(personID, tx.PersonName, tx.Date))
		i = len(out.People) - 1
	} else if tx.Date > out.People[i].LastInteraction {
		out.People[i].LastInteraction = tx.Date
	}
	apply(&out.People[i], tx.Type, tx.Amount)

	return out, nil
}

// Update replaces an existing transaction with an edited version, keeping
// every person aggregate consistent even when the edit moves the
// transaction to a different (possibly brand-new) person or flips its type.
//
// The algorithm is revert-then-apply: undo the prior version's effect on the
// person it originally referenced, then apply the new version's effect on
// the person it now references. ID and CreatedAt are immutable; the
// transaction keeps its position in the sequence.
//
// LastInteraction only ever takes a running maximum: an edit that moves a
// date earlier than the person's current LastInteraction does not lower it.
func Update(snap models.Snapshot, edited models.Transaction) (models.Snapshot, error) {
	if err := validateEdit(edited); err != nil {
		return snap, err
	}

	at := snap.TransactionIndex(edited.ID)
	if at == -1 {
		return snap, ErrTransactionNotFound
	}
	prior := snap.Transactions[at]

	out := snap.Clone()

	if i := out.PersonIndex(prior.PersonID); i != -1 {
		revert(&out.People[i], prior.Type, prior.Amount)
		if out.People[i].TotalGiven.IsNegative() || out.People[i].TotalReceived.IsNegative() {
			return snap, fmt.Errorf("%w: person %s", ErrInconsistentLedger, prior.PersonID)
		}
	}

	i := out.PersonIndex(edited.PersonID)
	if i == -1 {
		out.People = append(out.People, newPerson(edited.PersonID, edited.PersonName, edited.Date))
		i = len(out.People) - 1
	} else if edited.Date > out.People[i].LastInteraction {
		out.People[i].LastInteraction = edited.Date
	}
	apply(&out.People[i], edited.Type, edited.Amount)

	edited.CreatedAt = prior.CreatedAt
	out.Transactions[at] = edited

	return out, nil
}

// newPerson seeds a person with zero totals and balance.
func newPerson(id, name, date string) models.Person {
	return models.Person{
		ID:              id,
		Name:            name,
		Tags:            []string{},
		TotalGiven:      decimal.Zero,
		TotalReceived:   decimal.Zero,
		Balance:         decimal.Zero,
		LastInteraction: date,
	}
}

// apply adds a transaction's effect to a person: giving increases the
// balance (credit owed to the user), receiving decreases it.
func apply(p *models.Person, t models.TransactionType, amount decimal.Decimal) {
	if t == models.Give {
		p.TotalGiven = p.TotalGiven.Add(amount)
		p.Balance = p.Balance.Add(amount)
	} else {
		p.TotalReceived = p.TotalReceived.Add(amount)
		p.Balance = p.Balance.Sub(amount)
	}
}

// revert is the exact inverse of apply.
func revert(p *models.Person, t models.TransactionType, amount decimal.Decimal) {
	if t == models.Give {
		p.TotalGiven = p.TotalGiven.Sub(amount)
		p.Balance = p.Balance.Sub(amount)
	} else {
		p.TotalReceived = p.TotalReceived.Sub(amount)
		p.Balance = p.Balance.Add(amount)
	}
}
