package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mkhuang/giftledger/internal/models"
)

func draft(t models.TransactionType, personID, name string, amount int64, date string) models.TransactionDraft {
	return models.TransactionDraft{
		Type:       t,
		PersonID:   personID,
		PersonName: name,
		Amount:     decimal.NewFromInt(amount),
		Date:       date,
	}
}

// checkInvariants verifies balance = given - received and non-negative
// totals for every person in the snapshot.
func checkInvariants(t *testing.T, snap models.Snapshot) {
	t.Helper()
	for _, p := range snap.People {
		if !p.Balance.Equal(p.TotalGiven.Sub(p.TotalReceived)) {
			t.Errorf("person %s: balance %s != given %s - received %s",
				p.Name, p.Balance, p.TotalGiven, p.TotalReceived)
		}
		if p.TotalGiven.IsNegative() || p.TotalReceived.IsNegative() {
			t.Errorf("person %s: negative totals given=%s received=%s",
				p.Name, p.TotalGiven, p.TotalReceived)
		}
	}
}

func person(t *testing.T, snap models.Snapshot, name string) models.Person {
	t.Helper()
	for _, p := range snap.People {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("person %s not found", name)
	return models.Person{}
}

func wantAmount(t *testing.T, label string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", label, got, want)
	}
}

func TestAddAndUpdateScenarios(t *testing.T) {
	// Scenario A: first GIVE creates Alice with matching totals.
	snap, err := Add(models.EmptySnapshot(), draft(models.Give, "", "Alice", 100, "2024-01-01"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	checkInvariants(t, snap)

	alice := person(t, snap, "Alice")
	wantAmount(t, "Alice totalGiven", alice.TotalGiven, 100)
	wantAmount(t, "Alice totalReceived", alice.TotalReceived, 0)
	wantAmount(t, "Alice balance", alice.Balance, 100)
	if alice.LastInteraction != "2024-01-01" {
		t.Errorf("Alice lastInteraction = %s, want 2024-01-01", alice.LastInteraction)
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID == "" || snap.Transactions[0].CreatedAt == "" {
		t.Fatalf("expected one transaction with assigned id and createdAt, got %+v", snap.Transactions)
	}

	// Scenario B: RECEIVE against the same person.
	snap, err = Add(snap, draft(models.Receive, alice.ID, "Alice", 40, "2024-02-01"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	checkInvariants(t, snap)

	alice = person(t, snap, "Alice")
	wantAmount(t, "Alice totalGiven", alice.TotalGiven, 100)
	wantAmount(t, "Alice totalReceived", alice.TotalReceived, 40)
	wantAmount(t, "Alice balance", alice.Balance, 60)
	if alice.LastInteraction != "2024-02-01" {
		t.Errorf("Alice lastInteraction = %s, want 2024-02-01", alice.LastInteraction)
	}
	if len(snap.People) != 1 {
		t.Fatalf("expected one person, got %d", len(snap.People))
	}

	// Scenario C: edit the GIVE amount from 100 down to 70.
	giveTx := snap.Transactions[1] // newest first, so the GIVE is last
	if giveTx.Type != models.Give {
		t.Fatalf("expected GIVE at position 1, got %s", giveTx.Type)
	}
	edited := giveTx
	edited.Amount = decimal.NewFromInt(70)
	snap, err = Update(snap, edited)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	checkInvariants(t, snap)

	alice = person(t, snap, "Alice")
	wantAmount(t, "Alice totalGiven", alice.TotalGiven, 70)
	wantAmount(t, "Alice totalReceived", alice.TotalReceived, 40)
	wantAmount(t, "Alice balance", alice.Balance, 30)

	// Scenario D: reassign the same transaction to a brand-new person Bob.
	edited = snap.Transactions[1]
	edited.PersonID = "bob-id"
	edited.PersonName = "Bob"
	snap, err = Update(snap, edited)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	checkInvariants(t, snap)

	alice = person(t, snap, "Alice")
	wantAmount(t, "Alice totalGiven", alice.TotalGiven, 0)
	wantAmount(t, "Alice balance", alice.Balance, -40)
	bob := person(t, snap, "Bob")
	wantAmount(t, "Bob totalGiven", bob.TotalGiven, 70)
	wantAmount(t, "Bob balance", bob.Balance, 70)
}

func TestAddPrependsNewestFirst(t *testing.T) {
	snap, err := Add(models.EmptySnapshot(), draft(models.Give, "", "Alice", 10, "2024-01-01"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	first := snap.Transactions[0].ID

	snap, err = Add(snap, draft(models.Give, "", "Bob", 20, "2024-01-02"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if snap.Transactions[0].PersonName != "Bob" {
		t.Errorf("newest transaction should be first, got %s", snap.Transactions[0].PersonName)
	}
	if snap.Transactions[1].ID != first {
		t.Errorf("existing order should be preserved")
	}
}

func TestAddDoesNotMutateInput(t *testing.T) {
	base, err := Add(models.EmptySnapshot(), draft(models.Give, "", "Alice", 10, "2024-01-01"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	id := base.People[0].ID

	if _, err := Add(base, draft(models.Receive, id, "Alice", 5, "2024-01-02")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if len(base.Transactions) != 1 {
		t.Errorf("input snapshot transaction count changed: %d", len(base.Transactions))
	}
	wantAmount(t, "input Alice balance", base.People[0].Balance, 10)
	if base.People[0].LastInteraction != "2024-01-01" {
		t.Errorf("input Alice lastInteraction changed: %s", base.People[0].LastInteraction)
	}
}

func TestUpdateWithIdenticalPayloadIsNeutral(t *testing.T) {
	snap, err := Add(models.EmptySnapshot(), draft(models.Give, "", "Alice", 100, "2024-01-01"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	same := snap.Transactions[0]
	next, err := Update(snap, same)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	checkInvariants(t, next)

	before := person(t, snap, "Alice")
	after := person(t, next, "Alice")
	if !after.TotalGiven.Equal(before.TotalGiven) ||
		!after.TotalReceived.Equal(before.TotalReceived) ||
		!after.Balance.Equal(before.Balance) {
		t.Errorf("identical edit changed aggregates: before=%+v after=%+v", before, after)
	}
}

func TestUpdateUnknownTransaction(t *testing.T) {
	snap, err := Add(models.EmptySnapshot(), draft(models.Give, "", "Alice", 100, "2024-01-01"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	missing := snap.Transactions[0]
	missing.ID = "no-such-id"
	next, err := Update(snap, missing)
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if len(next.Transactions) != 1 || len(next.People) != 1 {
		t.Errorf("snapshot should be returned unchanged")
	}
}

func TestUpdatePreservesCreatedAtAndPosition(t *testing.T) {
	snap, err := Add(models.EmptySnapshot(), draft(models.Give, "", "Alice", 10, "2024-01-01"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	snap, err = Add(snap, draft(models.Give, "", "Bob", 20, "2024-01-02"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	target := snap.Transactions[1] // the Alice transaction
	created := target.CreatedAt
	target.Amount = decimal.NewFromInt(15)
	target.CreatedAt = "2099-01-01T00:00:00Z" // must be ignored

	next, err := Update(snap, target)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got := next.Transactions[1]
	if got.ID != target.ID {
		t.Errorf("transaction moved: position 1 holds %s", got.ID)
	}
	if got.CreatedAt != created {
		t.Errorf("createdAt changed: got %s, want %s", got.CreatedAt, created)
	}
	wantAmount(t, "edited amount", got.Amount, 15)
}

func TestLastInteractionIsRunningMax(t *testing.T) {
	snap, err := Add(models.EmptySnapshot(), draft(models.Give, "", "Alice", 10, "2024-06-01"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	id := snap.People[0].ID

	// An earlier-dated insert does not lower lastInteraction.
	snap, err = Add(snap, draft(models.Give, id, "Alice", 10, "2024-01-01"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got := person(t, snap, "Alice").LastInteraction; got != "2024-06-01" {
		t.Errorf("lastInteraction = %s, want 2024-06-01", got)
	}

	// Editing the newest transaction to an earlier date keeps the running
	// max as well; the engine does not recompute over history.
	edited := snap.Transactions[1] // dated 2024-06-01
	edited.Date = "2024-03-01"
	snap, err = Update(snap, edited)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := person(t, snap, "Alice").LastInteraction; got != "2024-06-01" {
		t.Errorf("lastInteraction = %s, want 2024-06-01", got)
	}
}

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name    string
		draft   models.TransactionDraft
		wantErr bool
	}{
		{
			name:  "valid",
			draft: draft(models.Give, "", "Alice", 100, "2024-01-01"),
		},
		{
			name:    "empty name",
			draft:   draft(models.Give, "", "  ", 100, "2024-01-01"),
			wantErr: true,
		},
		{
			name:    "zero amount",
			draft:   draft(models.Give, "", "Alice", 0, "2024-01-01"),
			wantErr: true,
		},
		{
			name:    "negative amount",
			draft:   draft(models.Receive, "", "Alice", -5, "2024-01-01"),
			wantErr: true,
		},
		{
			name:    "bad date",
			draft:   draft(models.Give, "", "Alice", 100, "01/02/2024"),
			wantErr: true,
		},
		{
			name: "bad type",
			draft: models.TransactionDraft{
				Type: "LEND", PersonName: "Alice",
				Amount: decimal.NewFromInt(1), Date: "2024-01-01",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraft(tt.draft)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDraft() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddRejectsInvalidDraft(t *testing.T) {
	_, err := Add(models.EmptySnapshot(), draft(models.Give, "", "", 0, "nope"))
	if err == nil {
		t.Fatal("expected validation error")
	}
}
