package models

import "github.com/shopspring/decimal"

// TransactionType is the direction of a gift event.
type TransactionType string

const (
	// Give records a gift from the user to the person.
	Give TransactionType = "GIVE"
	// Receive records a gift from the person to the user.
	Receive TransactionType = "RECEIVE"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Give || t == Receive
}

// Transaction represents one recorded gift event.
//
// A transaction is created once via the add path and mutable only via the
// edit path, which replaces every field except ID and CreatedAt. Transactions
// are never deleted.
type Transaction struct {
	// ID is the unique identifier (UUID format), immutable after creation.
	ID string `json:"id"`

	// Type is the direction of the gift.
	Type TransactionType `json:"type"`

	// PersonID references the person this transaction touches.
	PersonID string `json:"personId"`

	// PersonName is a denormalized display copy of the person's name at
	// recording time. It may diverge from the person's current name if the
	// person is later renamed; transactions are a historical record.
	PersonName string `json:"personName"`

	// Amount is the positive gift value in the ledger's currency unit.
	Amount decimal.Decimal `json:"amount"`

	// Date is the ISO "2006-01-02" calendar date of the event, independent
	// of CreatedAt.
	Date string `json:"date"`

	// Occasion describes the event, e.g. a wedding or housewarming.
	Occasion string `json:"occasion"`

	// Notes is free-form descriptive text.
	Notes string `json:"notes"`

	// Tags is optional free-form labeling.
	Tags []string `json:"tags,omitempty"`

	// CreatedAt is the RFC 3339 creation timestamp, preserved across edits.
	CreatedAt string `json:"createdAt"`
}

// TransactionDraft is a transaction payload prior to ID and CreatedAt
// assignment. Only the add path consumes drafts.
//
// PersonID may be left empty for a brand-new person; the engine then mints
// an ID. Callers that matched a typed name to an existing person supply
// that person's ID.
type TransactionDraft struct {
	Type       TransactionType `json:"type"`
	PersonID   string          `json:"personId"`
	PersonName string          `json:"personName"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	Occasion   string          `json:"occasion"`
	Notes      string          `json:"notes"`
	Tags       []string        `json:"tags,omitempty"`
}
