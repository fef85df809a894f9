package models

import "github.com/shopspring/decimal"

// Person represents one contact the user exchanges gifts with.
//
// People are created lazily the first time a transaction references an
// unknown person ID, and are never deleted. Totals and the balance are
// adjusted only by the ledger engine; after every engine operation
// Balance == TotalGiven - TotalReceived holds.
type Person struct {
	// ID is the stable unique identifier for the person (UUID format),
	// assigned at first appearance.
	ID string `json:"id"`

	// Name is the display label. Not guaranteed unique; resolution from
	// a typed name to an ID is the caller's concern (see service.PersonResolver).
	Name string `json:"name"`

	// Tags is a set of free-form labels (e.g. "family", "coworker").
	// Order carries no meaning.
	Tags []string `json:"tags"`

	// TotalGiven is the non-negative running sum of gifts given to this person.
	TotalGiven decimal.Decimal `json:"totalGiven"`

	// TotalReceived is the non-negative running sum of gifts received from
	// this person.
	TotalReceived decimal.Decimal `json:"totalReceived"`

	// Balance is the signed net favor: positive means the user has given
	// more than received (they owe the user), negative the reverse.
	Balance decimal.Decimal `json:"balance"`

	// LastInteraction is the ISO "2006-01-02" date of the most recent
	// transaction touching this person. ISO zero-padded dates compare
	// correctly as strings.
	LastInteraction string `json:"lastInteraction"`
}
