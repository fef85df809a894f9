package models

// Snapshot is the full ledger state at one point in time: every person and
// every transaction. It is the unit of persistence and the value the ledger
// engine consumes and produces.
//
// Transactions are ordered newest first; insertion order is significant.
// People are unordered and looked up by ID.
type Snapshot struct {
	People       []Person      `json:"people"`
	Transactions []Transaction `json:"transactions"`
}

// EmptySnapshot returns a snapshot with zero people and zero transactions.
// The slices are non-nil so the snapshot serializes as empty JSON arrays,
// matching the shape a fresh ledger is expected to have.
func EmptySnapshot() Snapshot {
	return Snapshot{
		People:       []Person{},
		Transactions: []Transaction{},
	}
}

// Clone returns a copy of the snapshot whose slices are independent of the
// receiver's. Element structs are copied by value; nested tag slices are
// shared, which is safe because nothing mutates them in place.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		People:       make([]Person, len(s.People)),
		Transactions: make([]Transaction, len(s.Transactions)),
	}
	copy(out.People, s.People)
	copy(out.Transactions, s.Transactions)
	return out
}

// PersonIndex returns the index of the person with the given ID, or -1.
func (s Snapshot) PersonIndex(id string) int {
	for i := range s.People {
		if s.People[i].ID == id {
			return i
		}
	}
	return -1
}

// TransactionIndex returns the index of the transaction with the given ID,
// or -1.
func (s Snapshot) TransactionIndex(id string) int {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}
