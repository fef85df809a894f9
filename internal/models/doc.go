// Package models defines the core domain models for the gift ledger.
//
// # Models
//
//   - Person: one entry per distinct contact, with running gift totals
//     and a signed net balance
//   - Transaction: one entry per recorded gift event (given or received)
//   - TransactionDraft: a transaction payload before ID and creation
//     timestamp assignment, consumed only by the add path
//   - Snapshot: the aggregate root, the full ledger state at one point
//     in time and the unit of persistence
//
// # Design Principles
//
//  1. **Plain data**: models carry no behavior beyond small read-only
//     helpers; all bookkeeping lives in the ledger engine
//  2. **Avoid circular references**: transactions reference people by ID
//     string, never by pointer
//  3. **Historical record**: Transaction.PersonName is a denormalized
//     copy taken at recording time; renaming a person later does not
//     rewrite past transactions
//  4. **Exact money**: amounts and totals use decimal values, never
//     binary floats
package models
