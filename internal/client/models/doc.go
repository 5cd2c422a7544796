// Package models defines the client-side ledger records and the bookkeeping
// types of the sync queue.
//
// Every record type (Account, IncomeSource, Category, Loan, Transaction,
// CustomCurrency, Settings) implements Record through a pointer receiver and
// has a matching Patch type with pointer fields for partial updates. The
// EntityKind enum drives all dispatch: NewRecord and NewPatch are the only
// places that map a kind to a concrete type.
//
// Relational fields (Transaction.AccountID and friends, Loan.AccountID) are
// exposed uniformly through Refs/SetRef so the sync engine can resolve and
// remap them without knowing the concrete type.
package models
