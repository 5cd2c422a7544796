package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanType string

const (
	LoanGiven    LoanType = "given"
	LoanReceived LoanType = "received"
)

type LoanStatus string

const (
	LoanActive        LoanStatus = "active"
	LoanPartiallyPaid LoanStatus = "partially_paid"
	LoanFullyPaid     LoanStatus = "fully_paid"
)

type Loan struct {
	Meta
	Type        LoanType        `json:"type"`
	PersonName  string          `json:"personName"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	Status      LoanStatus      `json:"status"`
	AccountID   ID              `json:"accountId,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
}

func (l *Loan) Kind() EntityKind { return KindLoan }
func (l *Loan) SortKey() string  { return SortTime(l.CreatedAt) }

func (l *Loan) Refs() map[RefField]ID {
	return map[RefField]ID{RefAccount: l.AccountID}
}

func (l *Loan) SetRef(f RefField, id ID) {
	if f == RefAccount {
		l.AccountID = id
	}
}

// RecordPayment adds amount to the paid sum. Overpayment is kept as is and
// leaves the loan fully paid.
func (l *Loan) RecordPayment(amount decimal.Decimal) {
	l.PaidAmount = l.PaidAmount.Add(amount)
	if l.PaidAmount.GreaterThanOrEqual(l.Amount) {
		l.Status = LoanFullyPaid
	} else {
		l.Status = LoanPartiallyPaid
	}
}

// ReversePayment subtracts amount from the paid sum, never going below zero.
func (l *Loan) ReversePayment(amount decimal.Decimal) {
	l.PaidAmount = decimal.Max(decimal.Zero, l.PaidAmount.Sub(amount))
	switch {
	case l.PaidAmount.GreaterThanOrEqual(l.Amount):
		l.Status = LoanFullyPaid
	case l.PaidAmount.IsPositive():
		l.Status = LoanPartiallyPaid
	default:
		l.Status = LoanActive
	}
}

// Active reports whether the loan still has an outstanding balance.
func (l *Loan) Active() bool {
	return l.Status == LoanActive || l.Status == LoanPartiallyPaid
}

type LoanPatch struct {
	Type        *LoanType        `json:"type,omitempty"`
	PersonName  *string          `json:"personName,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	PaidAmount  *decimal.Decimal `json:"paidAmount,omitempty"`
	Status      *LoanStatus      `json:"status,omitempty"`
	AccountID   *ID              `json:"accountId,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
}

func (p *LoanPatch) Kind() EntityKind { return KindLoan }

func (p *LoanPatch) Refs() map[RefField]ID {
	if p.AccountID == nil {
		return nil
	}
	return map[RefField]ID{RefAccount: *p.AccountID}
}

func (p *LoanPatch) SetRef(f RefField, id ID) {
	if f == RefAccount && p.AccountID != nil {
		p.AccountID = &id
	}
}

func (p *LoanPatch) Apply(r Record) error {
	l, ok := r.(*Loan)
	if !ok {
		return mismatch(p, r)
	}
	set(&l.Type, p.Type)
	set(&l.PersonName, p.PersonName)
	set(&l.Description, p.Description)
	set(&l.Amount, p.Amount)
	set(&l.Currency, p.Currency)
	set(&l.PaidAmount, p.PaidAmount)
	set(&l.Status, p.Status)
	set(&l.AccountID, p.AccountID)
	if p.DueDate != nil {
		d := *p.DueDate
		l.DueDate = &d
	}
	return nil
}
