package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxIncome       TransactionType = "income"
	TxExpense      TransactionType = "expense"
	TxTransfer     TransactionType = "transfer"
	TxLoanGiven    TransactionType = "loan_given"
	TxLoanReceived TransactionType = "loan_received"
	TxLoanPayment  TransactionType = "loan_payment"
)

// TimeLayout is fixed-width so formatted instants compare lexically in
// time order. The local store uses it for sort keys and queue timestamps.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// SortTime formats t with TimeLayout in UTC.
func SortTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type Transaction struct {
	Meta
	Type               TransactionType  `json:"type"`
	Amount             decimal.Decimal  `json:"amount"`
	Currency           string           `json:"currency"`
	Date               time.Time        `json:"date"`
	Comment            string           `json:"comment,omitempty"`
	AccountID          ID               `json:"accountId,omitempty"`
	ToAccountID        ID               `json:"toAccountId,omitempty"`
	CategoryID         ID               `json:"categoryId,omitempty"`
	IncomeSourceID     ID               `json:"incomeSourceId,omitempty"`
	LoanID             ID               `json:"loanId,omitempty"`
	ToAmount           *decimal.Decimal `json:"toAmount,omitempty"`
	MainCurrencyAmount *decimal.Decimal `json:"mainCurrencyAmount,omitempty"`
}

func (t *Transaction) Kind() EntityKind { return KindTransaction }
func (t *Transaction) SortKey() string  { return SortTime(t.Date) }

func (t *Transaction) Refs() map[RefField]ID {
	return map[RefField]ID{
		RefAccount:      t.AccountID,
		RefToAccount:    t.ToAccountID,
		RefCategory:     t.CategoryID,
		RefIncomeSource: t.IncomeSourceID,
		RefLoan:         t.LoanID,
	}
}

func (t *Transaction) SetRef(f RefField, id ID) {
	switch f {
	case RefAccount:
		t.AccountID = id
	case RefToAccount:
		t.ToAccountID = id
	case RefCategory:
		t.CategoryID = id
	case RefIncomeSource:
		t.IncomeSourceID = id
	case RefLoan:
		t.LoanID = id
	}
}

type TransactionPatch struct {
	Type               *TransactionType `json:"type,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Currency           *string          `json:"currency,omitempty"`
	Date               *time.Time       `json:"date,omitempty"`
	Comment            *string          `json:"comment,omitempty"`
	AccountID          *ID              `json:"accountId,omitempty"`
	ToAccountID        *ID              `json:"toAccountId,omitempty"`
	CategoryID         *ID              `json:"categoryId,omitempty"`
	IncomeSourceID     *ID              `json:"incomeSourceId,omitempty"`
	LoanID             *ID              `json:"loanId,omitempty"`
	ToAmount           *decimal.Decimal `json:"toAmount,omitempty"`
	MainCurrencyAmount *decimal.Decimal `json:"mainCurrencyAmount,omitempty"`
}

func (p *TransactionPatch) Kind() EntityKind { return KindTransaction }

func (p *TransactionPatch) refPtrs() map[RefField]**ID {
	return map[RefField]**ID{
		RefAccount:      &p.AccountID,
		RefToAccount:    &p.ToAccountID,
		RefCategory:     &p.CategoryID,
		RefIncomeSource: &p.IncomeSourceID,
		RefLoan:         &p.LoanID,
	}
}

func (p *TransactionPatch) Refs() map[RefField]ID {
	var out map[RefField]ID
	for f, ptr := range p.refPtrs() {
		if *ptr != nil {
			if out == nil {
				out = make(map[RefField]ID)
			}
			out[f] = **ptr
		}
	}
	return out
}

func (p *TransactionPatch) SetRef(f RefField, id ID) {
	if ptr, ok := p.refPtrs()[f]; ok && *ptr != nil {
		*ptr = &id
	}
}

func (p *TransactionPatch) Apply(r Record) error {
	t, ok := r.(*Transaction)
	if !ok {
		return mismatch(p, r)
	}
	set(&t.Type, p.Type)
	set(&t.Amount, p.Amount)
	set(&t.Currency, p.Currency)
	set(&t.Date, p.Date)
	set(&t.Comment, p.Comment)
	set(&t.AccountID, p.AccountID)
	set(&t.ToAccountID, p.ToAccountID)
	set(&t.CategoryID, p.CategoryID)
	set(&t.IncomeSourceID, p.IncomeSourceID)
	set(&t.LoanID, p.LoanID)
	if p.ToAmount != nil {
		v := *p.ToAmount
		t.ToAmount = &v
	}
	if p.MainCurrencyAmount != nil {
		v := *p.MainCurrencyAmount
		t.MainCurrencyAmount = &v
	}
	return nil
}
