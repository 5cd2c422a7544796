package models

import (
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/common"
)

// EntityKind enumerates the record types kept in the local store and
// synchronized with the backend.
type EntityKind uint8

const (
	KindAccount EntityKind = iota + 1
	KindIncomeSource
	KindCategory
	KindLoan
	KindTransaction
	KindCustomCurrency
	KindSettings
)

// Kinds lists every kind in dependency order: a kind never references a
// kind that comes after it.
var Kinds = []EntityKind{
	KindAccount,
	KindIncomeSource,
	KindCategory,
	KindLoan,
	KindTransaction,
	KindCustomCurrency,
	KindSettings,
}

var kindNames = map[EntityKind]string{
	KindAccount:        "accounts",
	KindIncomeSource:   "incomeSources",
	KindCategory:       "categories",
	KindLoan:           "loans",
	KindTransaction:    "transactions",
	KindCustomCurrency: "customCurrencies",
	KindSettings:       "settings",
}

// String returns the wire and storage name of the kind.
func (k EntityKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EntityKind(%d)", uint8(k))
}

func (k EntityKind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseEntityKind maps a wire name back to its kind.
func ParseEntityKind(s string) (EntityKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", common.ErrUnknownEntity, s)
}

// RefField names a relational field, i.e. a field holding the id of
// another record.
type RefField string

const (
	RefAccount      RefField = "accountId"
	RefToAccount    RefField = "toAccountId"
	RefCategory     RefField = "categoryId"
	RefIncomeSource RefField = "incomeSourceId"
	RefLoan         RefField = "loanId"
)

// RefFields lists every relational field.
var RefFields = []RefField{RefAccount, RefToAccount, RefCategory, RefIncomeSource, RefLoan}

// Target is the kind a relational field points at.
func (f RefField) Target() EntityKind {
	switch f {
	case RefAccount, RefToAccount:
		return KindAccount
	case RefCategory:
		return KindCategory
	case RefIncomeSource:
		return KindIncomeSource
	case RefLoan:
		return KindLoan
	}
	return 0
}

// RefFieldsTo returns the relational fields that point at kind k.
func RefFieldsTo(k EntityKind) []RefField {
	var out []RefField
	for _, f := range RefFields {
		if f.Target() == k {
			out = append(out, f)
		}
	}
	return out
}

// KindsWithRef returns the kinds that carry relational field f.
func KindsWithRef(f RefField) []EntityKind {
	var out []EntityKind
	for _, k := range Kinds {
		r, err := NewRecord(k)
		if err != nil {
			continue
		}
		if _, ok := r.Refs()[f]; ok {
			out = append(out, k)
		}
	}
	return out
}
