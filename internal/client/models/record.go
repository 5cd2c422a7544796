package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/common"
)

// Meta carries the fields every record shares.
type Meta struct {
	ID        ID        `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Meta) RecordID() ID { return m.ID }

func (m *Meta) SetRecordID(id ID) { m.ID = id }

// Stamp fills owner and creation time when missing and bumps UpdatedAt.
func (m *Meta) Stamp(userID string, now time.Time) {
	if m.UserID == "" {
		m.UserID = userID
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

func (m *Meta) Touch(now time.Time) { m.UpdatedAt = now }

// ResetOwner forgets the owning device, e.g. for records restored from a
// backup taken elsewhere.
func (m *Meta) ResetOwner() { m.UserID = "" }

func (m *Meta) LastUpdated() time.Time { return m.UpdatedAt }

// Record is implemented by pointers to every entity type.
type Record interface {
	Kind() EntityKind
	RecordID() ID
	SetRecordID(ID)
	Stamp(userID string, now time.Time)
	Touch(now time.Time)
	ResetOwner()
	LastUpdated() time.Time

	// Refs returns every relational field the kind carries, including
	// empty ones. Kinds without relational fields return nil.
	Refs() map[RefField]ID
	// SetRef assigns a relational field; fields the kind lacks are ignored.
	SetRef(f RefField, id ID)

	// SortKey orders rows of one kind in the local store.
	SortKey() string
}

// Patch is a partial update of one record. Nil fields are left untouched.
type Patch interface {
	Kind() EntityKind
	Apply(r Record) error

	// Refs returns the relational fields this patch assigns.
	Refs() map[RefField]ID
	// SetRef rewrites a relational field the patch already assigns.
	SetRef(f RefField, id ID)
}

// NewRecord returns an empty record of kind k.
func NewRecord(k EntityKind) (Record, error) {
	switch k {
	case KindAccount:
		return &Account{}, nil
	case KindIncomeSource:
		return &IncomeSource{}, nil
	case KindCategory:
		return &Category{}, nil
	case KindLoan:
		return &Loan{}, nil
	case KindTransaction:
		return &Transaction{}, nil
	case KindCustomCurrency:
		return &CustomCurrency{}, nil
	case KindSettings:
		return &Settings{}, nil
	}
	return nil, fmt.Errorf("new record: %w", unknownKind(k))
}

// NewPatch returns an empty patch for kind k.
func NewPatch(k EntityKind) (Patch, error) {
	switch k {
	case KindAccount:
		return &AccountPatch{}, nil
	case KindIncomeSource:
		return &IncomeSourcePatch{}, nil
	case KindCategory:
		return &CategoryPatch{}, nil
	case KindLoan:
		return &LoanPatch{}, nil
	case KindTransaction:
		return &TransactionPatch{}, nil
	case KindCustomCurrency:
		return &CustomCurrencyPatch{}, nil
	case KindSettings:
		return &SettingsPatch{}, nil
	}
	return nil, fmt.Errorf("new patch: %w", unknownKind(k))
}

func DecodeRecord(k EntityKind, data []byte) (Record, error) {
	r, err := NewRecord(k)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", k, err)
	}
	return r, nil
}

func DecodePatch(k EntityKind, data []byte) (Patch, error) {
	p, err := NewPatch(k)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decode %s patch: %w", k, err)
	}
	return p, nil
}

// CloneRecord deep-copies r.
func CloneRecord(r Record) (Record, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", r.Kind(), err)
	}
	return DecodeRecord(r.Kind(), b)
}

// FullPatch builds a patch that assigns every field of r, including zero
// values, so applying it overwrites whatever the other side holds. Nullable
// fields that are nil in r stay untouched.
func FullPatch(r Record) (Patch, error) {
	switch v := r.(type) {
	case *Account:
		return &AccountPatch{
			Name:                Ptr(v.Name),
			Type:                Ptr(v.Type),
			Currency:            Ptr(v.Currency),
			Balance:             Ptr(v.Balance),
			Color:               Ptr(v.Color),
			Icon:                Ptr(v.Icon),
			SortOrder:           Ptr(v.SortOrder),
			HiddenFromDashboard: Ptr(v.HiddenFromDashboard),
		}, nil
	case *IncomeSource:
		return &IncomeSourcePatch{
			Name:      Ptr(v.Name),
			Currency:  Ptr(v.Currency),
			Color:     Ptr(v.Color),
			Icon:      Ptr(v.Icon),
			SortOrder: Ptr(v.SortOrder),
			Hidden:    Ptr(v.Hidden),
		}, nil
	case *Category:
		return &CategoryPatch{
			Name:         Ptr(v.Name),
			Color:        Ptr(v.Color),
			Icon:         Ptr(v.Icon),
			CategoryType: Ptr(v.CategoryType),
			Budget:       clonePtr(v.Budget),
			BudgetPeriod: Ptr(v.BudgetPeriod),
			SortOrder:    Ptr(v.SortOrder),
			Hidden:       Ptr(v.Hidden),
		}, nil
	case *Loan:
		return &LoanPatch{
			Type:        Ptr(v.Type),
			PersonName:  Ptr(v.PersonName),
			Description: Ptr(v.Description),
			Amount:      Ptr(v.Amount),
			Currency:    Ptr(v.Currency),
			PaidAmount:  Ptr(v.PaidAmount),
			Status:      Ptr(v.Status),
			AccountID:   Ptr(v.AccountID),
			DueDate:     clonePtr(v.DueDate),
		}, nil
	case *Transaction:
		return &TransactionPatch{
			Type:               Ptr(v.Type),
			Amount:             Ptr(v.Amount),
			Currency:           Ptr(v.Currency),
			Date:               Ptr(v.Date),
			Comment:            Ptr(v.Comment),
			AccountID:          Ptr(v.AccountID),
			ToAccountID:        Ptr(v.ToAccountID),
			CategoryID:         Ptr(v.CategoryID),
			IncomeSourceID:     Ptr(v.IncomeSourceID),
			LoanID:             Ptr(v.LoanID),
			ToAmount:           clonePtr(v.ToAmount),
			MainCurrencyAmount: clonePtr(v.MainCurrencyAmount),
		}, nil
	case *CustomCurrency:
		return &CustomCurrencyPatch{
			Code:   Ptr(v.Code),
			Name:   Ptr(v.Name),
			Symbol: Ptr(v.Symbol),
		}, nil
	case *Settings:
		return &SettingsPatch{
			DefaultCurrency:      Ptr(v.DefaultCurrency),
			BlurFinancialFigures: Ptr(v.BlurFinancialFigures),
		}, nil
	default:
		return nil, unknownKind(r.Kind())
	}
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	return Ptr(*v)
}

// ProvisionalRefs returns the relational fields of refs that still hold a
// provisional id.
func ProvisionalRefs(refs map[RefField]ID) map[RefField]ID {
	var out map[RefField]ID
	for f, id := range refs {
		if id.IsProvisional() {
			if out == nil {
				out = make(map[RefField]ID)
			}
			out[f] = id
		}
	}
	return out
}

func mismatch(p Patch, r Record) error {
	return fmt.Errorf("cannot apply %s patch to %s record", p.Kind(), r.Kind())
}

func unknownKind(k EntityKind) error {
	return fmt.Errorf("%w: %d", common.ErrUnknownEntity, uint8(k))
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Ptr returns a pointer to v; handy for building patches.
func Ptr[T any](v T) *T { return &v }
