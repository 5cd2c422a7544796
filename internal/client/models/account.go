package models

import "github.com/shopspring/decimal"

type AccountType string

const (
	AccountCash       AccountType = "cash"
	AccountBank       AccountType = "bank"
	AccountCrypto     AccountType = "crypto"
	AccountCreditCard AccountType = "credit_card"
)

type Account struct {
	Meta
	Name                string          `json:"name"`
	Type                AccountType     `json:"type"`
	Currency            string          `json:"currency"`
	Balance             decimal.Decimal `json:"balance"`
	Color               string          `json:"color,omitempty"`
	Icon                string          `json:"icon,omitempty"`
	SortOrder           int             `json:"sortOrder"`
	HiddenFromDashboard bool            `json:"hiddenFromDashboard,omitempty"`
}

func (a *Account) Kind() EntityKind         { return KindAccount }
func (a *Account) Refs() map[RefField]ID    { return nil }
func (a *Account) SetRef(f RefField, id ID) {}
func (a *Account) SortKey() string          { return a.Name }

type AccountPatch struct {
	Name                *string          `json:"name,omitempty"`
	Type                *AccountType     `json:"type,omitempty"`
	Currency            *string          `json:"currency,omitempty"`
	Balance             *decimal.Decimal `json:"balance,omitempty"`
	Color               *string          `json:"color,omitempty"`
	Icon                *string          `json:"icon,omitempty"`
	SortOrder           *int             `json:"sortOrder,omitempty"`
	HiddenFromDashboard *bool            `json:"hiddenFromDashboard,omitempty"`
}

func (p *AccountPatch) Kind() EntityKind         { return KindAccount }
func (p *AccountPatch) Refs() map[RefField]ID    { return nil }
func (p *AccountPatch) SetRef(f RefField, id ID) {}

func (p *AccountPatch) Apply(r Record) error {
	a, ok := r.(*Account)
	if !ok {
		return mismatch(p, r)
	}
	set(&a.Name, p.Name)
	set(&a.Type, p.Type)
	set(&a.Currency, p.Currency)
	set(&a.Balance, p.Balance)
	set(&a.Color, p.Color)
	set(&a.Icon, p.Icon)
	set(&a.SortOrder, p.SortOrder)
	set(&a.HiddenFromDashboard, p.HiddenFromDashboard)
	return nil
}
