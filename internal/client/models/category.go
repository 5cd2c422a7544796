package models

import "github.com/shopspring/decimal"

type CategoryType string

const (
	CategoryExpense CategoryType = "expense"
	CategoryLoan    CategoryType = "loan"
)

type BudgetPeriod string

const (
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetWeekly  BudgetPeriod = "weekly"
	BudgetYearly  BudgetPeriod = "yearly"
)

type Category struct {
	Meta
	Name         string           `json:"name"`
	Color        string           `json:"color,omitempty"`
	Icon         string           `json:"icon,omitempty"`
	CategoryType CategoryType     `json:"categoryType,omitempty"`
	Budget       *decimal.Decimal `json:"budget,omitempty"`
	BudgetPeriod BudgetPeriod     `json:"budgetPeriod,omitempty"`
	SortOrder    int              `json:"sortOrder"`
	Hidden       bool             `json:"hidden,omitempty"`
}

func (c *Category) Kind() EntityKind         { return KindCategory }
func (c *Category) Refs() map[RefField]ID    { return nil }
func (c *Category) SetRef(f RefField, id ID) {}
func (c *Category) SortKey() string          { return c.Name }

type CategoryPatch struct {
	Name         *string          `json:"name,omitempty"`
	Color        *string          `json:"color,omitempty"`
	Icon         *string          `json:"icon,omitempty"`
	CategoryType *CategoryType    `json:"categoryType,omitempty"`
	Budget       *decimal.Decimal `json:"budget,omitempty"`
	BudgetPeriod *BudgetPeriod    `json:"budgetPeriod,omitempty"`
	SortOrder    *int             `json:"sortOrder,omitempty"`
	Hidden       *bool            `json:"hidden,omitempty"`
}

func (p *CategoryPatch) Kind() EntityKind         { return KindCategory }
func (p *CategoryPatch) Refs() map[RefField]ID    { return nil }
func (p *CategoryPatch) SetRef(f RefField, id ID) {}

func (p *CategoryPatch) Apply(r Record) error {
	c, ok := r.(*Category)
	if !ok {
		return mismatch(p, r)
	}
	set(&c.Name, p.Name)
	set(&c.Color, p.Color)
	set(&c.Icon, p.Icon)
	set(&c.CategoryType, p.CategoryType)
	if p.Budget != nil {
		b := *p.Budget
		c.Budget = &b
	}
	set(&c.BudgetPeriod, p.BudgetPeriod)
	set(&c.SortOrder, p.SortOrder)
	set(&c.Hidden, p.Hidden)
	return nil
}
