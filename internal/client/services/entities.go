package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

type Accounts struct {
	*Repository[*models.Account]
}

// UpdateBalance sets the balance of an account.
func (a *Accounts) UpdateBalance(ctx context.Context, id models.ID, balance decimal.Decimal) error {
	return a.Update(ctx, id, &models.AccountPatch{Balance: &balance})
}

// Visible returns accounts shown on the dashboard.
func (a *Accounts) Visible(ctx context.Context) ([]*models.Account, error) {
	all, err := a.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(acc *models.Account) bool { return !acc.HiddenFromDashboard }), nil
}

type IncomeSources struct {
	*Repository[*models.IncomeSource]
}

type Categories struct {
	*Repository[*models.Category]
}

func (c *Categories) ByType(ctx context.Context, t models.CategoryType) ([]*models.Category, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(cat *models.Category) bool { return cat.CategoryType == t }), nil
}

type CustomCurrencies struct {
	*Repository[*models.CustomCurrency]
}
