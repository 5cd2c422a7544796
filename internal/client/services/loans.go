package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

type Loans struct {
	*Repository[*models.Loan]
}

// GetActive returns loans that still have an outstanding balance.
func (l *Loans) GetActive(ctx context.Context) ([]*models.Loan, error) {
	all, err := l.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, (*models.Loan).Active), nil
}

func (l *Loans) GetByType(ctx context.Context, t models.LoanType) ([]*models.Loan, error) {
	all, err := l.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(loan *models.Loan) bool { return loan.Type == t }), nil
}

// RecordPayment adds amount to the paid sum and recomputes the status.
func (l *Loans) RecordPayment(ctx context.Context, id models.ID, amount decimal.Decimal) error {
	return l.applyPayment(ctx, id, func(loan *models.Loan) { loan.RecordPayment(amount) })
}

// ReversePayment undoes a payment, e.g. when its transaction is deleted.
func (l *Loans) ReversePayment(ctx context.Context, id models.ID, amount decimal.Decimal) error {
	return l.applyPayment(ctx, id, func(loan *models.Loan) { loan.ReversePayment(amount) })
}

func (l *Loans) applyPayment(ctx context.Context, id models.ID, fn func(*models.Loan)) error {
	loan, err := l.GetByID(ctx, id)
	if err != nil {
		return err
	}
	fn(loan)
	return l.Update(ctx, id, &models.LoanPatch{PaidAmount: &loan.PaidAmount, Status: &loan.Status})
}
