package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/shopspring/decimal"
)

type deleter interface {
	Delete(ctx context.Context, id models.ID) error
}

func (a *App) repository(kind models.EntityKind) (deleter, error) {
	switch kind {
	case models.KindAccount:
		return a.ledger.Accounts, nil
	case models.KindIncomeSource:
		return a.ledger.IncomeSources, nil
	case models.KindCategory:
		return a.ledger.Categories, nil
	case models.KindLoan:
		return a.ledger.Loans, nil
	case models.KindTransaction:
		return a.ledger.Transactions, nil
	case models.KindCustomCurrency:
		return a.ledger.CustomCurrencies, nil
	case models.KindSettings:
		return a.ledger.Settings, nil
	}
	return nil, fmt.Errorf("%s: %w", kind, common.ErrUnknownEntity)
}

// Remove deletes one local record and queues the delete when the backend
// already knows it.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 2 {
		a.println("Usage: rm <kind> <id>")
		return nil
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return a.fail(ctx, "rm", err)
	}
	repo, err := a.repository(kind)
	if err != nil {
		return a.fail(ctx, "rm", err)
	}
	if err := repo.Delete(ctx, models.ID(args[1])); err != nil {
		return a.fail(ctx, "rm", err)
	}
	a.println("Deleted", kind, args[1])
	return nil
}

// Settings shows the settings row, or updates it when a field is given:
// settings currency <code> | settings blur <on|off>.
func (a *App) Settings(ctx context.Context, args []string) error {
	if len(args) == 0 {
		s, err := a.ledger.Settings.Get(ctx)
		if errors.Is(err, common.ErrNotFound) {
			a.println("No settings saved yet")
			return nil
		}
		if err != nil {
			return a.fail(ctx, "settings", err)
		}
		return printRecords(a.out, models.KindSettings, []models.Record{s})
	}

	if len(args) != 2 {
		a.println("Usage: settings [currency <code> | blur <on|off>]")
		return nil
	}

	patch := &models.SettingsPatch{}
	switch args[0] {
	case "currency":
		patch.DefaultCurrency = models.Ptr(args[1])
	case "blur":
		switch args[1] {
		case "on":
			patch.BlurFinancialFigures = models.Ptr(true)
		case "off":
			patch.BlurFinancialFigures = models.Ptr(false)
		default:
			a.println("Usage: settings blur <on|off>")
			return nil
		}
	default:
		a.println("Unknown setting:", args[0])
		return nil
	}

	if _, err := a.ledger.Settings.Save(ctx, patch); err != nil {
		return a.fail(ctx, "settings", err)
	}
	a.println("Settings saved")
	return nil
}

// Pay records a payment against a loan: pay <loan id> <amount>.
func (a *App) Pay(ctx context.Context, args []string) error {
	return a.loanPayment(ctx, "pay", args, a.ledger.Loans.RecordPayment)
}

// Unpay reverses a payment: unpay <loan id> <amount>.
func (a *App) Unpay(ctx context.Context, args []string) error {
	return a.loanPayment(ctx, "unpay", args, a.ledger.Loans.ReversePayment)
}

func (a *App) loanPayment(ctx context.Context, cmd string, args []string,
	apply func(context.Context, models.ID, decimal.Decimal) error) error {

	if len(args) != 2 {
		a.printf("Usage: %s <loan id> <amount>\n", cmd)
		return nil
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil || !amount.IsPositive() {
		a.println("Amount must be a positive number")
		return nil
	}

	id := models.ID(args[0])
	if err := apply(ctx, id, amount); err != nil {
		return a.fail(ctx, cmd, err)
	}

	loan, err := a.ledger.Loans.GetByID(ctx, id)
	if err != nil {
		return a.fail(ctx, cmd, err)
	}
	a.printf("Loan %s: paid %s of %s (%s)\n", id, loan.PaidAmount, loan.Amount, loan.Status)
	return nil
}
