package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/client/services"
)

var kindAliases = map[string]models.EntityKind{
	"account":  models.KindAccount,
	"income":   models.KindIncomeSource,
	"category": models.KindCategory,
	"loan":     models.KindLoan,
	"tx":       models.KindTransaction,
	"currency": models.KindCustomCurrency,
	"settings": models.KindSettings,
}

func parseKind(s string) (models.EntityKind, error) {
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	return models.ParseEntityKind(s)
}

// Status prints connectivity and the last published sync state.
func (a *App) Status(ctx context.Context) error {
	st := a.syncer.State()
	pending, err := a.ledger.Pending(ctx)
	if err != nil {
		return a.fail(ctx, "status", err)
	}

	mode := "offline"
	if a.online() {
		mode = "online"
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Device:\t%s\n", a.deviceID)
	fmt.Fprintf(tw, "Mode:\t%s\n", mode)
	fmt.Fprintf(tw, "Sync:\t%s\n", st.Status)
	fmt.Fprintf(tw, "Pending:\t%d\n", pending)
	if st.LastSyncAt != nil {
		fmt.Fprintf(tw, "Last sync:\t%s\n", st.LastSyncAt.Local().Format(time.DateTime))
	}
	if st.Error != "" {
		fmt.Fprintf(tw, "Last error:\t%s\n", st.Error)
	}
	return tw.Flush()
}

// List prints every local row of a kind.
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: list <accounts|incomeSources|categories|loans|transactions|customCurrencies|settings>")
		return nil
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return a.fail(ctx, "list", err)
	}

	recs, err := a.ledger.List(ctx, kind)
	if err != nil {
		return a.fail(ctx, "list", err)
	}
	if kind == models.KindTransaction {
		// rows are stored oldest first
		for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
			recs[i], recs[j] = recs[j], recs[i]
		}
	}
	return printRecords(a.out, kind, recs)
}

// Recent prints the newest transactions, at most services.CacheLimit or the
// given count.
func (a *App) Recent(ctx context.Context, args []string) error {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			a.println("Usage: recent [count]")
			return nil
		}
		limit = min(n, services.CacheLimit)
	}

	txs, err := a.ledger.Transactions.Recent(ctx, limit)
	if err != nil {
		return a.fail(ctx, "recent", err)
	}
	recs := make([]models.Record, len(txs))
	for i, tx := range txs {
		recs[i] = tx
	}
	return printRecords(a.out, models.KindTransaction, recs)
}

func printRecords(w io.Writer, kind models.EntityKind, recs []models.Record) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No records")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header(kind), "\t"))
	for _, r := range recs {
		fmt.Fprintln(tw, strings.Join(row(r), "\t"))
	}
	return tw.Flush()
}

func header(kind models.EntityKind) []string {
	switch kind {
	case models.KindAccount:
		return []string{"ID", "NAME", "TYPE", "BALANCE", "CURRENCY"}
	case models.KindIncomeSource:
		return []string{"ID", "NAME", "CURRENCY"}
	case models.KindCategory:
		return []string{"ID", "NAME", "TYPE", "BUDGET"}
	case models.KindLoan:
		return []string{"ID", "TYPE", "PERSON", "AMOUNT", "PAID", "STATUS"}
	case models.KindTransaction:
		return []string{"ID", "DATE", "TYPE", "AMOUNT", "ACCOUNT", "COMMENT"}
	case models.KindCustomCurrency:
		return []string{"ID", "CODE", "NAME", "SYMBOL"}
	case models.KindSettings:
		return []string{"ID", "DEFAULT CURRENCY", "BLUR"}
	}
	return []string{"ID"}
}

func row(r models.Record) []string {
	id := r.RecordID().String()
	switch v := r.(type) {
	case *models.Account:
		return []string{id, v.Name, string(v.Type), v.Balance.String(), v.Currency}
	case *models.IncomeSource:
		return []string{id, v.Name, v.Currency}
	case *models.Category:
		budget := "-"
		if v.Budget != nil {
			budget = v.Budget.String() + " " + string(v.BudgetPeriod)
		}
		return []string{id, v.Name, string(v.CategoryType), budget}
	case *models.Loan:
		return []string{id, string(v.Type), v.PersonName, v.Amount.String() + " " + v.Currency, v.PaidAmount.String(), string(v.Status)}
	case *models.Transaction:
		return []string{id, v.Date.Local().Format(time.DateOnly), string(v.Type), v.Amount.String() + " " + v.Currency, v.AccountID.String(), v.Comment}
	case *models.CustomCurrency:
		return []string{id, v.Code, v.Name, v.Symbol}
	case *models.Settings:
		return []string{id, v.DefaultCurrency, strconv.FormatBool(v.BlurFinancialFigures)}
	}
	return []string{id}
}
