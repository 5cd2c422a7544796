package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/shopspring/decimal"
)

// Add prompts for a new record of the given kind and stores it locally.
// The printed id is provisional until the next successful sync.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: add <account|income|category|tx|loan|currency>")
		return nil
	}

	var (
		id  models.ID
		err error
	)
	switch args[0] {
	case "account":
		id, err = a.addAccount(ctx)
	case "income":
		id, err = a.addIncomeSource(ctx)
	case "category":
		id, err = a.addCategory(ctx)
	case "tx":
		id, err = a.addTransaction(ctx)
	case "loan":
		id, err = a.addLoan(ctx)
	case "currency":
		id, err = a.addCurrency(ctx)
	default:
		a.println("Unknown record type:", args[0])
		return nil
	}
	if err != nil {
		return a.fail(ctx, "add "+args[0], err)
	}

	a.println("Saved with id", id)
	return nil
}

func (a *App) addAccount(ctx context.Context) (models.ID, error) {
	name, err := GetRequiredText(a.reader, "Account name", a.out)
	if err != nil {
		return "", err
	}
	typ, err := GetChoice(a.reader, "Account type", []string{
		string(models.AccountCash), string(models.AccountBank), string(models.AccountCrypto), string(models.AccountCreditCard),
	}, string(models.AccountCash), a.out)
	if err != nil {
		return "", err
	}
	currency, err := GetRequiredText(a.reader, "Currency", a.out)
	if err != nil {
		return "", err
	}
	balance, err := GetDecimal(a.reader, "Opening balance", &decimal.Zero, a.out)
	if err != nil {
		return "", err
	}

	return a.ledger.Accounts.Create(ctx, &models.Account{
		Name:     name,
		Type:     models.AccountType(typ),
		Currency: currency,
		Balance:  balance,
	})
}

func (a *App) addIncomeSource(ctx context.Context) (models.ID, error) {
	name, err := GetRequiredText(a.reader, "Income source name", a.out)
	if err != nil {
		return "", err
	}
	currency, err := GetRequiredText(a.reader, "Currency", a.out)
	if err != nil {
		return "", err
	}
	return a.ledger.IncomeSources.Create(ctx, &models.IncomeSource{Name: name, Currency: currency})
}

func (a *App) addCategory(ctx context.Context) (models.ID, error) {
	name, err := GetRequiredText(a.reader, "Category name", a.out)
	if err != nil {
		return "", err
	}
	typ, err := GetChoice(a.reader, "Category type", []string{
		string(models.CategoryExpense), string(models.CategoryLoan),
	}, string(models.CategoryExpense), a.out)
	if err != nil {
		return "", err
	}
	c := &models.Category{Name: name, CategoryType: models.CategoryType(typ)}

	budget, err := GetSimpleText(a.reader, "Monthly budget (empty for none)", a.out)
	if err != nil {
		return "", err
	}
	if budget != "" {
		b, err := decimal.NewFromString(budget)
		if err != nil {
			return "", err
		}
		c.Budget = &b
		c.BudgetPeriod = models.BudgetMonthly
	}
	return a.ledger.Categories.Create(ctx, c)
}

func (a *App) addTransaction(ctx context.Context) (models.ID, error) {
	typ, err := GetChoice(a.reader, "Transaction type", []string{
		string(models.TxExpense), string(models.TxIncome), string(models.TxTransfer),
	}, string(models.TxExpense), a.out)
	if err != nil {
		return "", err
	}
	amount, err := GetDecimal(a.reader, "Amount", nil, a.out)
	if err != nil {
		return "", err
	}
	currency, err := GetRequiredText(a.reader, "Currency", a.out)
	if err != nil {
		return "", err
	}
	account, err := GetRequiredText(a.reader, "Account id", a.out)
	if err != nil {
		return "", err
	}

	tx := &models.Transaction{
		Type:      models.TransactionType(typ),
		Amount:    amount,
		Currency:  currency,
		Date:      a.clock.Now(),
		AccountID: models.ID(account),
	}

	switch tx.Type {
	case models.TxTransfer:
		to, err := GetRequiredText(a.reader, "Destination account id", a.out)
		if err != nil {
			return "", err
		}
		tx.ToAccountID = models.ID(to)
	case models.TxIncome:
		src, err := GetSimpleText(a.reader, "Income source id (optional)", a.out)
		if err != nil {
			return "", err
		}
		tx.IncomeSourceID = models.ID(src)
	default:
		cat, err := GetSimpleText(a.reader, "Category id (optional)", a.out)
		if err != nil {
			return "", err
		}
		tx.CategoryID = models.ID(cat)
	}

	if tx.Comment, err = GetSimpleText(a.reader, "Comment (optional)", a.out); err != nil {
		return "", err
	}
	if tx.Date, err = a.getDate("Date YYYY-MM-DD (empty for today)"); err != nil {
		return "", err
	}
	return a.ledger.Transactions.Create(ctx, tx)
}

func (a *App) addLoan(ctx context.Context) (models.ID, error) {
	typ, err := GetChoice(a.reader, "Loan type", []string{
		string(models.LoanGiven), string(models.LoanReceived),
	}, "", a.out)
	if err != nil {
		return "", err
	}
	person, err := GetRequiredText(a.reader, "Person", a.out)
	if err != nil {
		return "", err
	}
	amount, err := GetDecimal(a.reader, "Amount", nil, a.out)
	if err != nil {
		return "", err
	}
	currency, err := GetRequiredText(a.reader, "Currency", a.out)
	if err != nil {
		return "", err
	}
	account, err := GetSimpleText(a.reader, "Account id (optional)", a.out)
	if err != nil {
		return "", err
	}

	return a.ledger.Loans.Create(ctx, &models.Loan{
		Type:       models.LoanType(typ),
		PersonName: person,
		Amount:     amount,
		Currency:   currency,
		PaidAmount: decimal.Zero,
		Status:     models.LoanActive,
		AccountID:  models.ID(account),
	})
}

func (a *App) addCurrency(ctx context.Context) (models.ID, error) {
	code, err := GetRequiredText(a.reader, "Currency code", a.out)
	if err != nil {
		return "", err
	}
	name, err := GetRequiredText(a.reader, "Currency name", a.out)
	if err != nil {
		return "", err
	}
	symbol, err := GetSimpleText(a.reader, "Symbol", a.out)
	if err != nil {
		return "", err
	}
	return a.ledger.CustomCurrencies.Create(ctx, &models.CustomCurrency{Code: code, Name: name, Symbol: symbol})
}

func (a *App) getDate(prompt string) (time.Time, error) {
	s, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return time.Time{}, err
	}
	now := a.clock.Now()
	if s == "" {
		return now, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}
