package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/cryptox"
)

const Version = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported backup version")
	ErrPassphraseRequired = errors.New("backup is sealed, passphrase required")
)

// Snapshot is the v1 backup document.
type Snapshot struct {
	Version          int                      `json:"version"`
	ExportedAt       time.Time                `json:"exportedAt"`
	Accounts         []*models.Account        `json:"accounts"`
	IncomeSources    []*models.IncomeSource   `json:"incomeSources"`
	Categories       []*models.Category       `json:"categories"`
	Loans            []*models.Loan           `json:"loans"`
	Transactions     []*models.Transaction    `json:"transactions"`
	CustomCurrencies []*models.CustomCurrency `json:"customCurrencies"`
}

// Source is the read side of the local store.
type Source interface {
	List(ctx context.Context, kind models.EntityKind) ([]models.Record, error)
}

// Export collects every exported kind from src.
func Export(ctx context.Context, src Source, now time.Time) (*Snapshot, error) {
	s := &Snapshot{Version: Version, ExportedAt: now.UTC()}

	var err error
	if s.Accounts, err = list[*models.Account](ctx, src, models.KindAccount); err != nil {
		return nil, err
	}
	if s.IncomeSources, err = list[*models.IncomeSource](ctx, src, models.KindIncomeSource); err != nil {
		return nil, err
	}
	if s.Categories, err = list[*models.Category](ctx, src, models.KindCategory); err != nil {
		return nil, err
	}
	if s.Loans, err = list[*models.Loan](ctx, src, models.KindLoan); err != nil {
		return nil, err
	}
	if s.Transactions, err = list[*models.Transaction](ctx, src, models.KindTransaction); err != nil {
		return nil, err
	}
	if s.CustomCurrencies, err = list[*models.CustomCurrency](ctx, src, models.KindCustomCurrency); err != nil {
		return nil, err
	}
	return s, nil
}

func list[T models.Record](ctx context.Context, src Source, kind models.EntityKind) ([]T, error) {
	recs, err := src.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", kind, err)
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		v, ok := r.(T)
		if !ok {
			return nil, fmt.Errorf("export %s: unexpected %T", kind, r)
		}
		out = append(out, v)
	}
	return out, nil
}

// Records returns the snapshot content in dependency order.
func (s *Snapshot) Records() []models.Record {
	var out []models.Record
	out = appendAll(out, s.Accounts)
	out = appendAll(out, s.IncomeSources)
	out = appendAll(out, s.Categories)
	out = appendAll(out, s.Loans)
	out = appendAll(out, s.Transactions)
	out = appendAll(out, s.CustomCurrencies)
	return out
}

func appendAll[T models.Record](dst []models.Record, src []T) []models.Record {
	for _, r := range src {
		dst = append(dst, r)
	}
	return dst
}

// Encode serializes the snapshot, sealing it when passphrase is not empty.
func Encode(s *Snapshot, passphrase string) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if passphrase == "" {
		return data, nil
	}
	return cryptox.Seal(data, []byte(passphrase))
}

// Decode parses a snapshot, opening it first if it is sealed.
func Decode(data []byte, passphrase string) (*Snapshot, error) {
	if cryptox.IsSealed(data) {
		if passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		var err error
		if data, err = cryptox.Open(data, []byte(passphrase)); err != nil {
			return nil, err
		}
	}

	s := &Snapshot{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	return s, nil
}
