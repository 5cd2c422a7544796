// Package services contains server-side business logic. LedgerService owns
// device sessions and the generic record operations used by the sync engine.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/server/auth"
	"github.com/dmitrijs2005/fintrack/internal/server/config"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/records"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/repomanager"
)

type LedgerService struct {
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

// NewLedgerService constructs a LedgerService using repositories and server config.
func NewLedgerService(m repomanager.RepositoryManager, cfg *config.Config) *LedgerService {
	return &LedgerService{
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// Login issues an access token for a device. The device id becomes the owner
// of every record written with that token.
func (s *LedgerService) Login(_ context.Context, deviceID string) (string, time.Time, error) {
	if deviceID == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty device id", common.ErrInvalidPayload)
	}
	return auth.GenerateToken(deviceID, s.jwtSecret, s.accessTokenValidityDuration)
}

// Create stores a record and returns its stored form with the server id.
// Settings are a per-user singleton: a second create merges into the
// existing row.
func (s *LedgerService) Create(ctx context.Context, userID, kind string, payload []byte) (json.RawMessage, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	body, err := models.DecodeBody(payload)
	if err != nil {
		return nil, err
	}

	var rec *models.Record
	err = s.repomanager.InTx(ctx, func(ctx context.Context, repo records.Repository) error {
		rec, err = s.create(ctx, repo, userID, kind, body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

func (s *LedgerService) create(ctx context.Context, repo records.Repository, userID, kind string, body map[string]any) (*models.Record, error) {
	now := s.now().UTC()

	if kind == models.KindSettings {
		existing, err := repo.List(ctx, userID, kind)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			rec := existing[0]
			rec.Merge(body)
			rec.UpdatedAt = now
			if err := repo.Update(ctx, rec); err != nil {
				return nil, err
			}
			return rec, nil
		}
	}

	return repo.Create(ctx, &models.Record{
		UserID:    userID,
		Kind:      kind,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Update merges patch into an existing record.
func (s *LedgerService) Update(ctx context.Context, userID, kind, id string, patch []byte) (json.RawMessage, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	numID, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	fields, err := models.DecodeBody(patch)
	if err != nil {
		return nil, err
	}

	var rec *models.Record
	err = s.repomanager.InTx(ctx, func(ctx context.Context, repo records.Repository) error {
		rec, err = repo.Get(ctx, userID, kind, numID)
		if err != nil {
			return err
		}
		rec.Merge(fields)
		rec.UpdatedAt = s.now().UTC()
		return repo.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

// Delete removes a record. Missing records yield common.ErrNotFound.
func (s *LedgerService) Delete(ctx context.Context, userID, kind, id string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	numID, err := models.ParseID(id)
	if err != nil {
		return err
	}
	return s.repomanager.Records().Delete(ctx, userID, kind, numID)
}

// List returns every record of a kind owned by the user.
func (s *LedgerService) List(ctx context.Context, userID, kind string) ([]json.RawMessage, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	recs, err := s.repomanager.Records().List(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	return marshalAll(recs)
}

// BulkCreate stores all payloads or none. Results are in request order.
func (s *LedgerService) BulkCreate(ctx context.Context, userID, kind string, payloads []json.RawMessage) ([]json.RawMessage, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	bodies := make([]map[string]any, len(payloads))
	for i, p := range payloads {
		b, err := models.DecodeBody(p)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		bodies[i] = b
	}

	recs := make([]*models.Record, 0, len(bodies))
	err := s.repomanager.InTx(ctx, func(ctx context.Context, repo records.Repository) error {
		for _, b := range bodies {
			rec, err := s.create(ctx, repo, userID, kind, b)
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return marshalAll(recs)
}

func checkKind(kind string) error {
	if !models.ValidKind(kind) {
		return fmt.Errorf("%q: %w", kind, common.ErrUnknownEntity)
	}
	return nil
}

func marshalAll(recs []*models.Record) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(recs))
	for i, r := range recs {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		out[i] = data
	}
	return out, nil
}
