package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/common"
)

// Settings holds the single settings row of the user.
type Settings struct {
	*Repository[*models.Settings]
}

// Get returns the settings row or common.ErrNotFound when none exists yet.
func (s *Settings) Get(ctx context.Context) (*models.Settings, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, common.ErrNotFound
	}
	return all[0], nil
}

// Save applies patch to the settings row, creating the row on first use.
func (s *Settings) Save(ctx context.Context, patch *models.SettingsPatch) (models.ID, error) {
	cur, err := s.Get(ctx)
	if errors.Is(err, common.ErrNotFound) {
		rec := &models.Settings{}
		if err := patch.Apply(rec); err != nil {
			return "", err
		}
		return s.Create(ctx, rec)
	}
	if err != nil {
		return "", err
	}
	return cur.ID, s.Update(ctx, cur.ID, patch)
}
