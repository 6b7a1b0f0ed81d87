// internal/flags/service.go
package flags

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/apperr"
	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/store"
)

type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID) ([]models.FeatureFlag, error) {
	fs, err := s.store.ListFlags(ctx, accountID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list feature flags", err)
	}
	return fs, nil
}

// Set upserts a flag. Owner only: flags change product behavior for the
// whole account.
func (s *Service) Set(ctx context.Context, caller models.Identity, accountID uuid.UUID, key string, enabled bool) (models.FeatureFlag, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return models.FeatureFlag{}, apperr.New(apperr.KindValidation, "flag key is required")
	}

	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.FeatureFlag{}, apperr.New(apperr.KindNotFound, "account not found")
		}
		return models.FeatureFlag{}, apperr.Wrap(apperr.KindStorage, "failed to look up account", err)
	}
	if acct.OwnerUserID != caller.ID {
		return models.FeatureFlag{}, apperr.New(apperr.KindAuthorization, "only account owners can change feature flags")
	}

	f, err := s.store.UpsertFlag(ctx, accountID, key, enabled)
	if err != nil {
		return models.FeatureFlag{}, apperr.Wrap(apperr.KindStorage, "failed to update feature flag", err)
	}
	return f, nil
}
