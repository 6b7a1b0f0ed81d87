// internal/account/service.go
package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/apperr"
	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/store"
)

// defaultFlags are seeded for every new account. Seeding is best-effort:
// a failure is logged and the account creation stands.
var defaultFlags = map[string]bool{
	"scheduler":      true,
	"vendor_portal":  true,
	"team_invites":   true,
	"beta_analytics": false,
}

type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

type CreateRequest struct {
	Name     string
	Currency string
}

// Create makes a new account with the caller as its sole owner. The owner's
// membership row (is_owner=true, active) is written in the same transaction
// as the account; this is the only path that ever sets the owner bit.
func (s *Service) Create(ctx context.Context, caller models.Identity, req CreateRequest) (models.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Account{}, apperr.New(apperr.KindValidation, "account name is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return models.Account{}, apperr.New(apperr.KindValidation, "currency must be a 3-letter code")
	}

	ownerID := caller.ID
	acct, err := s.store.CreateAccountWithOwner(ctx,
		models.Account{
			ID:          uuid.New(),
			Name:        name,
			OwnerUserID: ownerID,
			Currency:    currency,
			CreatedAt:   time.Now(),
		},
		models.Membership{
			ID:           uuid.New(),
			UserID:       &ownerID,
			InvitedEmail: strings.ToLower(caller.Email),
			Role:         models.RoleOwner,
			IsOwner:      true,
			Status:       models.StatusActive,
		})
	if err != nil {
		return models.Account{}, apperr.Wrap(apperr.KindStorage, "failed to create account", err)
	}

	for key, enabled := range defaultFlags {
		if _, err := s.store.UpsertFlag(ctx, acct.ID, key, enabled); err != nil {
			slog.WarnContext(ctx, "default flag seeding failed", "account_id", acct.ID.String(), "key", key, "err", err)
		}
	}
	return acct, nil
}

// UpdateCurrency changes the account's currency. Owner only, with the same
// two-way ownership check as member removal.
func (s *Service) UpdateCurrency(ctx context.Context, caller models.Identity, accountID uuid.UUID, currency string) (models.Account, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return models.Account{}, apperr.New(apperr.KindValidation, "currency must be a 3-letter code")
	}

	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Account{}, apperr.New(apperr.KindNotFound, "account not found")
		}
		return models.Account{}, apperr.Wrap(apperr.KindStorage, "failed to look up account", err)
	}

	row, err := s.store.GetMembershipByUser(ctx, accountID, caller.ID)
	if err != nil {
		return models.Account{}, apperr.New(apperr.KindAuthorization, "not a member of this account")
	}
	if acct.OwnerUserID != caller.ID || !row.IsOwner {
		return models.Account{}, apperr.New(apperr.KindAuthorization, "only account owners can change the currency")
	}

	out, err := s.store.UpdateAccountCurrency(ctx, accountID, currency)
	if err != nil {
		return models.Account{}, apperr.Wrap(apperr.KindStorage, "failed to update currency", err)
	}
	return out, nil
}
