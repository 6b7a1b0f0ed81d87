// internal/users/service.go
package users

import (
	"context"
	"log/slog"
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

// RegisterType records the caller's user type. Registering as a vendor also
// creates a vendor profile best-effort: a failure there is logged and does
// not roll back the registration.
func (s *Service) RegisterType(ctx context.Context, caller models.Identity, userType models.UserType, companyName string) (models.UserProfile, error) {
	switch userType {
	case models.UserTypeRegular, models.UserTypeProfessional, models.UserTypeVendor:
	default:
		return models.UserProfile{}, apperr.New(apperr.KindValidation, "user type must be regular, professional or vendor")
	}

	p, err := s.store.UpsertUserProfile(ctx, models.UserProfile{
		UserID:      caller.ID,
		UserType:    userType,
		CompanyName: strings.TrimSpace(companyName),
	})
	if err != nil {
		return models.UserProfile{}, apperr.Wrap(apperr.KindStorage, "failed to register user type", err)
	}

	if userType == models.UserTypeVendor {
		err := s.store.CreateVendorProfile(ctx, models.VendorProfile{
			ID:      uuid.New(),
			UserID:  caller.ID,
			Company: p.CompanyName,
		})
		if err != nil {
			slog.WarnContext(ctx, "vendor profile creation failed", "user_id", caller.ID.String(), "err", err)
		}
	}
	return p, nil
}
