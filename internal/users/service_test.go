package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora-server/internal/apperr"
	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/store"
)

func TestRegisterType(t *testing.T) {
	st := store.NewMemoryStore()
	svc := New(st)
	ctx := context.Background()
	caller := models.Identity{ID: uuid.New(), Email: "u@example.com"}

	p, err := svc.RegisterType(ctx, caller, models.UserTypeProfessional, " Acme Events ")
	require.NoError(t, err)
	require.Equal(t, models.UserTypeProfessional, p.UserType)
	require.Equal(t, "Acme Events", p.CompanyName)

	// Re-registering switches the type in place.
	p, err = svc.RegisterType(ctx, caller, models.UserTypeRegular, "")
	require.NoError(t, err)
	require.Equal(t, models.UserTypeRegular, p.UserType)

	_, err = svc.RegisterType(ctx, caller, models.UserType("admin"), "")
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

// failingVendorStore errors on vendor profile creation only.
type failingVendorStore struct {
	*store.MemoryStore
}

func (f *failingVendorStore) CreateVendorProfile(context.Context, models.VendorProfile) error {
	return errors.New("vendor table unavailable")
}

func TestRegisterVendorProfileBestEffort(t *testing.T) {
	st := &failingVendorStore{MemoryStore: store.NewMemoryStore()}
	svc := New(st)
	caller := models.Identity{ID: uuid.New(), Email: "v@example.com"}

	// Vendor profile creation failing must not fail the registration.
	p, err := svc.RegisterType(context.Background(), caller, models.UserTypeVendor, "Cakes Inc")
	require.NoError(t, err)
	require.Equal(t, models.UserTypeVendor, p.UserType)
}
