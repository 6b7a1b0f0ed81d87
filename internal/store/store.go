// internal/store/store.go
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/models"
)

// Sentinel errors for common storage conditions.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate row")
	ErrConflict  = errors.New("row not in expected state")
)

// Store defines the methods the rest of the app uses.
type Store interface {
	// Accounts
	CreateAccountWithOwner(ctx context.Context, acct models.Account, owner models.Membership) (models.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (models.Account, error)
	UpdateAccountCurrency(ctx context.Context, id uuid.UUID, currency string) (models.Account, error)

	// Memberships
	CreateMembership(ctx context.Context, m models.Membership) (models.Membership, error)
	GetMembership(ctx context.Context, id, accountID uuid.UUID) (models.Membership, error)
	GetMembershipByEmail(ctx context.Context, accountID uuid.UUID, email string) (models.Membership, error)
	GetMembershipByUser(ctx context.Context, accountID, userID uuid.UUID) (models.Membership, error)
	ListMemberships(ctx context.Context, accountID uuid.UUID) ([]models.Membership, error)
	// AcceptMembership flips a pending invite to active in a single
	// conditional update scoped by invite id, invited email and pending
	// status. ErrNotFound covers every miss uniformly.
	AcceptMembership(ctx context.Context, inviteID uuid.UUID, email string, userID uuid.UUID, at time.Time) (models.Membership, error)
	DeleteMembership(ctx context.Context, id, accountID uuid.UUID) error

	// Booking links & bookings
	CreateBookingLink(ctx context.Context, l models.BookingLink) (models.BookingLink, error)
	GetBookingLinkByToken(ctx context.Context, token string) (models.BookingLink, error)
	CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (models.Booking, error)
	// ResolveBooking transitions a pending booking to the given terminal
	// status. ErrConflict when the booking exists but is no longer pending.
	ResolveBooking(ctx context.Context, id uuid.UUID, status models.BookingStatus) (models.Booking, error)
	ListApprovedBookings(ctx context.Context, eventID uuid.UUID, fromDate, toDate string) ([]models.Booking, error)

	// Feature flags
	UpsertFlag(ctx context.Context, accountID uuid.UUID, key string, enabled bool) (models.FeatureFlag, error)
	ListFlags(ctx context.Context, accountID uuid.UUID) ([]models.FeatureFlag, error)

	// User profiles
	UpsertUserProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error)
	CreateVendorProfile(ctx context.Context, v models.VendorProfile) error
}
