// internal/models/types.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type MemberRole string

const (
	RoleOwner   MemberRole = "owner"
	RoleAdmin   MemberRole = "admin"
	RoleMember  MemberRole = "member"
	RolePlanner MemberRole = "planner"
)

type MemberStatus string

const (
	StatusPending MemberStatus = "pending"
	StatusActive  MemberStatus = "active"
)

type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingApproved BookingStatus = "approved"
	BookingRejected BookingStatus = "rejected"
)

type UserType string

const (
	UserTypeRegular      UserType = "regular"
	UserTypeProfessional UserType = "professional"
	UserTypeVendor       UserType = "vendor"
)

// Identity is the authenticated caller as resolved from the hosted auth
// provider's access token. It is passed explicitly into every service call;
// business logic never re-derives it from transport state.
type Identity struct {
	ID    uuid.UUID
	Email string
}

type Account struct {
	ID          uuid.UUID
	Name        string
	OwnerUserID uuid.UUID
	Currency    string
	CreatedAt   time.Time
}

// Membership is one account-person relationship. UserID stays nil while the
// invite is pending and the invited email has never authenticated.
type Membership struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	UserID       *uuid.UUID
	InvitedEmail string
	FirstName    string
	LastName     string
	Role         MemberRole
	IsOwner      bool
	Status       MemberStatus
	CreatedAt    time.Time
	AcceptedAt   *time.Time
}

type BookingLink struct {
	ID        uuid.UUID
	Token     string
	EventID   *uuid.UUID
	Title     string
	IsActive  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Booking struct {
	ID            uuid.UUID
	BookingLinkID *uuid.UUID
	EventID       *uuid.UUID
	VendorName    string
	VendorEmail   string
	VendorPhone   string
	ServiceType   string
	ProposedDate  string // YYYY-MM-DD
	ProposedTime  string // HH:MM
	Notes         string
	Status        BookingStatus
	Confirmation  string // display-only code, never used for lookup
	CreatedAt     time.Time
}

type FeatureFlag struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Key       string
	Enabled   bool
	UpdatedAt time.Time
}

type UserProfile struct {
	UserID      uuid.UUID
	UserType    UserType
	CompanyName string
	CreatedAt   time.Time
}

// VendorProfile is created best-effort when a user registers as a vendor.
type VendorProfile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Company   string
	CreatedAt time.Time
}

// Slot is one half-hour scheduler slot.
type Slot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}
