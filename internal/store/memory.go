// internal/store/memory.go
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/models"
)

// MemoryStore is an in-memory implementation of Store for development and
// testing. It enforces the same uniqueness rules as the Postgres schema so
// service tests exercise the real conflict paths.
type MemoryStore struct {
	mu          sync.RWMutex
	accounts    map[uuid.UUID]models.Account
	memberships map[uuid.UUID]models.Membership
	links       map[uuid.UUID]models.BookingLink
	bookings    map[uuid.UUID]models.Booking
	flags       map[uuid.UUID]map[string]models.FeatureFlag
	profiles    map[uuid.UUID]models.UserProfile
	vendors     map[uuid.UUID]models.VendorProfile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:    make(map[uuid.UUID]models.Account),
		memberships: make(map[uuid.UUID]models.Membership),
		links:       make(map[uuid.UUID]models.BookingLink),
		bookings:    make(map[uuid.UUID]models.Booking),
		flags:       make(map[uuid.UUID]map[string]models.FeatureFlag),
		profiles:    make(map[uuid.UUID]models.UserProfile),
		vendors:     make(map[uuid.UUID]models.VendorProfile),
	}
}

// ---------------- Accounts ----------------

func (s *MemoryStore) CreateAccountWithOwner(_ context.Context, acct models.Account, owner models.Membership) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = time.Now()
	}
	s.accounts[acct.ID] = acct

	owner.AccountID = acct.ID
	owner.InvitedEmail = strings.ToLower(owner.InvitedEmail)
	owner.IsOwner = true
	owner.Status = models.StatusActive
	now := time.Now()
	owner.CreatedAt = now
	owner.AcceptedAt = &now
	s.memberships[owner.ID] = owner
	return acct, nil
}

func (s *MemoryStore) GetAccount(_ context.Context, id uuid.UUID) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return models.Account{}, ErrNotFound
	}
	return a, nil
}

func (s *MemoryStore) UpdateAccountCurrency(_ context.Context, id uuid.UUID, currency string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return models.Account{}, ErrNotFound
	}
	a.Currency = currency
	s.accounts[id] = a
	return a, nil
}

// ---------------- Memberships ----------------

func (s *MemoryStore) CreateMembership(_ context.Context, m models.Membership) (models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.InvitedEmail = strings.ToLower(m.InvitedEmail)
	for _, ex := range s.memberships {
		if ex.AccountID == m.AccountID && ex.InvitedEmail == m.InvitedEmail {
			return models.Membership{}, ErrDuplicate
		}
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.memberships[m.ID] = m
	return m, nil
}

func (s *MemoryStore) GetMembership(_ context.Context, id, accountID uuid.UUID) (models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.memberships[id]
	if !ok || m.AccountID != accountID {
		return models.Membership{}, ErrNotFound
	}
	return m, nil
}

func (s *MemoryStore) GetMembershipByEmail(_ context.Context, accountID uuid.UUID, email string) (models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, m := range s.memberships {
		if m.AccountID == accountID && m.InvitedEmail == email {
			return m, nil
		}
	}
	return models.Membership{}, ErrNotFound
}

func (s *MemoryStore) GetMembershipByUser(_ context.Context, accountID, userID uuid.UUID) (models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.memberships {
		if m.AccountID == accountID && m.UserID != nil && *m.UserID == userID {
			return m, nil
		}
	}
	return models.Membership{}, ErrNotFound
}

func (s *MemoryStore) ListMemberships(_ context.Context, accountID uuid.UUID) ([]models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []models.Membership
	for _, m := range s.memberships {
		if m.AccountID == accountID {
			res = append(res, m)
		}
	}
	return res, nil
}

func (s *MemoryStore) AcceptMembership(_ context.Context, inviteID uuid.UUID, email string, userID uuid.UUID, at time.Time) (models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memberships[inviteID]
	if !ok || m.Status != models.StatusPending || m.InvitedEmail != strings.ToLower(email) {
		return models.Membership{}, ErrNotFound
	}
	m.UserID = &userID
	m.Status = models.StatusActive
	m.AcceptedAt = &at
	s.memberships[inviteID] = m
	return m, nil
}

func (s *MemoryStore) DeleteMembership(_ context.Context, id, accountID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memberships[id]
	if !ok || m.AccountID != accountID {
		return ErrNotFound
	}
	delete(s.memberships, id)
	return nil
}

// ---------------- Booking links & bookings ----------------

func (s *MemoryStore) CreateBookingLink(_ context.Context, l models.BookingLink) (models.BookingLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ex := range s.links {
		if ex.Token == l.Token {
			return models.BookingLink{}, ErrDuplicate
		}
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	s.links[l.ID] = l
	return l, nil
}

func (s *MemoryStore) GetBookingLinkByToken(_ context.Context, token string) (models.BookingLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.links {
		if l.Token == token && l.IsActive {
			return l, nil
		}
	}
	return models.BookingLink{}, ErrNotFound
}

func (s *MemoryStore) CreateBooking(_ context.Context, b models.Booking) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	s.bookings[b.ID] = b
	return b, nil
}

func (s *MemoryStore) GetBooking(_ context.Context, id uuid.UUID) (models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	return b, nil
}

func (s *MemoryStore) ResolveBooking(_ context.Context, id uuid.UUID, status models.BookingStatus) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	if b.Status != models.BookingPending {
		return models.Booking{}, ErrConflict
	}
	b.Status = status
	s.bookings[id] = b
	return b, nil
}

func (s *MemoryStore) ListApprovedBookings(_ context.Context, eventID uuid.UUID, fromDate, toDate string) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []models.Booking
	for _, b := range s.bookings {
		if b.EventID != nil && *b.EventID == eventID &&
			b.Status == models.BookingApproved &&
			b.ProposedDate >= fromDate && b.ProposedDate <= toDate {
			res = append(res, b)
		}
	}
	return res, nil
}

// ---------------- Flags & profiles ----------------

func (s *MemoryStore) UpsertFlag(_ context.Context, accountID uuid.UUID, key string, enabled bool) (models.FeatureFlag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey, ok := s.flags[accountID]
	if !ok {
		byKey = make(map[string]models.FeatureFlag)
		s.flags[accountID] = byKey
	}
	f, ok := byKey[key]
	if !ok {
		f = models.FeatureFlag{ID: uuid.New(), AccountID: accountID, Key: key}
	}
	f.Enabled = enabled
	f.UpdatedAt = time.Now()
	byKey[key] = f
	return f, nil
}

func (s *MemoryStore) ListFlags(_ context.Context, accountID uuid.UUID) ([]models.FeatureFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []models.FeatureFlag
	for _, f := range s.flags[accountID] {
		res = append(res, f)
	}
	return res, nil
}

func (s *MemoryStore) UpsertUserProfile(_ context.Context, p models.UserProfile) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ex, ok := s.profiles[p.UserID]; ok {
		p.CreatedAt = ex.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.profiles[p.UserID] = p
	return p, nil
}

func (s *MemoryStore) CreateVendorProfile(_ context.Context, v models.VendorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vendors[v.UserID]; ok {
		return nil
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	s.vendors[v.UserID] = v
	return nil
}
