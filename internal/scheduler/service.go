// internal/scheduler/service.go
package scheduler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/apperr"
	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/store"
)

// Business hours: half-hour slots from 09:00 to 18:00.
const (
	dayStartHour = 9
	dayEndHour   = 18
	slotMinutes  = 30
)

const dateLayout = "2006-01-02"

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service struct {
	store store.Store
	now   func() time.Time
}

func New(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

type CreateLinkRequest struct {
	EventID *uuid.UUID
	Title   string
	TTL     time.Duration
}

// CreateLink mints a shareable booking link with an opaque token.
func (s *Service) CreateLink(ctx context.Context, req CreateLinkRequest) (models.BookingLink, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return models.BookingLink{}, apperr.Wrap(apperr.KindStorage, "failed to generate link token", err)
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	link, err := s.store.CreateBookingLink(ctx, models.BookingLink{
		ID:        uuid.New(),
		Token:     hex.EncodeToString(raw),
		EventID:   req.EventID,
		Title:     strings.TrimSpace(req.Title),
		IsActive:  true,
		ExpiresAt: s.now().Add(ttl),
	})
	if err != nil {
		return models.BookingLink{}, apperr.Wrap(apperr.KindStorage, "failed to create booking link", err)
	}
	return link, nil
}

// ValidateLink resolves a share token. A missing or inactive token is a 404;
// a known token past its expiry is distinctly a 410.
func (s *Service) ValidateLink(ctx context.Context, token string) (models.BookingLink, error) {
	link, err := s.store.GetBookingLinkByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.BookingLink{}, apperr.New(apperr.KindNotFound, "booking link not found")
		}
		return models.BookingLink{}, apperr.Wrap(apperr.KindStorage, "failed to look up booking link", err)
	}
	if s.now().After(link.ExpiresAt) {
		return models.BookingLink{}, apperr.New(apperr.KindExpired, "booking link has expired")
	}
	return link, nil
}

type BookingRequest struct {
	LinkToken    string
	EventID      *uuid.UUID
	VendorName   string
	VendorEmail  string
	VendorPhone  string
	ServiceType  string
	ProposedDate string
	ProposedTime string
	Notes        string
}

// SubmitBooking records a vendor's proposal as a pending booking. This is a
// public submission; no authentication is involved. The returned booking
// carries a display-only confirmation code that is never used for lookup.
func (s *Service) SubmitBooking(ctx context.Context, req BookingRequest) (models.Booking, error) {
	missing := func(field string) error {
		return apperr.Newf(apperr.KindValidation, "%s is required", field)
	}
	if strings.TrimSpace(req.VendorName) == "" {
		return models.Booking{}, missing("vendor name")
	}
	if !emailRe.MatchString(strings.TrimSpace(req.VendorEmail)) {
		return models.Booking{}, apperr.New(apperr.KindValidation, "a valid vendor email is required")
	}
	if strings.TrimSpace(req.ServiceType) == "" {
		return models.Booking{}, missing("service type")
	}
	if _, err := time.Parse(dateLayout, req.ProposedDate); err != nil {
		return models.Booking{}, apperr.New(apperr.KindValidation, "proposed date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.ProposedTime); err != nil {
		return models.Booking{}, apperr.New(apperr.KindValidation, "proposed time must be HH:MM")
	}

	var linkID *uuid.UUID
	eventID := req.EventID
	if req.LinkToken != "" {
		link, err := s.ValidateLink(ctx, req.LinkToken)
		if err != nil {
			return models.Booking{}, err
		}
		linkID = &link.ID
		if eventID == nil {
			eventID = link.EventID
		}
	}

	b, err := s.store.CreateBooking(ctx, models.Booking{
		ID:            uuid.New(),
		BookingLinkID: linkID,
		EventID:       eventID,
		VendorName:    strings.TrimSpace(req.VendorName),
		VendorEmail:   strings.ToLower(strings.TrimSpace(req.VendorEmail)),
		VendorPhone:   strings.TrimSpace(req.VendorPhone),
		ServiceType:   strings.TrimSpace(req.ServiceType),
		ProposedDate:  req.ProposedDate,
		ProposedTime:  req.ProposedTime,
		Notes:         req.Notes,
		Status:        models.BookingPending,
		Confirmation:  s.confirmationCode(),
	})
	if err != nil {
		return models.Booking{}, apperr.Wrap(apperr.KindStorage, "failed to submit booking", err)
	}
	return b, nil
}

// ResolveBooking transitions a pending booking to approved or rejected.
// Both outcomes are terminal.
func (s *Service) ResolveBooking(ctx context.Context, id uuid.UUID, decision string) (models.Booking, error) {
	var status models.BookingStatus
	switch strings.ToLower(decision) {
	case "approve", "approved":
		status = models.BookingApproved
	case "reject", "rejected":
		status = models.BookingRejected
	default:
		return models.Booking{}, apperr.New(apperr.KindValidation, "decision must be approve or reject")
	}

	b, err := s.store.ResolveBooking(ctx, id, status)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return models.Booking{}, apperr.New(apperr.KindNotFound, "booking not found")
		case errors.Is(err, store.ErrConflict):
			return models.Booking{}, apperr.New(apperr.KindConflict, "booking has already been resolved")
		default:
			return models.Booking{}, apperr.Wrap(apperr.KindStorage, "failed to resolve booking", err)
		}
	}
	return b, nil
}

// Slots generates the half-hour grid between two dates inclusive. Slots
// already taken by an approved booking for the event are marked unavailable.
func (s *Service) Slots(ctx context.Context, startDate, endDate string, eventID *uuid.UUID) ([]models.Slot, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperr.New(apperr.KindValidation, "end_date must not be before start_date")
	}

	taken := make(map[string]bool)
	if eventID != nil {
		booked, err := s.store.ListApprovedBookings(ctx, *eventID, startDate, endDate)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStorage, "failed to list bookings", err)
		}
		for _, b := range booked {
			taken[b.ProposedDate+" "+b.ProposedTime] = true
		}
	}

	var slots []models.Slot
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		for mins := dayStartHour * 60; mins < dayEndHour*60; mins += slotMinutes {
			from := fmt.Sprintf("%02d:%02d", mins/60, mins%60)
			to := fmt.Sprintf("%02d:%02d", (mins+slotMinutes)/60, (mins+slotMinutes)%60)
			slots = append(slots, models.Slot{
				Date:      date,
				StartTime: from,
				EndTime:   to,
				Available: !taken[date+" "+from],
			})
		}
	}
	return slots, nil
}

// confirmationCode builds the client-facing booking reference: time-based
// with a short random suffix, purely for display.
func (s *Service) confirmationCode() string {
	raw := make([]byte, 2)
	_, _ = rand.Read(raw)
	return fmt.Sprintf("BK-%d-%s", s.now().Unix(), hex.EncodeToString(raw))
}
