// internal/store/postgres/bookings.go
package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/store"
)

func (s *Store) CreateBookingLink(ctx context.Context, l models.BookingLink) (models.BookingLink, error) {
	slog.DebugContext(ctx, "CreateBookingLink", "token", l.Token)
	row := s.pool.QueryRow(ctx, `
		INSERT INTO booking_links (id, token, event_id, title, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, token, event_id, title, is_active, expires_at, created_at`,
		l.ID, l.Token, l.EventID, l.Title, l.IsActive, l.ExpiresAt)
	var out models.BookingLink
	err := row.Scan(&out.ID, &out.Token, &out.EventID, &out.Title, &out.IsActive, &out.ExpiresAt, &out.CreatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "CreateBookingLink failed", "err", err)
		return models.BookingLink{}, mapError(err)
	}
	return out, nil
}

// GetBookingLinkByToken only matches active links; inactive and missing
// tokens are indistinguishable to the caller.
func (s *Store) GetBookingLinkByToken(ctx context.Context, token string) (models.BookingLink, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, token, event_id, title, is_active, expires_at, created_at
		FROM booking_links
		WHERE token = $1 AND is_active`, token)
	var l models.BookingLink
	err := row.Scan(&l.ID, &l.Token, &l.EventID, &l.Title, &l.IsActive, &l.ExpiresAt, &l.CreatedAt)
	if err != nil {
		return models.BookingLink{}, mapError(err)
	}
	return l, nil
}

const bookingCols = `id, booking_link_id, event_id, vendor_name, vendor_email, vendor_phone, service_type, proposed_date, proposed_time, notes, status, confirmation, created_at`

func scanBooking(row pgx.Row) (models.Booking, error) {
	var (
		b      models.Booking
		status string
	)
	err := row.Scan(&b.ID, &b.BookingLinkID, &b.EventID, &b.VendorName,
		&b.VendorEmail, &b.VendorPhone, &b.ServiceType, &b.ProposedDate,
		&b.ProposedTime, &b.Notes, &status, &b.Confirmation, &b.CreatedAt)
	if err != nil {
		return models.Booking{}, err
	}
	b.Status = models.BookingStatus(status)
	return b, nil
}

func (s *Store) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	slog.DebugContext(ctx, "CreateBooking", "vendor_email", b.VendorEmail, "service_type", b.ServiceType)
	row := s.pool.QueryRow(ctx, `
		INSERT INTO bookings (id, booking_link_id, event_id, vendor_name, vendor_email, vendor_phone, service_type, proposed_date, proposed_time, notes, status, confirmation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+bookingCols,
		b.ID, b.BookingLinkID, b.EventID, b.VendorName, b.VendorEmail,
		b.VendorPhone, b.ServiceType, b.ProposedDate, b.ProposedTime,
		b.Notes, string(b.Status), b.Confirmation)
	out, err := scanBooking(row)
	if err != nil {
		slog.ErrorContext(ctx, "CreateBooking failed", "err", err)
		return models.Booking{}, mapError(err)
	}
	return out, nil
}

func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (models.Booking, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		return models.Booking{}, mapError(err)
	}
	return b, nil
}

func (s *Store) ResolveBooking(ctx context.Context, id uuid.UUID, status models.BookingStatus) (models.Booking, error) {
	slog.DebugContext(ctx, "ResolveBooking", "booking_id", id.String(), "status", string(status))
	row := s.pool.QueryRow(ctx, `
		UPDATE bookings SET status = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING `+bookingCols, id, string(status))
	b, err := scanBooking(row)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Booking{}, mapError(err)
	}
	// Distinguish "missing" from "already resolved".
	if _, gerr := s.GetBooking(ctx, id); gerr != nil {
		return models.Booking{}, gerr
	}
	return models.Booking{}, store.ErrConflict
}

func (s *Store) ListApprovedBookings(ctx context.Context, eventID uuid.UUID, fromDate, toDate string) ([]models.Booking, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+bookingCols+` FROM bookings
		WHERE event_id = $1 AND status = 'approved'
		  AND proposed_date >= $2 AND proposed_date <= $3
		ORDER BY proposed_date, proposed_time`, eventID, fromDate, toDate)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var res []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, mapError(err)
		}
		res = append(res, b)
	}
	return res, mapError(rows.Err())
}
