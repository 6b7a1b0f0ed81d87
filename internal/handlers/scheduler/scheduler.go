// internal/handlers/scheduler/scheduler.go
package scheduler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/apperr"
	"github.com/planora/planora-server/internal/httpx"
	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/scheduler"
)

type Handler struct {
	svc *scheduler.Service
}

func New(svc *scheduler.Service) *Handler {
	return &Handler{svc: svc}
}

type linkResponse struct {
	Token     string    `json:"token"`
	EventID   *string   `json:"event_id,omitempty"`
	Title     string    `json:"title"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toLinkResponse(l models.BookingLink) linkResponse {
	r := linkResponse{
		Token:     l.Token,
		Title:     l.Title,
		ExpiresAt: l.ExpiresAt,
	}
	if l.EventID != nil {
		id := l.EventID.String()
		r.EventID = &id
	}
	return r
}

type bookingResponse struct {
	ID           string    `json:"id"`
	Confirmation string    `json:"confirmation"`
	VendorName   string    `json:"vendor_name"`
	VendorEmail  string    `json:"vendor_email"`
	ServiceType  string    `json:"service_type"`
	ProposedDate string    `json:"proposed_date"`
	ProposedTime string    `json:"proposed_time"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func toBookingResponse(b models.Booking) bookingResponse {
	return bookingResponse{
		ID:           b.ID.String(),
		Confirmation: b.Confirmation,
		VendorName:   b.VendorName,
		VendorEmail:  b.VendorEmail,
		ServiceType:  b.ServiceType,
		ProposedDate: b.ProposedDate,
		ProposedTime: b.ProposedTime,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
	}
}

type createLinkRequest struct {
	EventID string `json:"eventId,omitempty"`
	Title   string `json:"title,omitempty"`
	TTLDays int    `json:"ttlDays,omitempty"`
}

// CreateLink handles POST /scheduler/links (authenticated).
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var body createLinkRequest
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, r, err)
		return
	}
	var eventID *uuid.UUID
	if body.EventID != "" {
		id, err := uuid.Parse(body.EventID)
		if err != nil {
			httpx.Error(w, r, apperr.New(apperr.KindValidation, "eventId must be a UUID"))
			return
		}
		eventID = &id
	}

	link, err := h.svc.CreateLink(r.Context(), scheduler.CreateLinkRequest{
		EventID: eventID,
		Title:   body.Title,
		TTL:     time.Duration(body.TTLDays) * 24 * time.Hour,
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"link": toLinkResponse(link)})
}

// ValidateLink handles GET /scheduler/link/{token} (public).
func (h *Handler) ValidateLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.svc.ValidateLink(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"link": toLinkResponse(link)})
}

type bookRequest struct {
	LinkToken    string `json:"linkToken,omitempty"`
	EventID      string `json:"eventId,omitempty"`
	VendorName   string `json:"vendorName"`
	VendorEmail  string `json:"vendorEmail"`
	VendorPhone  string `json:"vendorPhone,omitempty"`
	ServiceType  string `json:"serviceType"`
	ProposedDate string `json:"proposedDate"`
	ProposedTime string `json:"proposedTime"`
	Notes        string `json:"notes,omitempty"`
}

// Book handles POST /scheduler/book (public).
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var body bookRequest
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, r, err)
		return
	}
	var eventID *uuid.UUID
	if body.EventID != "" {
		id, err := uuid.Parse(body.EventID)
		if err != nil {
			httpx.Error(w, r, apperr.New(apperr.KindValidation, "eventId must be a UUID"))
			return
		}
		eventID = &id
	}

	b, err := h.svc.SubmitBooking(r.Context(), scheduler.BookingRequest{
		LinkToken:    body.LinkToken,
		EventID:      eventID,
		VendorName:   body.VendorName,
		VendorEmail:  body.VendorEmail,
		VendorPhone:  body.VendorPhone,
		ServiceType:  body.ServiceType,
		ProposedDate: body.ProposedDate,
		ProposedTime: body.ProposedTime,
		Notes:        body.Notes,
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"booking": toBookingResponse(b)})
}

type resolveRequest struct {
	Decision string `json:"decision"`
}

// Resolve handles POST /scheduler/bookings/{bookingID}/resolve (authenticated).
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		httpx.Error(w, r, apperr.New(apperr.KindValidation, "booking id must be a UUID"))
		return
	}
	var body resolveRequest
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, r, err)
		return
	}

	b, err := h.svc.ResolveBooking(r.Context(), bookingID, body.Decision)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"booking": toBookingResponse(b)})
}

// Slots handles GET /scheduler/slots?start_date=...&end_date=...&event_id=... (public).
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var eventID *uuid.UUID
	if v := q.Get("event_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httpx.Error(w, r, apperr.New(apperr.KindValidation, "event_id must be a UUID"))
			return
		}
		eventID = &id
	}

	slots, err := h.svc.Slots(r.Context(), q.Get("start_date"), q.Get("end_date"), eventID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"slots": slots})
}
