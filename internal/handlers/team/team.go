// internal/handlers/team/team.go
package team

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/apperr"
	"github.com/planora/planora-server/internal/auth"
	"github.com/planora/planora-server/internal/httpx"
	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/team"
)

type Handler struct {
	svc *team.Service
}

func New(svc *team.Service) *Handler {
	return &Handler{svc: svc}
}

type memberResponse struct {
	ID         string     `json:"id"`
	AccountID  string     `json:"account_id"`
	UserID     *string    `json:"user_id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name,omitempty"`
	LastName   string     `json:"last_name,omitempty"`
	Role       string     `json:"role"`
	IsOwner    bool       `json:"is_owner"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

func toMemberResponse(m models.Membership) memberResponse {
	r := memberResponse{
		ID:         m.ID.String(),
		AccountID:  m.AccountID.String(),
		Email:      m.InvitedEmail,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Role:       string(m.Role),
		IsOwner:    m.IsOwner,
		Status:     string(m.Status),
		CreatedAt:  m.CreatedAt,
		AcceptedAt: m.AcceptedAt,
	}
	if m.UserID != nil {
		uid := m.UserID.String()
		r.UserID = &uid
	}
	return r
}

type inviteRequest struct {
	Email             string `json:"email"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	AccountInstanceID string `json:"accountInstanceId"`
	Role              string `json:"role,omitempty"`
}

// Invite handles POST /invite.
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var body inviteRequest
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, r, err)
		return
	}
	accountID, err := uuid.Parse(body.AccountInstanceID)
	if err != nil {
		httpx.Error(w, r, apperr.New(apperr.KindValidation, "accountInstanceId is required"))
		return
	}

	invite, err := h.svc.CreateInvite(r.Context(), caller, team.InviteRequest{
		AccountID: accountID,
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Role:      models.MemberRole(body.Role),
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invite": toMemberResponse(invite)})
}

// List handles GET /invite?accountInstanceId=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); !ok {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	accountID, err := uuid.Parse(r.URL.Query().Get("accountInstanceId"))
	if err != nil {
		httpx.Error(w, r, apperr.New(apperr.KindValidation, "accountInstanceId is required"))
		return
	}

	members, err := h.svc.ListMembers(r.Context(), accountID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"members": out})
}

type acceptRequest struct {
	InviteID string `json:"inviteId"`
}

// Accept handles POST /accept.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var body acceptRequest
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, r, err)
		return
	}
	inviteID, err := uuid.Parse(body.InviteID)
	if err != nil {
		httpx.Error(w, r, apperr.New(apperr.KindValidation, "inviteId is required"))
		return
	}

	m, err := h.svc.AcceptInvite(r.Context(), caller, inviteID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "invite accepted",
		"member":  toMemberResponse(m),
	})
}

type removeRequest struct {
	MemberID          string `json:"memberId"`
	AccountInstanceID string `json:"accountInstanceId"`
}

// Remove handles DELETE /remove.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var body removeRequest
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, r, err)
		return
	}
	memberID, err := uuid.Parse(body.MemberID)
	if err != nil {
		httpx.Error(w, r, apperr.New(apperr.KindValidation, "memberId is required"))
		return
	}
	accountID, err := uuid.Parse(body.AccountInstanceID)
	if err != nil {
		httpx.Error(w, r, apperr.New(apperr.KindValidation, "accountInstanceId is required"))
		return
	}

	if err := h.svc.RemoveMember(r.Context(), caller, memberID, accountID); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "member removed"})
}
