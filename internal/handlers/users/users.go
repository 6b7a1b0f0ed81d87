// internal/handlers/users/users.go
package users

import (
	"net/http"

	"github.com/planora/planora-server/internal/auth"
	"github.com/planora/planora-server/internal/httpx"
	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/users"
)

type Handler struct {
	svc *users.Service
}

func New(svc *users.Service) *Handler {
	return &Handler{svc: svc}
}

type registerTypeRequest struct {
	UserType    string `json:"userType"`
	CompanyName string `json:"companyName,omitempty"`
}

// RegisterType handles POST /users/register-type.
func (h *Handler) RegisterType(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var body registerTypeRequest
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, r, err)
		return
	}

	p, err := h.svc.RegisterType(r.Context(), caller, models.UserType(body.UserType), body.CompanyName)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"profile": map[string]string{
			"user_id":      p.UserID.String(),
			"user_type":    string(p.UserType),
			"company_name": p.CompanyName,
		},
	})
}
