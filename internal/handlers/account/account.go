// internal/handlers/account/account.go
package account

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/account"
	"github.com/planora/planora-server/internal/apperr"
	"github.com/planora/planora-server/internal/auth"
	"github.com/planora/planora-server/internal/httpx"
	"github.com/planora/planora-server/internal/models"
)

type Handler struct {
	svc *account.Service
}

func New(svc *account.Service) *Handler {
	return &Handler{svc: svc}
}

type accountResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerUserID string    `json:"owner_user_id"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAccountResponse(a models.Account) accountResponse {
	return accountResponse{
		ID:          a.ID.String(),
		Name:        a.Name,
		OwnerUserID: a.OwnerUserID.String(),
		Currency:    a.Currency,
		CreatedAt:   a.CreatedAt,
	}
}

type createRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
}

// Create handles POST /accounts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var body createRequest
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, r, err)
		return
	}

	acct, err := h.svc.Create(r.Context(), caller, account.CreateRequest{
		Name:     body.Name,
		Currency: body.Currency,
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"account": toAccountResponse(acct)})
}

type updateCurrencyRequest struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
}

// UpdateCurrency handles POST /update-currency.
func (h *Handler) UpdateCurrency(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var body updateCurrencyRequest
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, r, err)
		return
	}
	accountID, err := uuid.Parse(body.ID)
	if err != nil {
		httpx.Error(w, r, apperr.New(apperr.KindValidation, "id is required"))
		return
	}

	acct, err := h.svc.UpdateCurrency(r.Context(), caller, accountID, body.Currency)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"account": toAccountResponse(acct)})
}
