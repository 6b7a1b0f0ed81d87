// internal/handlers/flags/flags.go
package flags

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/apperr"
	"github.com/planora/planora-server/internal/auth"
	"github.com/planora/planora-server/internal/flags"
	"github.com/planora/planora-server/internal/httpx"
	"github.com/planora/planora-server/internal/models"
)

type Handler struct {
	svc *flags.Service
}

func New(svc *flags.Service) *Handler {
	return &Handler{svc: svc}
}

type flagResponse struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

func toFlagResponses(fs []models.FeatureFlag) []flagResponse {
	out := make([]flagResponse, 0, len(fs))
	for _, f := range fs {
		out = append(out, flagResponse{Key: f.Key, Enabled: f.Enabled})
	}
	return out
}

// List handles GET /flags?accountInstanceId=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(r.URL.Query().Get("accountInstanceId"))
	if err != nil {
		httpx.Error(w, r, apperr.New(apperr.KindValidation, "accountInstanceId is required"))
		return
	}
	fs, err := h.svc.List(r.Context(), accountID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"flags": toFlagResponses(fs)})
}

type setRequest struct {
	AccountInstanceID string `json:"accountInstanceId"`
	Key               string `json:"key"`
	Enabled           bool   `json:"enabled"`
}

// Set handles POST /flags.
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var body setRequest
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, r, err)
		return
	}
	accountID, err := uuid.Parse(body.AccountInstanceID)
	if err != nil {
		httpx.Error(w, r, apperr.New(apperr.KindValidation, "accountInstanceId is required"))
		return
	}

	f, err := h.svc.Set(r.Context(), caller, accountID, body.Key, body.Enabled)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"flag": flagResponse{Key: f.Key, Enabled: f.Enabled}})
}
