// Package api exposes the account endpoints.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"energyportal/internal/accounts"
	"energyportal/internal/accounts/domain"
	"energyportal/internal/common/api"
)

// Handler handles account HTTP requests.
type Handler struct {
	service *accounts.Service
	logger  *slog.Logger
}

// NewHandler creates an accounts handler.
func NewHandler(service *accounts.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes returns the account routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{accountId}", h.Get)
	return r
}

// List handles GET /api/accounts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accts, err := h.service.ListWithBalances(r.Context())
	if err != nil {
		h.logger.Error("listing accounts", "error", err)
		api.Error(w, http.StatusInternalServerError, "Failed to fetch accounts")
		return
	}
	api.WriteJSON(w, http.StatusOK, accts)
}

// Get handles GET /api/accounts/{accountId}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	account, err := h.service.Get(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			api.Message(w, http.StatusNotFound, "Account not found")
			return
		}
		h.logger.Error("fetching account", "account_id", accountID, "error", err)
		api.Message(w, http.StatusInternalServerError, "Error fetching account")
		return
	}
	api.WriteJSON(w, http.StatusOK, account)
}
