// Package api exposes the payment endpoints, including the legacy
// collection-level routes older clients still call.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"energyportal/internal/common/api"
	"energyportal/internal/payments"
	"energyportal/internal/payments/domain"
)

// legacyAccountID is the account the legacy GET /api/payments route is
// hardwired to.
const legacyAccountID = "A-0001"

// Handler handles payment HTTP requests.
type Handler struct {
	service *payments.Service
	logger  *slog.Logger
}

// NewHandler creates a payments handler.
func NewHandler(service *payments.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes returns the payment routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{accountId}/due-charges", h.DueCharges)
	r.Post("/{accountId}/payment", h.MakePayment)
	r.Get("/{accountId}/history", h.History)

	// Legacy collection routes.
	r.Post("/", h.MakePaymentLegacy)
	r.Get("/", h.HistoryLegacy)

	return r
}

// DueCharges handles GET /api/payments/{accountId}/due-charges.
func (h *Handler) DueCharges(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	charges, err := h.service.DueCharges(r.Context(), accountID)
	if err != nil {
		h.logger.Error("fetching due charges", "account_id", accountID, "error", err)
		api.Error(w, http.StatusInternalServerError, "Failed to fetch due charges")
		return
	}
	api.WriteJSON(w, http.StatusOK, charges)
}

// paymentRequest is the body of POST /api/payments/{accountId}/payment.
type paymentRequest struct {
	Amount      float64                   `json:"amount" validate:"required,gt=0"`
	Method      domain.Method             `json:"method" validate:"required"`
	ChargeIDs   []string                  `json:"chargeIds"`
	CardDetails *domain.CreditCardDetails `json:"cardDetails" validate:"required"`
}

// MakePayment handles POST /api/payments/{accountId}/payment.
func (h *Handler) MakePayment(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	var req paymentRequest
	if err := api.DecodeAndValidate(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, paymentShapeMessage(err))
		return
	}

	payment, err := h.service.Process(r.Context(), accountID, req.Amount, req.Method, req.CardDetails)
	if err != nil {
		h.logger.Warn("payment rejected", "account_id", accountID, "error", err)
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusCreated, payment)
}

// History handles GET /api/payments/{accountId}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	history, err := h.service.History(r.Context(), accountID)
	if err != nil {
		h.logger.Error("fetching payment history", "account_id", accountID, "error", err)
		api.Error(w, http.StatusInternalServerError, "Failed to fetch payment history")
		return
	}
	api.WriteJSON(w, http.StatusOK, history)
}

// legacyPaymentRequest is the body of the legacy POST /api/payments.
type legacyPaymentRequest struct {
	AccountID   string                    `json:"accountId" validate:"required"`
	Amount      float64                   `json:"amount" validate:"required,gt=0"`
	CardDetails *domain.CreditCardDetails `json:"cardDetails" validate:"required"`
}

// MakePaymentLegacy handles POST /api/payments. It always pays by card and
// answers 200 rather than 201.
func (h *Handler) MakePaymentLegacy(w http.ResponseWriter, r *http.Request) {
	var req legacyPaymentRequest
	if err := api.DecodeAndValidate(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	payment, err := h.service.Process(r.Context(), req.AccountID, req.Amount, domain.MethodCard, req.CardDetails)
	if err != nil {
		h.logger.Warn("payment rejected", "account_id", req.AccountID, "error", err)
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, payment)
}

// HistoryLegacy handles GET /api/payments, hardwired to one account.
func (h *Handler) HistoryLegacy(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context(), legacyAccountID)
	if err != nil {
		h.logger.Error("fetching payment history", "account_id", legacyAccountID, "error", err)
		api.Error(w, http.StatusInternalServerError, "Failed to fetch payments")
		return
	}
	api.WriteJSON(w, http.StatusOK, history)
}

// paymentShapeMessage maps a decode or shape-validation failure onto the
// messages the payment endpoint has always returned: a missing or
// non-positive amount is reported first, anything else falls through to the
// method/card message.
func paymentShapeMessage(err error) string {
	switch api.FirstInvalidField(err) {
	case "Amount":
		return "Payment amount must be greater than zero"
	case "Method", "CardDetails":
		return "Payment method and card details are required"
	default:
		return "Invalid request body"
	}
}
