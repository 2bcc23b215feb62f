// Package paymentapi exposes the payment endpoints: order creation,
// gateway callback verification, and per-user payment CRUD. Every route
// requires a valid bearer token.
package paymentapi

import (
	"log/slog"
	"net/http"
	"strings"

	authapi "pago/cmd/internal/auth/api"
	"pago/cmd/internal/payments"
)

// Handler wires HTTP payment endpoints to the payment service.
type Handler struct {
	log *slog.Logger
	cfg Config

	payments *payments.Service
	guard    *authapi.Guard
}

// NewHandler constructs a payments Handler.
func NewHandler(log *slog.Logger, cfg Config, svc *payments.Service, guard *authapi.Guard) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{log: log, cfg: cfg, payments: svc, guard: guard}
}

// Register wires payment routes onto the provided mux. Method and path
// parameters use the mux pattern syntax, so unmatched methods get 405
// from the mux itself.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}

	protect := func(fn http.HandlerFunc) http.Handler { return h.guard.Require(fn) }

	mux.Handle("POST /payments/orders", protect(h.handleCreateOrder))
	mux.Handle("POST /payments/verify", protect(h.handleVerify))
	mux.Handle("GET /payments", protect(h.handleList))
	mux.Handle("GET /payments/{id}", protect(h.handleGet))
	mux.Handle("PUT /payments/{id}", protect(h.handleUpdate))
	mux.Handle("DELETE /payments/{id}", protect(h.handleDelete))
	mux.Handle("POST /payments/{id}/process", protect(h.handleProcess))
}

// ---- handlers ----

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := authapi.RequireActiveIdentity(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	p, err := h.payments.CreateOrder(r.Context(), id.Subject, req.Amount, req.Currency, req.Description)
	if err != nil {
		ordersTotal.WithLabelValues(outcomeLabel(err)).Inc()
		h.writeServiceError(w, "payments.order.fail", err)
		return
	}

	ordersTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	if _, ok := authapi.RequireActiveIdentity(w, r); !ok {
		return
	}

	var req verifyRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	err := h.payments.VerifyPayment(r.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		verificationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		h.writeServiceError(w, "payments.verify.fail", err)
		return
	}

	verificationsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, messageResponse{Message: "payment verified"})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	id, ok := authapi.RequireActiveIdentity(w, r)
	if !ok {
		return
	}

	list, err := h.payments.List(r.Context(), id.Subject)
	if err != nil {
		h.writeServiceError(w, "payments.list.fail", err)
		return
	}

	out := listResponse{Payments: make([]paymentResponse, 0, len(list))}
	for _, p := range list {
		out.Payments = append(out.Payments, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := authapi.RequireActiveIdentity(w, r)
	if !ok {
		return
	}

	p, err := h.payments.Get(r.Context(), id.Subject, pathID(r))
	if err != nil {
		h.writeServiceError(w, "payments.get.fail", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := authapi.RequireActiveIdentity(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	p, err := h.payments.Update(r.Context(), id.Subject, pathID(r), payments.UpdateInput{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		h.writeServiceError(w, "payments.update.fail", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := authapi.RequireActiveIdentity(w, r)
	if !ok {
		return
	}

	if err := h.payments.Delete(r.Context(), id.Subject, pathID(r)); err != nil {
		h.writeServiceError(w, "payments.delete.fail", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "payment deleted"})
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	id, ok := authapi.RequireActiveIdentity(w, r)
	if !ok {
		return
	}

	p, err := h.payments.Process(r.Context(), id.Subject, pathID(r))
	if err != nil {
		h.writeServiceError(w, "payments.process.fail", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

// ---- helpers ----

func pathID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("id"))
}

// writeServiceError maps service error kinds to HTTP responses.
func (h *Handler) writeServiceError(w http.ResponseWriter, logKey string, err error) {
	switch {
	case payments.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid payment request")
	case payments.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", "payment not found")
	case payments.IsSignatureMismatch(err):
		writeError(w, http.StatusUnprocessableEntity, "verification_failed", "payment verification failed")
	case payments.IsNotPending(err):
		writeError(w, http.StatusConflict, "not_pending", "payment is not open for processing")
	case payments.IsGateway(err):
		h.log.Error(logKey, "err", err)
		writeError(w, http.StatusBadGateway, "gateway_error", "payment gateway unavailable")
	case payments.IsUnavailable(err):
		h.log.Error(logKey, "err", err)
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "please retry later")
	default:
		h.log.Error(logKey, "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func outcomeLabel(err error) string {
	switch {
	case payments.IsInvalidInput(err):
		return "invalid"
	case payments.IsNotFound(err):
		return "not_found"
	case payments.IsSignatureMismatch(err):
		return "mismatch"
	case payments.IsGateway(err):
		return "gateway_error"
	case payments.IsUnavailable(err):
		return "unavailable"
	default:
		return "error"
	}
}
