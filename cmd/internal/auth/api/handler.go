package authapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pago/cmd/identity"
)

// Handler wires HTTP auth endpoints to the account service.
type Handler struct {
	log *slog.Logger
	cfg Config

	accounts *identity.Service
	guard    *Guard

	loginLimiter *keyedLimiter
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, accounts *identity.Service, guard *Guard) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		log:          log,
		cfg:          cfg,
		accounts:     accounts,
		guard:        guard,
		loginLimiter: newKeyedLimiter(cfg.LoginIPMax, cfg.LoginIPWindow),
	}
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/auth/signup", h.handleSignup)
	mux.HandleFunc("/auth/signin", h.handleSignin)
	mux.Handle("/me", h.guard.Require(http.HandlerFunc(h.handleMe)))
}

// ---- handlers ----

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req signupRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	err := h.accounts.Signup(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		signupsTotal.WithLabelValues("ok").Inc()
		writeJSON(w, http.StatusCreated, signupResponse{Message: "account created"})
	case identity.IsConflict(err):
		signupsTotal.WithLabelValues("conflict").Inc()
		writeError(w, http.StatusConflict, "conflict", "email already registered")
	case identity.IsInvalidInput(err):
		signupsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid email or password")
	case identity.IsUnavailable(err):
		signupsTotal.WithLabelValues("unavailable").Inc()
		h.log.Error("auth.signup.store.fail", "err", err)
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "please retry later")
	default:
		signupsTotal.WithLabelValues("error").Inc()
		h.log.Error("auth.signup.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func (h *Handler) handleSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	now := time.Now().UTC()
	if ip := clientIP(r, h.cfg.TrustProxy); ip != nil {
		if !h.loginLimiter.Allow(ip.String(), now) {
			loginsTotal.WithLabelValues("rate_limited").Inc()
			writeRateLimited(w, h.cfg.LoginIPWindow)
			return
		}
	}

	var req signinRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	tok, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		loginsTotal.WithLabelValues("ok").Inc()
		writeJSON(w, http.StatusOK, tokenResponse{
			AccessToken: tok.AccessToken,
			TokenType:   tok.TokenType,
			ExpiresAt:   tok.ExpiresAt,
		})
	case identity.IsUnauthorized(err):
		// One message for unknown email and wrong password alike.
		loginsTotal.WithLabelValues("unauthorized").Inc()
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	case identity.IsInvalidInput(err):
		loginsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
	case identity.IsUnavailable(err):
		loginsTotal.WithLabelValues("unavailable").Inc()
		h.log.Error("auth.signin.store.fail", "err", err)
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "please retry later")
	default:
		loginsTotal.WithLabelValues("error").Inc()
		h.log.Error("auth.signin.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id, ok := RequireActiveIdentity(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, meResponse{User: userResponse{Email: id.Subject}})
}
