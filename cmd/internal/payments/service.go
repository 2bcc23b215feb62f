package payments

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pago/cmd/identity/ids"
	"pago/cmd/security/token"
)

// DefaultCurrency is used when a create request carries no currency.
const DefaultCurrency = "INR"

// Service orchestrates orders against the gateway and payment records in
// the store. It holds no mutable state after construction and is safe for
// concurrent use.
type Service struct {
	log       *slog.Logger
	store     Store
	gateway   Gateway
	keySecret []byte
}

// NewService constructs a payment Service. keySecret is the gateway API
// secret used to verify callback signatures.
func NewService(log *slog.Logger, store Store, gateway Gateway, keySecret []byte) *Service {
	if log == nil {
		log = slog.Default()
	}
	if gateway == nil {
		gateway = NoopGateway{}
	}
	return &Service{log: log, store: store, gateway: gateway, keySecret: keySecret}
}

// CreateOrder opens a gateway order for amount minor units and records the
// resulting payment in status "created" for the given user.
func (s *Service) CreateOrder(ctx context.Context, userID string, amount int64, currency, description string) (Payment, error) {
	if userID == "" {
		return Payment{}, OpError{Op: "payments.CreateOrder", Kind: ErrInvalidInput, Msg: "user id is required"}
	}
	if amount <= 0 {
		return Payment{}, OpError{Op: "payments.CreateOrder", Kind: ErrInvalidInput, Msg: "amount must be positive"}
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	id, err := ids.NewULID(time.Now().UTC())
	if err != nil {
		return Payment{}, OpError{Op: "payments.CreateOrder", Kind: ErrUnavailable, Msg: "id generation failed"}
	}

	order, err := s.gateway.CreateOrder(ctx, amount, currency, id)
	if err != nil {
		s.log.Error("gateway order creation failed", "error", err)
		return Payment{}, err
	}

	now := time.Now().UTC()
	p := Payment{
		ID:          id,
		OrderID:     order.ID,
		UserID:      userID,
		Amount:      amount,
		Currency:    currency,
		Description: strings.TrimSpace(description),
		Status:      StatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return Payment{}, err
	}

	s.log.Info("payment order created", "payment_id", p.ID, "order_id", p.OrderID)
	return p, nil
}

// VerifyPayment checks the gateway callback signature for an order and, on
// success, marks the matching payment paid. The expected signature is
// HMAC-SHA256 of "orderID|paymentID" under the gateway key secret, hex-encoded.
func (s *Service) VerifyPayment(ctx context.Context, orderID, gatewayPaymentID, signature string) error {
	if orderID == "" || gatewayPaymentID == "" || signature == "" {
		return OpError{Op: "payments.VerifyPayment", Kind: ErrInvalidInput, Msg: "order id, payment id and signature are required"}
	}

	payload := orderID + "|" + gatewayPaymentID
	if !token.VerifyHMACSHA256Hex(payload, s.keySecret, signature) {
		s.log.Warn("payment signature mismatch", "order_id", orderID)
		return OpError{Op: "payments.VerifyPayment", Kind: ErrSignatureMismatch}
	}

	if err := s.store.UpdateStatusByOrderID(ctx, orderID, StatusPaid, time.Now().UTC()); err != nil {
		return err
	}

	s.log.Info("payment verified", "order_id", orderID)
	return nil
}

// Get returns a payment owned by userID. Payments belonging to other users
// are reported as not found, never as forbidden, so ids cannot be probed.
func (s *Service) Get(ctx context.Context, userID, id string) (Payment, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Payment{}, err
	}
	if p.UserID != userID {
		return Payment{}, NotFoundError{Op: "payments.Get", Resource: "payment"}
	}
	return p, nil
}

// List returns the user's payments ordered oldest first.
func (s *Service) List(ctx context.Context, userID string) ([]Payment, error) {
	return s.store.ListByUser(ctx, userID)
}

// Update applies partial field changes to a payment owned by userID.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Payment, error) {
	if in.Amount != nil && *in.Amount <= 0 {
		return Payment{}, OpError{Op: "payments.Update", Kind: ErrInvalidInput, Msg: "amount must be positive"}
	}
	if in.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if c == "" {
			return Payment{}, OpError{Op: "payments.Update", Kind: ErrInvalidInput, Msg: "currency must not be empty"}
		}
		in.Currency = &c
	}

	if _, err := s.Get(ctx, userID, id); err != nil {
		return Payment{}, err
	}
	return s.store.Update(ctx, id, in, time.Now().UTC())
}

// Delete removes a payment owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Process completes a payment that is still open (created or pending).
// Completed, paid, or failed payments cannot be processed again.
func (s *Service) Process(ctx context.Context, userID, id string) (Payment, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return Payment{}, err
	}
	if p.Status != StatusCreated && p.Status != StatusPending {
		return Payment{}, OpError{Op: "payments.Process", Kind: ErrNotPending, Msg: "payment is not open"}
	}

	updated, err := s.store.UpdateStatus(ctx, id, StatusCompleted, time.Now().UTC())
	if err != nil {
		return Payment{}, err
	}

	s.log.Info("payment processed", "payment_id", id)
	return updated, nil
}
