package payments

import (
	"context"
	"time"
)

// Status is the payment lifecycle state.
type Status string

const (
	StatusCreated   Status = "created"
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Payment is a gateway-backed payment record owned by one account.
type Payment struct {
	ID          string
	OrderID     string
	UserID      string
	Amount      int64 // minor units
	Currency    string
	Description string
	Status      Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpdateInput carries optional field updates; nil means "leave unchanged".
type UpdateInput struct {
	Amount      *int64
	Currency    *string
	Description *string
}

// Store is the payment persistence boundary.
//
// Contract mirrors the identity store: NotFoundError for misses, and
// ErrUnavailable (never a raw driver error) when the backend is unreachable.
type Store interface {
	Insert(ctx context.Context, p Payment) error
	FindByID(ctx context.Context, id string) (Payment, error)
	ListByUser(ctx context.Context, userID string) ([]Payment, error)
	Update(ctx context.Context, id string, in UpdateInput, now time.Time) (Payment, error)
	UpdateStatus(ctx context.Context, id string, status Status, now time.Time) (Payment, error)
	UpdateStatusByOrderID(ctx context.Context, orderID string, status Status, now time.Time) error
	Delete(ctx context.Context, id string) error
}
