package payments

import (
	"context"
	"testing"
	"time"

	"pago/cmd/security/token"
)

func newTestService(t *testing.T, secret string) (*Service, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore()
	svc := NewService(nil, store, NoopGateway{}, []byte(secret))
	return svc, store
}

func TestCreateOrderRecordsPayment(t *testing.T) {
	svc, _ := newTestService(t, "gw-secret")
	ctx := context.Background()

	p, err := svc.CreateOrder(ctx, "user-1", 49900, "inr", "starter plan")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if p.ID == "" || p.OrderID == "" {
		t.Fatalf("expected populated ids, got %+v", p)
	}
	if p.Status != StatusCreated {
		t.Fatalf("status = %q, want %q", p.Status, StatusCreated)
	}
	if p.Currency != "INR" {
		t.Fatalf("currency = %q, want %q", p.Currency, "INR")
	}

	got, err := svc.Get(ctx, "user-1", p.ID)
	if err != nil {
		t.Fatalf("Get after create: %v", err)
	}
	if got.Amount != 49900 {
		t.Fatalf("amount = %d, want 49900", got.Amount)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := newTestService(t, "gw-secret")
	ctx := context.Background()

	cases := []struct {
		name   string
		userID string
		amount int64
	}{
		{name: "zero amount", userID: "user-1", amount: 0},
		{name: "negative amount", userID: "user-1", amount: -100},
		{name: "missing user", userID: "", amount: 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, tc.userID, tc.amount, "INR", "")
			if !IsInvalidInput(err) {
				t.Fatalf("err = %v, want invalid input", err)
			}
		})
	}
}

func TestVerifyPaymentMarksPaid(t *testing.T) {
	svc, _ := newTestService(t, "gw-secret")
	ctx := context.Background()

	p, err := svc.CreateOrder(ctx, "user-1", 1000, "INR", "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	sig := token.HashHMACSHA256Hex(p.OrderID+"|pay_123", []byte("gw-secret"))
	if err := svc.VerifyPayment(ctx, p.OrderID, "pay_123", sig); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}

	got, err := svc.Get(ctx, "user-1", p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusPaid {
		t.Fatalf("status = %q, want %q", got.Status, StatusPaid)
	}
}

func TestVerifyPaymentRejectsBadSignature(t *testing.T) {
	svc, _ := newTestService(t, "gw-secret")
	ctx := context.Background()

	p, err := svc.CreateOrder(ctx, "user-1", 1000, "INR", "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// Signed with the wrong secret.
	sig := token.HashHMACSHA256Hex(p.OrderID+"|pay_123", []byte("other-secret"))
	err = svc.VerifyPayment(ctx, p.OrderID, "pay_123", sig)
	if !IsSignatureMismatch(err) {
		t.Fatalf("err = %v, want signature mismatch", err)
	}

	// Status must not have moved.
	got, _ := svc.Get(ctx, "user-1", p.ID)
	if got.Status != StatusCreated {
		t.Fatalf("status = %q, want %q", got.Status, StatusCreated)
	}
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t, "gw-secret")

	sig := token.HashHMACSHA256Hex("order_missing|pay_1", []byte("gw-secret"))
	err := svc.VerifyPayment(context.Background(), "order_missing", "pay_1", sig)
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestOwnershipHidesForeignPayments(t *testing.T) {
	svc, _ := newTestService(t, "gw-secret")
	ctx := context.Background()

	p, err := svc.CreateOrder(ctx, "user-1", 1000, "INR", "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if _, err := svc.Get(ctx, "user-2", p.ID); !IsNotFound(err) {
		t.Fatalf("Get as other user: err = %v, want not found", err)
	}
	if _, err := svc.Update(ctx, "user-2", p.ID, UpdateInput{}); !IsNotFound(err) {
		t.Fatalf("Update as other user: err = %v, want not found", err)
	}
	if err := svc.Delete(ctx, "user-2", p.ID); !IsNotFound(err) {
		t.Fatalf("Delete as other user: err = %v, want not found", err)
	}
	if _, err := svc.Process(ctx, "user-2", p.ID); !IsNotFound(err) {
		t.Fatalf("Process as other user: err = %v, want not found", err)
	}
}

func TestListReturnsOnlyOwnPayments(t *testing.T) {
	svc, _ := newTestService(t, "gw-secret")
	ctx := context.Background()

	if _, err := svc.CreateOrder(ctx, "user-1", 100, "INR", "first"); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := svc.CreateOrder(ctx, "user-2", 200, "INR", "other"); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := svc.CreateOrder(ctx, "user-1", 300, "INR", "second"); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	for _, p := range list {
		if p.UserID != "user-1" {
			t.Fatalf("listed foreign payment %+v", p)
		}
	}
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, _ := newTestService(t, "gw-secret")
	ctx := context.Background()

	p, err := svc.CreateOrder(ctx, "user-1", 1000, "INR", "before")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	amount := int64(2500)
	desc := "after"
	got, err := svc.Update(ctx, "user-1", p.ID, UpdateInput{Amount: &amount, Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Amount != 2500 || got.Description != "after" {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.Currency != "INR" {
		t.Fatalf("untouched field changed: currency = %q", got.Currency)
	}

	bad := int64(-5)
	if _, err := svc.Update(ctx, "user-1", p.ID, UpdateInput{Amount: &bad}); !IsInvalidInput(err) {
		t.Fatalf("negative amount: err = %v, want invalid input", err)
	}
}

func TestProcessLifecycle(t *testing.T) {
	svc, store := newTestService(t, "gw-secret")
	ctx := context.Background()

	p, err := svc.CreateOrder(ctx, "user-1", 1000, "INR", "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	got, err := svc.Process(ctx, "user-1", p.ID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("status = %q, want %q", got.Status, StatusCompleted)
	}

	// Processing twice must fail.
	if _, err := svc.Process(ctx, "user-1", p.ID); !IsNotPending(err) {
		t.Fatalf("second Process: err = %v, want not pending", err)
	}

	// Pending payments are still processable.
	if _, err := store.UpdateStatus(ctx, p.ID, StatusPending, time.Now().UTC()); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := svc.Process(ctx, "user-1", p.ID); err != nil {
		t.Fatalf("Process pending: %v", err)
	}
}

func TestDeleteRemovesPayment(t *testing.T) {
	svc, _ := newTestService(t, "gw-secret")
	ctx := context.Background()

	p, err := svc.CreateOrder(ctx, "user-1", 1000, "INR", "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if err := svc.Delete(ctx, "user-1", p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "user-1", p.ID); !IsNotFound(err) {
		t.Fatalf("Get after delete: err = %v, want not found", err)
	}
}
