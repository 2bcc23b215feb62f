package payments

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used for development and tests.
type MemoryStore struct {
	mu   sync.Mutex
	byID map[string]Payment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Payment)}
}

func (s *MemoryStore) Insert(ctx context.Context, p Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[p.ID] = p
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (Payment, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return Payment{}, NotFoundError{Op: "payments.FindByID", Resource: "payment"}
	}
	return p, nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID string) ([]Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Payment, 0)
	for _, p := range s.byID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, in UpdateInput, now time.Time) (Payment, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return Payment{}, NotFoundError{Op: "payments.Update", Resource: "payment"}
	}
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if in.Currency != nil {
		p.Currency = *in.Currency
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	p.UpdatedAt = now
	s.byID[id] = p
	return p, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status Status, now time.Time) (Payment, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return Payment{}, NotFoundError{Op: "payments.UpdateStatus", Resource: "payment"}
	}
	p.Status = status
	p.UpdatedAt = now
	s.byID[id] = p
	return p, nil
}

func (s *MemoryStore) UpdateStatusByOrderID(ctx context.Context, orderID string, status Status, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.byID {
		if p.OrderID == orderID {
			p.Status = status
			p.UpdatedAt = now
			s.byID[id] = p
			return nil
		}
	}
	return NotFoundError{Op: "payments.UpdateStatusByOrderID", Resource: "payment"}
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return NotFoundError{Op: "payments.Delete", Resource: "payment"}
	}
	delete(s.byID, id)
	return nil
}
