package payments

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.RWMutex
	payments map[string]Payment
	order    []string // insertion order of payment IDs
}

// NewMemoryRepository constructs an in-memory payments repository for tests
// and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{payments: make(map[string]Payment)}
}

func (r *memoryRepository) Create(_ context.Context, payment Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[payment.ID] = payment
	r.order = append(r.order, payment.ID)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payment, ok := r.payments[id]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return payment, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id, status string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return ErrNotFound
	}
	payment.Status = status
	payment.UpdatedAt = at
	r.payments[id] = payment
	return nil
}

func (r *memoryRepository) ListByWallet(_ context.Context, walletID string, page, limit int) ([]Payment, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var involved []Payment
	for i := len(r.order) - 1; i >= 0; i-- {
		p := r.payments[r.order[i]]
		if p.FromWalletID == walletID || p.ToWalletID == walletID {
			involved = append(involved, p)
		}
	}

	start := (page - 1) * limit
	if start >= len(involved) {
		return nil, nil
	}
	end := start + limit
	if end > len(involved) {
		end = len(involved)
	}
	return involved[start:end], nil
}

func (r *memoryRepository) Counterparties(_ context.Context, walletID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for _, id := range r.order {
		p := r.payments[id]
		var other string
		switch walletID {
		case p.FromWalletID:
			other = p.ToWalletID
		case p.ToWalletID:
			other = p.FromWalletID
		default:
			continue
		}
		if other == "" || seen[other] {
			continue
		}
		seen[other] = true
		ids = append(ids, other)
		if len(ids) >= limit {
			break
		}
	}
	return ids, nil
}

func (r *memoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.payments)), nil
}
