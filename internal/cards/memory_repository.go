package cards

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu    sync.RWMutex
	cards map[string]Card
}

// NewMemoryRepository constructs an in-memory card repository for dev and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{cards: make(map[string]Card)}
}

func (r *memoryRepository) Create(_ context.Context, card Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[card.ID] = card
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	card, ok := r.cards[id]
	if !ok {
		return Card{}, ErrNotFound
	}
	return card, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Card
	for _, card := range r.cards {
		if card.OwnerID == ownerID {
			out = append(out, card)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) SetFrozen(_ context.Context, id string, frozen bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	card, ok := r.cards[id]
	if !ok {
		return ErrNotFound
	}
	card.Frozen = frozen
	card.UpdatedAt = at
	r.cards[id] = card
	return nil
}
