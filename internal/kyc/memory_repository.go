package kyc

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu          sync.RWMutex
	submissions map[string]Submission
}

// NewMemoryRepository constructs an in-memory submission repository for dev
// and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{submissions: make(map[string]Submission)}
}

func (r *memoryRepository) Create(_ context.Context, submission Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions[submission.ID] = submission
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.submissions[id]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return s, nil
}

func (r *memoryRepository) LatestByUser(_ context.Context, userID string) (Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest Submission
	found := false
	for _, s := range r.submissions {
		if s.UserID != userID {
			continue
		}
		if !found || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
			found = true
		}
	}
	if !found {
		return Submission{}, ErrNotFound
	}
	return latest, nil
}

func (r *memoryRepository) ListPending(_ context.Context, limit int) ([]Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Submission
	for _, s := range r.submissions {
		if s.Status == StatusPending {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepository) CountPending(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, s := range r.submissions {
		if s.Status == StatusPending {
			count++
		}
	}
	return count, nil
}

func (r *memoryRepository) Update(_ context.Context, submission Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.submissions[submission.ID]; !ok {
		return ErrNotFound
	}
	r.submissions[submission.ID] = submission
	return nil
}
