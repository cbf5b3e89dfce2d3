package credential

import (
	"context"
	"sync"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
)

// memoryRepo keeps credentials in a map. Used by tests and local runs
// without a database.
type memoryRepo struct {
	mu    sync.RWMutex
	creds map[string]domain.VisitorCredential
}

func NewMemory() Repository {
	return &memoryRepo{creds: make(map[string]domain.VisitorCredential)}
}

func (r *memoryRepo) Get(_ context.Context, visitorID string) (*domain.VisitorCredential, error) {
	r.mu.RLock()
	cred, ok := r.creds[visitorID]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cred, nil
}

func (r *memoryRepo) Put(_ context.Context, visitorID string, cred domain.VisitorCredential) error {
	r.mu.Lock()
	r.creds[visitorID] = cred
	r.mu.Unlock()
	return nil
}
