package membersession

import (
	"context"
	"sync"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	tokens map[string]domain.MemberTokens
}

func NewMemory() Repository {
	return &memoryRepo{tokens: make(map[string]domain.MemberTokens)}
}

func (r *memoryRepo) Get(_ context.Context, visitorID string) (*domain.MemberTokens, error) {
	r.mu.RLock()
	tokens, ok := r.tokens[visitorID]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &tokens, nil
}

func (r *memoryRepo) Put(_ context.Context, visitorID string, tokens domain.MemberTokens) error {
	r.mu.Lock()
	r.tokens[visitorID] = tokens
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, visitorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[visitorID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, visitorID)
	return nil
}
