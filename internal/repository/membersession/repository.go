package membersession

import (
	"context"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
)

// Repository persists the member token pair for a visitor. Delete supports
// logout; Put replaces the pair wholesale on refresh.
type Repository interface {
	Get(ctx context.Context, visitorID string) (*domain.MemberTokens, error)
	Put(ctx context.Context, visitorID string, tokens domain.MemberTokens) error
	Delete(ctx context.Context, visitorID string) error
}
