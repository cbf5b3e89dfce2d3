package credential

import (
	"context"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
)

// Repository persists one visitor credential per visitor id. Put replaces
// the stored pair wholesale; credentials are superseded, never deleted.
type Repository interface {
	Get(ctx context.Context, visitorID string) (*domain.VisitorCredential, error)
	Put(ctx context.Context, visitorID string, cred domain.VisitorCredential) error
}
