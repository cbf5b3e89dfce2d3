package credential

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, visitorID string) (*domain.VisitorCredential, error) {
	const q = `
SELECT access_token, refresh_token, expires_at
FROM visitor_credentials
WHERE visitor_id = $1
LIMIT 1
`
	var out domain.VisitorCredential
	if err := r.pool.QueryRow(ctx, q, visitorID).Scan(
		&out.AccessToken,
		&out.RefreshToken,
		&out.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Put(ctx context.Context, visitorID string, cred domain.VisitorCredential) error {
	const q = `
INSERT INTO visitor_credentials (visitor_id, access_token, refresh_token, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (visitor_id) DO UPDATE
SET access_token = EXCLUDED.access_token,
    refresh_token = EXCLUDED.refresh_token,
    expires_at = EXCLUDED.expires_at,
    updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, visitorID, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt)
	return err
}
