package membersession

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

func (r *postgresRepo) Get(ctx context.Context, visitorID string) (*domain.MemberTokens, error) {
	const q = `
SELECT access_token, refresh_token, expires_at
FROM member_sessions
WHERE visitor_id = $1
LIMIT 1
`
	var out domain.MemberTokens
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

func (r *postgresRepo) Put(ctx context.Context, visitorID string, tokens domain.MemberTokens) error {
	const q = `
INSERT INTO member_sessions (visitor_id, access_token, refresh_token, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (visitor_id) DO UPDATE
SET access_token = EXCLUDED.access_token,
    refresh_token = EXCLUDED.refresh_token,
    expires_at = EXCLUDED.expires_at,
    updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, visitorID, tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresAt)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, visitorID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM member_sessions WHERE visitor_id = $1`, visitorID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
