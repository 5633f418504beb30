package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/pkg/uow"
)

type RefreshTokenRepository struct {
	conn uow.DBTX
}

func NewRefreshTokenRepository(conn uow.DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{conn: conn}
}

func (r *RefreshTokenRepository) Create(
	ctx context.Context,
	userID int64,
	token string,
	validUntil time.Time,
) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	err := r.conn.QueryRow(ctx,
		`INSERT INTO refresh_tokens (refresh_token, user_id, valid) VALUES ($1, $2, $3)
		RETURNING refresh_token, user_id, valid`,
		token, userID, validUntil,
	).Scan(&rt.Token, &rt.UserID, &rt.ValidUntil)
	if err != nil {
		return nil, convertErr(err, "creating refresh token for user %d", userID)
	}
	return &rt, nil
}

func (r *RefreshTokenRepository) Find(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	err := r.conn.QueryRow(ctx,
		`SELECT refresh_token, user_id, valid FROM refresh_tokens WHERE refresh_token = $1`,
		token,
	).Scan(&rt.Token, &rt.UserID, &rt.ValidUntil)
	if err != nil {
		return nil, convertErr(err, "finding refresh token")
	}
	return &rt, nil
}
