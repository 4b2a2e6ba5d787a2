package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"einvoice_server/core/domain"
	"einvoice_server/core/port/out"
)

// TokenAdapter persists OAuth grants in einvoice_tokens.
type TokenAdapter struct {
	db *sqlx.DB
}

var _ out.TokenRepositoryPort = (*TokenAdapter)(nil)

func NewTokenAdapter(db *sqlx.DB) *TokenAdapter {
	return &TokenAdapter{db: db}
}

func (a *TokenAdapter) Get(ctx context.Context, email string) (*domain.OAuthToken, error) {
	query := `
		SELECT email, access_token, refresh_token, token_type, expiry, created_at, updated_at
		FROM einvoice_tokens
		WHERE email = $1`

	var token domain.OAuthToken
	if err := a.db.GetContext(ctx, &token, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get token: %w", err)
	}
	return &token, nil
}

func (a *TokenAdapter) Upsert(ctx context.Context, token *domain.OAuthToken) error {
	query := `
		INSERT INTO einvoice_tokens (email, access_token, refresh_token, token_type, expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_type = EXCLUDED.token_type,
			expiry = EXCLUDED.expiry,
			updated_at = NOW()`

	if _, err := a.db.ExecContext(ctx, query,
		token.Email, token.AccessToken, token.RefreshToken, token.TokenType, token.Expiry); err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (a *TokenAdapter) Delete(ctx context.Context, email string) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM einvoice_tokens WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
