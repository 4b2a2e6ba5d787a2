package out

import (
	"context"

	"einvoice_server/core/domain"
)

// TokenRepositoryPort persists OAuth grants keyed by account email.
// Get returns persistence.ErrNotFound when no grant exists.
type TokenRepositoryPort interface {
	Get(ctx context.Context, email string) (*domain.OAuthToken, error)
	Upsert(ctx context.Context, token *domain.OAuthToken) error
	Delete(ctx context.Context, email string) error
}

// BindingRepositoryPort persists the email → Drive folder binding.
type BindingRepositoryPort interface {
	Get(ctx context.Context, email string) (*domain.FolderBinding, error)
	Upsert(ctx context.Context, binding *domain.FolderBinding) error
}
