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

// BindingAdapter persists email → Drive folder bindings in
// einvoice_folders.
type BindingAdapter struct {
	db *sqlx.DB
}

var _ out.BindingRepositoryPort = (*BindingAdapter)(nil)

func NewBindingAdapter(db *sqlx.DB) *BindingAdapter {
	return &BindingAdapter{db: db}
}

func (a *BindingAdapter) Get(ctx context.Context, email string) (*domain.FolderBinding, error) {
	query := `
		SELECT email, folder_name, folder_id, created_at, updated_at
		FROM einvoice_folders
		WHERE email = $1`

	var binding domain.FolderBinding
	if err := a.db.GetContext(ctx, &binding, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get binding: %w", err)
	}
	return &binding, nil
}

func (a *BindingAdapter) Upsert(ctx context.Context, binding *domain.FolderBinding) error {
	query := `
		INSERT INTO einvoice_folders (email, folder_name, folder_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE SET
			folder_name = EXCLUDED.folder_name,
			folder_id = EXCLUDED.folder_id,
			updated_at = NOW()`

	if _, err := a.db.ExecContext(ctx, query, binding.Email, binding.FolderName, binding.FolderID); err != nil {
		return fmt.Errorf("upsert binding: %w", err)
	}
	return nil
}
