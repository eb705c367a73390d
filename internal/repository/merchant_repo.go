package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stampwise/backend/internal/models"
)

type MerchantRepo struct {
	pool *pgxpool.Pool
}

func NewMerchantRepo(pool *pgxpool.Pool) *MerchantRepo {
	return &MerchantRepo{pool: pool}
}

func (r *MerchantRepo) Create(ctx context.Context, m *models.Merchant) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO merchants (id, email, name, password_hash, webhook_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, m.ID, m.Email, m.Name, m.PasswordHash, m.WebhookURL).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *MerchantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	var m models.Merchant
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, webhook_url, created_at, updated_at
		FROM merchants WHERE id = $1
	`, id).Scan(&m.ID, &m.Email, &m.Name, &m.PasswordHash, &m.WebhookURL, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MerchantRepo) GetByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	var m models.Merchant
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, webhook_url, created_at, updated_at
		FROM merchants WHERE email = $1
	`, email).Scan(&m.ID, &m.Email, &m.Name, &m.PasswordHash, &m.WebhookURL, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MerchantRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name string, webhookURL *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE merchants SET name = $2, webhook_url = $3, updated_at = now() WHERE id = $1
	`, id, name, webhookURL)
	return err
}
