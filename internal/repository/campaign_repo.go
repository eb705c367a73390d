package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stampwise/backend/internal/models"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (id, merchant_id, name, type, reward, points_required, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, c.ID, c.MerchantID, c.Name, c.Type, c.Reward, c.PointsRequired, c.Active).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns the campaign regardless of tenant; callers compare
// MerchantID to distinguish not-found from forbidden.
func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var c models.Campaign
	err := r.pool.QueryRow(ctx, `
		SELECT id, merchant_id, name, type, reward, points_required, active, created_at, updated_at
		FROM campaigns WHERE id = $1
	`, id).Scan(&c.ID, &c.MerchantID, &c.Name, &c.Type, &c.Reward, &c.PointsRequired, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, merchant_id, name, type, reward, points_required, active, created_at, updated_at
		FROM campaigns WHERE merchant_id = $1 ORDER BY created_at DESC
	`, merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.MerchantID, &c.Name, &c.Type, &c.Reward, &c.PointsRequired, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET name = $3, type = $4, reward = $5, points_required = $6, active = $7, updated_at = now()
		WHERE id = $1 AND merchant_id = $2
	`, c.ID, c.MerchantID, c.Name, c.Type, c.Reward, c.PointsRequired, c.Active)
	return err
}

func (r *CampaignRepo) Delete(ctx context.Context, id, merchantID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM campaigns WHERE id = $1 AND merchant_id = $2
	`, id, merchantID)
	return err
}
