package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stampwise/backend/internal/models"
)

type BalanceRepo struct {
	pool *pgxpool.Pool
}

func NewBalanceRepo(pool *pgxpool.Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

// GetForUpdate locks the balance row for the duration of the caller's
// transaction. Concurrent appliers for the same customer queue here; other
// customers are unaffected. Tenant filtering is deliberately absent — the
// engine compares MerchantID itself so it can tell forbidden from not-found.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (*models.Balance, error) {
	var b models.Balance
	err := tx.QueryRow(ctx, `
		SELECT customer_id, merchant_id, total_points, updated_at
		FROM balances WHERE customer_id = $1 FOR UPDATE
	`, customerID).Scan(&b.CustomerID, &b.MerchantID, &b.TotalPoints, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateTx sets the new total inside the caller's transaction. Call only
// after GetForUpdate in the same transaction.
func (r *BalanceRepo) UpdateTx(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, totalPoints int64) (*models.Balance, error) {
	var b models.Balance
	err := tx.QueryRow(ctx, `
		UPDATE balances SET total_points = $2, updated_at = now()
		WHERE customer_id = $1
		RETURNING customer_id, merchant_id, total_points, updated_at
	`, customerID, totalPoints).Scan(&b.CustomerID, &b.MerchantID, &b.TotalPoints, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByCustomer is a plain tenant-scoped read for dashboard views.
func (r *BalanceRepo) GetByCustomer(ctx context.Context, customerID, merchantID uuid.UUID) (*models.Balance, error) {
	var b models.Balance
	err := r.pool.QueryRow(ctx, `
		SELECT customer_id, merchant_id, total_points, updated_at
		FROM balances WHERE customer_id = $1 AND merchant_id = $2
	`, customerID, merchantID).Scan(&b.CustomerID, &b.MerchantID, &b.TotalPoints, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
