package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stampwise/backend/internal/models"
)

// TransactionRepo is the append-only ledger store. There is intentionally no
// update or delete: rows are immutable once inserted.
type TransactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// InsertTx appends a ledger row inside the caller's transaction.
func (r *TransactionRepo) InsertTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	return tx.QueryRow(ctx, `
		INSERT INTO transactions (id, customer_id, merchant_id, campaign_id, type, amount, description, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, t.ID, t.CustomerID, t.MerchantID, t.CampaignID, t.Type, t.Amount, t.Description, t.Metadata).Scan(&t.CreatedAt)
}

func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var t models.Transaction
	err := r.pool.QueryRow(ctx, `
		SELECT id, customer_id, merchant_id, campaign_id, type, amount, description, metadata, created_at
		FROM transactions WHERE id = $1
	`, id).Scan(&t.ID, &t.CustomerID, &t.MerchantID, &t.CampaignID, &t.Type, &t.Amount, &t.Description, &t.Metadata, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*models.Transaction, error) {
	return r.list(ctx, `
		SELECT id, customer_id, merchant_id, campaign_id, type, amount, description, metadata, created_at
		FROM transactions WHERE merchant_id = $1 ORDER BY created_at DESC
	`, merchantID)
}

func (r *TransactionRepo) ListByCustomer(ctx context.Context, merchantID, customerID uuid.UUID) ([]*models.Transaction, error) {
	return r.list(ctx, `
		SELECT id, customer_id, merchant_id, campaign_id, type, amount, description, metadata, created_at
		FROM transactions WHERE merchant_id = $1 AND customer_id = $2 ORDER BY created_at DESC
	`, merchantID, customerID)
}

func (r *TransactionRepo) ListByCampaign(ctx context.Context, merchantID, campaignID uuid.UUID) ([]*models.Transaction, error) {
	return r.list(ctx, `
		SELECT id, customer_id, merchant_id, campaign_id, type, amount, description, metadata, created_at
		FROM transactions WHERE merchant_id = $1 AND campaign_id = $2 ORDER BY created_at DESC
	`, merchantID, campaignID)
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.MerchantID, &t.CampaignID, &t.Type, &t.Amount, &t.Description, &t.Metadata, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
