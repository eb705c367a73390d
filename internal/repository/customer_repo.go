package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stampwise/backend/internal/models"
)

type CustomerRepo struct {
	pool *pgxpool.Pool
}

func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

func (r *CustomerRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// CreateTx inserts the customer and its zero balance row in the caller's
// transaction, so a customer never exists without a balance.
func (r *CustomerRepo) CreateTx(ctx context.Context, tx pgx.Tx, c *models.Customer) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO customers (id, merchant_id, name, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, c.ID, c.MerchantID, c.Name, c.Email, c.Phone).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO balances (customer_id, merchant_id, total_points)
		VALUES ($1, $2, 0)
	`, c.ID, c.MerchantID)
	return err
}

// GetByID returns the customer regardless of tenant. Callers compare
// MerchantID themselves so not-found and forbidden stay distinguishable.
func (r *CustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	err := r.pool.QueryRow(ctx, `
		SELECT id, merchant_id, name, email, phone, created_at, updated_at
		FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.MerchantID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*models.Customer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, merchant_id, name, email, phone, created_at, updated_at
		FROM customers WHERE merchant_id = $1 ORDER BY created_at DESC
	`, merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.MerchantID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *CustomerRepo) Update(ctx context.Context, c *models.Customer) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE customers SET name = $3, email = $4, phone = $5, updated_at = now()
		WHERE id = $1 AND merchant_id = $2
	`, c.ID, c.MerchantID, c.Name, c.Email, c.Phone)
	return err
}

// Delete removes the customer scoped to the merchant. The ledger keeps a
// RESTRICT foreign key, so Postgres refuses the delete while transactions
// reference the customer.
func (r *CustomerRepo) Delete(ctx context.Context, id, merchantID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM customers WHERE id = $1 AND merchant_id = $2
	`, id, merchantID)
	return err
}

func (r *CustomerRepo) FindByEmail(ctx context.Context, merchantID uuid.UUID, email string) (*models.Customer, error) {
	var c models.Customer
	err := r.pool.QueryRow(ctx, `
		SELECT id, merchant_id, name, email, phone, created_at, updated_at
		FROM customers WHERE merchant_id = $1 AND email = $2
	`, merchantID, email).Scan(&c.ID, &c.MerchantID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) FindByPhone(ctx context.Context, merchantID uuid.UUID, phone string) (*models.Customer, error) {
	var c models.Customer
	err := r.pool.QueryRow(ctx, `
		SELECT id, merchant_id, name, email, phone, created_at, updated_at
		FROM customers WHERE merchant_id = $1 AND phone = $2
	`, merchantID, phone).Scan(&c.ID, &c.MerchantID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
