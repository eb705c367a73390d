package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID         uuid.UUID `json:"id"`
	MerchantID uuid.UUID `json:"merchant_id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Balance is the per-customer points balance row. It is created alongside the
// customer (initialized to 0) and mutated only through the ledger engine.
type Balance struct {
	CustomerID  uuid.UUID `json:"customer_id"`
	MerchantID  uuid.UUID `json:"merchant_id"`
	TotalPoints int64     `json:"total_points"`
	UpdatedAt   time.Time `json:"updated_at"`
}
