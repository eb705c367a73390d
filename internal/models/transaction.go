package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TransactionType is the closed set of ledger entry kinds. Credit kinds
// increase the customer balance; debit kinds decrease it and require
// sufficient funds.
type TransactionType string

const (
	TypePointsAdded      TransactionType = "points_added"
	TypeStampAdded       TransactionType = "stamp_added"
	TypePointsRedeemed   TransactionType = "points_redeemed"
	TypeCashbackRedeemed TransactionType = "cashback_redeemed"
)

// Valid reports whether t is a recognized transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TypePointsAdded, TypeStampAdded, TypePointsRedeemed, TypeCashbackRedeemed:
		return true
	}
	return false
}

// Credit reports whether t increases the balance. Debit kinds are everything
// else in the valid set.
func (t TransactionType) Credit() bool {
	return t == TypePointsAdded || t == TypeStampAdded
}

// Transaction is an immutable ledger row. Rows are inserted once by the
// ledger engine and never updated or deleted.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	MerchantID  uuid.UUID       `json:"merchant_id"`
	CampaignID  *uuid.UUID      `json:"campaign_id,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
