package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign types mirror the loyalty program kinds the dashboard offers.
const (
	CampaignTypePoints   = "points"
	CampaignTypeStamps   = "stamps"
	CampaignTypeCashback = "cashback"
)

type Campaign struct {
	ID             uuid.UUID `json:"id"`
	MerchantID     uuid.UUID `json:"merchant_id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Reward         string    `json:"reward"`
	PointsRequired int64     `json:"points_required"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
