package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stampwise/backend/internal/models"
)

// TransactionLister is the read-only ledger projection interface.
type TransactionLister interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*models.Transaction, error)
	ListByCustomer(ctx context.Context, merchantID, customerID uuid.UUID) ([]*models.Transaction, error)
	ListByCampaign(ctx context.Context, merchantID, campaignID uuid.UUID) ([]*models.Transaction, error)
}

// CustomerGetter resolves a customer without tenant filtering so Queries can
// distinguish not-found from forbidden.
type CustomerGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// CampaignGetter resolves a campaign without tenant filtering.
type CampaignGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
}

// Queries serves read-only ledger projections. Every query is tenant-scoped;
// scoped lists verify ownership of the pivot entity first, like the engine's
// ownership guard but without a lock (reads take no mutation risk).
type Queries struct {
	ledger    TransactionLister
	customers CustomerGetter
	campaigns CampaignGetter
}

func NewQueries(ledger TransactionLister, customers CustomerGetter, campaigns CampaignGetter) *Queries {
	return &Queries{ledger: ledger, customers: customers, campaigns: campaigns}
}

// ByMerchant returns all of the merchant's transactions, newest first.
func (q *Queries) ByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*models.Transaction, error) {
	return q.ledger.ListByMerchant(ctx, merchantID)
}

// ByCustomer returns the customer's transactions, newest first.
// ErrCustomerNotFound if the customer does not exist; ErrForbidden if it
// belongs to another merchant.
func (q *Queries) ByCustomer(ctx context.Context, merchantID, customerID uuid.UUID) ([]*models.Transaction, error) {
	c, err := q.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if c.MerchantID != merchantID {
		return nil, ErrForbidden
	}
	return q.ledger.ListByCustomer(ctx, merchantID, customerID)
}

// ErrCampaignNotFound means the campaign does not exist.
var ErrCampaignNotFound = errors.New("campaign not found")

// ErrTransactionNotFound means no ledger row exists with the given id.
var ErrTransactionNotFound = errors.New("transaction not found")

// Get returns a single ledger row. ErrTransactionNotFound if it does not
// exist; ErrForbidden if it was recorded by another merchant.
func (q *Queries) Get(ctx context.Context, merchantID, transactionID uuid.UUID) (*models.Transaction, error) {
	t, err := q.ledger.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if t.MerchantID != merchantID {
		return nil, ErrForbidden
	}
	return t, nil
}

// ByCampaign returns the campaign's transactions, newest first, with the same
// not-found/forbidden distinction as ByCustomer.
func (q *Queries) ByCampaign(ctx context.Context, merchantID, campaignID uuid.UUID) ([]*models.Transaction, error) {
	c, err := q.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	if c.MerchantID != merchantID {
		return nil, ErrForbidden
	}
	return q.ledger.ListByCampaign(ctx, merchantID, campaignID)
}
