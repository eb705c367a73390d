package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stampwise/backend/internal/models"
)

// maxApplyAttempts bounds the retry loop on serialization conflicts before
// the engine gives up and surfaces ErrConflict.
const maxApplyAttempts = 3

// TxBeginner abstracts transaction creation so tests don't need a pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BalanceStore is the minimal balance repository interface for the engine.
type BalanceStore interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (*models.Balance, error)
	UpdateTx(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, totalPoints int64) (*models.Balance, error)
}

// TransactionStore appends immutable ledger rows.
type TransactionStore interface {
	InsertTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
}

// EnqueueRecordedFunc enqueues post-commit notification work within the given
// transaction. Provided by main using river.Client.InsertTx; may be nil.
type EnqueueRecordedFunc func(ctx context.Context, tx pgx.Tx, txn *models.Transaction, bal *models.Balance) error

// ApplyParams describes one earn/redeem event against a customer balance.
type ApplyParams struct {
	MerchantID  uuid.UUID
	CustomerID  uuid.UUID
	Type        models.TransactionType
	Amount      int64
	Description string
	CampaignID  *uuid.UUID
	Metadata    json.RawMessage
}

// Result pairs the inserted ledger row with the balance it produced.
type Result struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     *models.Balance     `json:"balance"`
}

// Engine is the only writer of customer balances. Apply records a transaction
// and adjusts the balance as one atomic unit: both happen or neither does.
type Engine struct {
	db       TxBeginner
	balances BalanceStore
	ledger   TransactionStore
	enqueue  EnqueueRecordedFunc
	log      *slog.Logger
}

// NewEngine creates the transaction engine. enqueue may be nil when no
// notification delivery is wired.
func NewEngine(db TxBeginner, balances BalanceStore, ledger TransactionStore, enqueue EnqueueRecordedFunc, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{db: db, balances: balances, ledger: ledger, enqueue: enqueue, log: log}
}

// Apply executes the read-check-insert-update cycle under the balance row
// lock. Concurrent calls for the same customer serialize on that lock;
// serialization and deadlock errors are retried up to maxApplyAttempts before
// surfacing ErrConflict.
func (e *Engine) Apply(ctx context.Context, p ApplyParams) (*Result, error) {
	if !p.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, p.Type)
	}
	if p.Amount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAmount, p.Amount)
	}

	var lastErr error
	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		res, err := e.applyOnce(ctx, p)
		if err == nil {
			return res, nil
		}
		if isBusinessError(err) {
			return nil, err
		}
		if !isRetryable(err) {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		lastErr = err
		e.log.Warn("ledger apply contention, retrying",
			"customer_id", p.CustomerID, "attempt", attempt, "error", err)
	}
	return nil, fmt.Errorf("%w: %v", ErrConflict, lastErr)
}

func (e *Engine) applyOnce(ctx context.Context, p ApplyParams) (*Result, error) {
	tx, err := e.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Ownership guard runs under the same row lock as the mutation, so there
	// is no check-to-use gap.
	bal, err := e.balances.GetForUpdate(ctx, tx, p.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if bal.MerchantID != p.MerchantID {
		return nil, ErrForbidden
	}

	newTotal := bal.TotalPoints
	if p.Type.Credit() {
		if p.Amount > math.MaxInt64-bal.TotalPoints {
			return nil, ErrBalanceOverflow
		}
		newTotal += p.Amount
	} else {
		if bal.TotalPoints < p.Amount {
			return nil, ErrInsufficientPoints
		}
		newTotal -= p.Amount
	}

	txn := &models.Transaction{
		ID:          uuid.New(),
		CustomerID:  p.CustomerID,
		MerchantID:  p.MerchantID,
		CampaignID:  p.CampaignID,
		Type:        p.Type,
		Amount:      p.Amount,
		Description: p.Description,
		Metadata:    p.Metadata,
	}
	if err := e.ledger.InsertTx(ctx, tx, txn); err != nil {
		return nil, err
	}

	updated, err := e.balances.UpdateTx(ctx, tx, p.CustomerID, newTotal)
	if err != nil {
		return nil, err
	}

	if e.enqueue != nil {
		if err := e.enqueue(ctx, tx, txn, updated); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &Result{Transaction: txn, Balance: updated}, nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInsufficientPoints) ||
		errors.Is(err, ErrBalanceOverflow)
}

// isRetryable reports whether err is contention the engine should retry:
// serialization failure, deadlock, or lock timeout.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}
