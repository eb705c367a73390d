package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/stampwise/backend/internal/models"
)

// TransactionRecordedArgs is the job payload enqueued by the ledger engine
// inside its commit transaction. A job exists iff the ledger row committed.
type TransactionRecordedArgs struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	MerchantID    uuid.UUID       `json:"merchant_id"`
	Payload       json.RawMessage `json:"payload"`
}

func (TransactionRecordedArgs) Kind() string { return "transaction_recorded" }

// MerchantLookup resolves the merchant to find its webhook endpoint.
type MerchantLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
}

// TransactionRecordedWorker delivers transaction.recorded events to the
// merchant's webhook URL. Merchants without a webhook configured are skipped.
type TransactionRecordedWorker struct {
	river.WorkerDefaults[TransactionRecordedArgs]
	merchants  MerchantLookup
	httpClient *http.Client
	log        *slog.Logger
}

func NewTransactionRecordedWorker(merchants MerchantLookup, log *slog.Logger) *TransactionRecordedWorker {
	if log == nil {
		log = slog.Default()
	}
	return &TransactionRecordedWorker{
		merchants:  merchants,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

type webhookEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func (w *TransactionRecordedWorker) Work(ctx context.Context, job *river.Job[TransactionRecordedArgs]) error {
	args := job.Args

	m, err := w.merchants.GetByID(ctx, args.MerchantID)
	if err != nil {
		return fmt.Errorf("load merchant %s: %w", args.MerchantID, err)
	}
	if m.WebhookURL == nil || *m.WebhookURL == "" {
		return nil
	}

	body, err := json.Marshal(webhookEvent{Event: "transaction.recorded", Payload: args.Payload})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, *m.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	w.log.Info("webhook delivered",
		"transaction_id", args.TransactionID, "merchant_id", args.MerchantID)
	return nil
}
