package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	"github.com/stampwise/backend/internal/models"
)

type stubMerchants struct {
	merchant *models.Merchant
	err      error
}

func (s *stubMerchants) GetByID(_ context.Context, _ uuid.UUID) (*models.Merchant, error) {
	return s.merchant, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jobFor(args TransactionRecordedArgs) *river.Job[TransactionRecordedArgs] {
	return &river.Job[TransactionRecordedArgs]{JobRow: &rivertype.JobRow{ID: 1}, Args: args}
}

func TestWorkerDeliversWebhook(t *testing.T) {
	var received webhookEvent
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode webhook body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	url := srv.URL
	merchant := &models.Merchant{ID: uuid.New(), WebhookURL: &url}
	w := NewTransactionRecordedWorker(&stubMerchants{merchant: merchant}, testLogger())

	payload := json.RawMessage(`{"transaction":{"amount":50}}`)
	err := w.Work(context.Background(), jobFor(TransactionRecordedArgs{
		TransactionID: uuid.New(),
		MerchantID:    merchant.ID,
		Payload:       payload,
	}))
	if err != nil {
		t.Fatalf("Work: %v", err)
	}
	if received.Event != "transaction.recorded" {
		t.Errorf("event: got %q, want transaction.recorded", received.Event)
	}
	if string(received.Payload) != string(payload) {
		t.Errorf("payload: got %s", received.Payload)
	}
	if contentType != "application/json" {
		t.Errorf("content type: got %q", contentType)
	}
}

func TestWorkerSkipsMerchantWithoutWebhook(t *testing.T) {
	merchant := &models.Merchant{ID: uuid.New()}
	w := NewTransactionRecordedWorker(&stubMerchants{merchant: merchant}, testLogger())

	err := w.Work(context.Background(), jobFor(TransactionRecordedArgs{
		TransactionID: uuid.New(),
		MerchantID:    merchant.ID,
	}))
	if err != nil {
		t.Errorf("merchant without webhook should be a no-op, got: %v", err)
	}
}

func TestWorkerRetriesOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	url := srv.URL
	merchant := &models.Merchant{ID: uuid.New(), WebhookURL: &url}
	w := NewTransactionRecordedWorker(&stubMerchants{merchant: merchant}, testLogger())

	err := w.Work(context.Background(), jobFor(TransactionRecordedArgs{
		TransactionID: uuid.New(),
		MerchantID:    merchant.ID,
		Payload:       json.RawMessage(`{}`),
	}))
	if err == nil {
		t.Error("non-2xx delivery must return an error so the job is retried")
	}
}

func TestWorkerMerchantLookupFailure(t *testing.T) {
	w := NewTransactionRecordedWorker(&stubMerchants{err: pgx.ErrNoRows}, testLogger())
	err := w.Work(context.Background(), jobFor(TransactionRecordedArgs{
		TransactionID: uuid.New(),
		MerchantID:    uuid.New(),
	}))
	if err == nil {
		t.Error("expected an error when the merchant cannot be loaded")
	}
}
