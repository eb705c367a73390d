package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/stampwise/backend/internal/ledger"
	"github.com/stampwise/backend/internal/middleware"
	"github.com/stampwise/backend/internal/models"
	"github.com/stampwise/backend/internal/services"
)

// TransactionApplier abstracts the ledger engine for tests.
type TransactionApplier interface {
	Apply(ctx context.Context, p ledger.ApplyParams) (*ledger.Result, error)
}

// TransactionQueries abstracts the read-only ledger projections.
type TransactionQueries interface {
	Get(ctx context.Context, merchantID, transactionID uuid.UUID) (*models.Transaction, error)
	ByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*models.Transaction, error)
	ByCustomer(ctx context.Context, merchantID, customerID uuid.UUID) ([]*models.Transaction, error)
	ByCampaign(ctx context.Context, merchantID, campaignID uuid.UUID) ([]*models.Transaction, error)
}

// TransactionHandler serves /api/v1/transactions.
type TransactionHandler struct {
	Engine    TransactionApplier
	Queries   TransactionQueries
	Validator *services.Validator
	Logger    *slog.Logger
}

type createTransactionRequest struct {
	CustomerID  string          `json:"customer_id"`
	Type        string          `json:"type"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description"`
	CampaignID  *string         `json:"campaign_id"`
	Metadata    json.RawMessage `json:"metadata"`
}

// Create handles POST /api/v1/transactions: schema-validate, then hand the
// event to the ledger engine and map its error taxonomy onto HTTP statuses.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error":"failed to read body"}`, http.StatusBadRequest)
		return
	}
	if err := h.Validator.Validate("transaction", body); err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		h.Logger.Error("validate transaction body", "error", err)
		http.Error(w, `{"error":"validation failed"}`, http.StatusBadRequest)
		return
	}

	var req createTransactionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		http.Error(w, `{"error":"invalid customer_id"}`, http.StatusBadRequest)
		return
	}
	var campaignID *uuid.UUID
	if req.CampaignID != nil {
		id, err := uuid.Parse(*req.CampaignID)
		if err != nil {
			http.Error(w, `{"error":"invalid campaign_id"}`, http.StatusBadRequest)
			return
		}
		campaignID = &id
	}

	result, err := h.Engine.Apply(r.Context(), ledger.ApplyParams{
		MerchantID:  m.ID,
		CustomerID:  customerID,
		Type:        models.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		CampaignID:  campaignID,
		Metadata:    req.Metadata,
	})
	if err != nil {
		h.writeApplyError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *TransactionHandler) writeApplyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrCustomerNotFound):
		http.Error(w, `{"error":"customer not found"}`, http.StatusNotFound)
	case errors.Is(err, ledger.ErrForbidden):
		http.Error(w, `{"error":"customer belongs to another merchant"}`, http.StatusForbidden)
	case errors.Is(err, ledger.ErrInvalidType):
		http.Error(w, `{"error":"invalid transaction type"}`, http.StatusBadRequest)
	case errors.Is(err, ledger.ErrInvalidAmount):
		http.Error(w, `{"error":"invalid amount"}`, http.StatusBadRequest)
	case errors.Is(err, ledger.ErrInsufficientPoints):
		http.Error(w, `{"error":"insufficient points"}`, http.StatusBadRequest)
	case errors.Is(err, ledger.ErrBalanceOverflow):
		http.Error(w, `{"error":"balance limit exceeded"}`, http.StatusBadRequest)
	case errors.Is(err, ledger.ErrConflict):
		http.Error(w, `{"error":"concurrent update, retry"}`, http.StatusConflict)
	default:
		h.Logger.Error("apply transaction", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
	}
}

// Get handles GET /api/v1/transactions/{id}.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid transaction id"}`, http.StatusBadRequest)
		return
	}
	t, err := h.Queries.Get(r.Context(), m.ID, id)
	if err != nil {
		h.writeQueryError(w, err, "transaction")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// List handles GET /api/v1/transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	list, err := h.Queries.ByMerchant(r.Context(), m.ID)
	if err != nil {
		h.Logger.Error("list transactions", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(list))
}

// ListByCustomer handles GET /api/v1/transactions/customer/{id}.
func (h *TransactionHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	customerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid customer id"}`, http.StatusBadRequest)
		return
	}
	list, err := h.Queries.ByCustomer(r.Context(), m.ID, customerID)
	if err != nil {
		h.writeQueryError(w, err, "customer")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(list))
}

// ListByCampaign handles GET /api/v1/transactions/campaign/{id}.
func (h *TransactionHandler) ListByCampaign(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	campaignID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid campaign id"}`, http.StatusBadRequest)
		return
	}
	list, err := h.Queries.ByCampaign(r.Context(), m.ID, campaignID)
	if err != nil {
		h.writeQueryError(w, err, "campaign")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(list))
}

func (h *TransactionHandler) writeQueryError(w http.ResponseWriter, err error, entity string) {
	switch {
	case errors.Is(err, ledger.ErrCustomerNotFound), errors.Is(err, ledger.ErrCampaignNotFound), errors.Is(err, ledger.ErrTransactionNotFound):
		http.Error(w, `{"error":"`+entity+` not found"}`, http.StatusNotFound)
	case errors.Is(err, ledger.ErrForbidden):
		http.Error(w, `{"error":"`+entity+` belongs to another merchant"}`, http.StatusForbidden)
	default:
		h.Logger.Error("list transactions", "entity", entity, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
	}
}

func emptyIfNil(list []*models.Transaction) []*models.Transaction {
	if list == nil {
		return []*models.Transaction{}
	}
	return list
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
