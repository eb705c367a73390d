package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stampwise/backend/internal/middleware"
	"github.com/stampwise/backend/internal/models"
	"github.com/stampwise/backend/internal/services"
)

// CustomerStore is the customer repository subset the handler needs.
type CustomerStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	CreateTx(ctx context.Context, tx pgx.Tx, c *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*models.Customer, error)
	Update(ctx context.Context, c *models.Customer) error
	Delete(ctx context.Context, id, merchantID uuid.UUID) error
	FindByEmail(ctx context.Context, merchantID uuid.UUID, email string) (*models.Customer, error)
	FindByPhone(ctx context.Context, merchantID uuid.UUID, phone string) (*models.Customer, error)
}

// BalanceReader exposes the tenant-scoped balance read for customer views.
type BalanceReader interface {
	GetByCustomer(ctx context.Context, customerID, merchantID uuid.UUID) (*models.Balance, error)
}

type CustomerHandler struct {
	Customers CustomerStore
	Balances  BalanceReader
	Validator *services.Validator
	Logger    *slog.Logger
}

type customerRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type customerResponse struct {
	*models.Customer
	TotalPoints int64 `json:"total_points"`
}

// Create handles POST /api/v1/customers. The customer row and its zero
// balance row are inserted in one transaction.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	if err := h.Validator.Validate("customer", body); err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		h.Logger.Error("validate customer body", "error", err)
		http.Error(w, `{"error":"validation failed"}`, http.StatusBadRequest)
		return
	}
	var req customerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	if conflict, msg := h.duplicateContact(r.Context(), m.ID, uuid.Nil, req.Email, req.Phone); conflict {
		http.Error(w, msg, http.StatusConflict)
		return
	}

	c := &models.Customer{
		ID:         uuid.New(),
		MerchantID: m.ID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
	}
	tx, err := h.Customers.Begin(r.Context())
	if err != nil {
		h.Logger.Error("begin tx", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	defer tx.Rollback(r.Context())
	if err := h.Customers.CreateTx(r.Context(), tx, c); err != nil {
		h.Logger.Error("create customer", "error", err)
		http.Error(w, `{"error":"failed to create customer"}`, http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(r.Context()); err != nil {
		h.Logger.Error("commit customer create", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, customerResponse{Customer: c, TotalPoints: 0})
}

// Get handles GET /api/v1/customers/{id}, returning the profile with its
// current balance.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	c, status := h.ownedCustomer(r, m.ID)
	if c == nil {
		writeOwnershipError(w, status, "customer")
		return
	}
	bal, err := h.Balances.GetByCustomer(r.Context(), c.ID, m.ID)
	if err != nil {
		h.Logger.Error("get balance", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, customerResponse{Customer: c, TotalPoints: bal.TotalPoints})
}

// List handles GET /api/v1/customers.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	list, err := h.Customers.ListByMerchant(r.Context(), m.ID)
	if err != nil {
		h.Logger.Error("list customers", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Customer{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Update handles PUT /api/v1/customers/{id}.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	c, status := h.ownedCustomer(r, m.ID)
	if c == nil {
		writeOwnershipError(w, status, "customer")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error":"failed to read body"}`, http.StatusBadRequest)
		return
	}
	if err := h.Validator.Validate("customer", body); err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		http.Error(w, `{"error":"validation failed"}`, http.StatusBadRequest)
		return
	}
	var req customerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if conflict, msg := h.duplicateContact(r.Context(), m.ID, c.ID, req.Email, req.Phone); conflict {
		http.Error(w, msg, http.StatusConflict)
		return
	}

	c.Name = req.Name
	c.Email = req.Email
	c.Phone = req.Phone
	if err := h.Customers.Update(r.Context(), c); err != nil {
		h.Logger.Error("update customer", "error", err)
		http.Error(w, `{"error":"failed to update customer"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/v1/customers/{id}. Postgres refuses the delete
// while ledger rows reference the customer; that surfaces as 409.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	c, status := h.ownedCustomer(r, m.ID)
	if c == nil {
		writeOwnershipError(w, status, "customer")
		return
	}
	if err := h.Customers.Delete(r.Context(), c.ID, m.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			http.Error(w, `{"error":"customer has recorded transactions"}`, http.StatusConflict)
			return
		}
		h.Logger.Error("delete customer", "error", err)
		http.Error(w, `{"error":"failed to delete customer"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedCustomer resolves {id} and checks tenant ownership. Returns the
// customer, or nil with the HTTP status to write (400, 404 or 403).
func (h *CustomerHandler) ownedCustomer(r *http.Request, merchantID uuid.UUID) (*models.Customer, int) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, http.StatusBadRequest
	}
	c, err := h.Customers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, http.StatusNotFound
		}
		h.Logger.Error("get customer", "error", err)
		return nil, http.StatusInternalServerError
	}
	if c.MerchantID != merchantID {
		return nil, http.StatusForbidden
	}
	return c, 0
}

// duplicateContact reports whether another customer of the merchant already
// uses the given email or phone. selfID excludes the customer being updated.
func (h *CustomerHandler) duplicateContact(ctx context.Context, merchantID, selfID uuid.UUID, email, phone *string) (bool, string) {
	if email != nil && *email != "" {
		existing, err := h.Customers.FindByEmail(ctx, merchantID, *email)
		if err == nil && existing.ID != selfID {
			return true, `{"error":"customer with this email already exists"}`
		}
	}
	if phone != nil && *phone != "" {
		existing, err := h.Customers.FindByPhone(ctx, merchantID, *phone)
		if err == nil && existing.ID != selfID {
			return true, `{"error":"customer with this phone number already exists"}`
		}
	}
	return false, ""
}

func writeOwnershipError(w http.ResponseWriter, status int, entity string) {
	switch status {
	case http.StatusBadRequest:
		http.Error(w, `{"error":"invalid `+entity+` id"}`, status)
	case http.StatusNotFound:
		http.Error(w, `{"error":"`+entity+` not found"}`, status)
	case http.StatusForbidden:
		http.Error(w, `{"error":"`+entity+` belongs to another merchant"}`, status)
	default:
		http.Error(w, `{"error":"internal error"}`, status)
	}
}
