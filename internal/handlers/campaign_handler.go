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

	"github.com/stampwise/backend/internal/middleware"
	"github.com/stampwise/backend/internal/models"
	"github.com/stampwise/backend/internal/services"
)

// CampaignStore is the campaign repository subset the handler needs.
type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*models.Campaign, error)
	Update(ctx context.Context, c *models.Campaign) error
	Delete(ctx context.Context, id, merchantID uuid.UUID) error
}

type CampaignHandler struct {
	Campaigns CampaignStore
	Validator *services.Validator
	Logger    *slog.Logger
}

type campaignRequest struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	Reward         string `json:"reward"`
	PointsRequired int64  `json:"points_required"`
	Active         *bool  `json:"active"`
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	req, ok := h.readCampaign(w, r)
	if !ok {
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	c := &models.Campaign{
		ID:             uuid.New(),
		MerchantID:     m.ID,
		Name:           req.Name,
		Type:           req.Type,
		Reward:         req.Reward,
		PointsRequired: req.PointsRequired,
		Active:         active,
	}
	if err := h.Campaigns.Create(r.Context(), c); err != nil {
		h.Logger.Error("create campaign", "error", err)
		http.Error(w, `{"error":"failed to create campaign"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	c, status := h.ownedCampaign(r, m.ID)
	if c == nil {
		writeOwnershipError(w, status, "campaign")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	list, err := h.Campaigns.ListByMerchant(r.Context(), m.ID)
	if err != nil {
		h.Logger.Error("list campaigns", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Campaign{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	c, status := h.ownedCampaign(r, m.ID)
	if c == nil {
		writeOwnershipError(w, status, "campaign")
		return
	}
	req, ok := h.readCampaign(w, r)
	if !ok {
		return
	}
	c.Name = req.Name
	c.Type = req.Type
	c.Reward = req.Reward
	c.PointsRequired = req.PointsRequired
	if req.Active != nil {
		c.Active = *req.Active
	}
	if err := h.Campaigns.Update(r.Context(), c); err != nil {
		h.Logger.Error("update campaign", "error", err)
		http.Error(w, `{"error":"failed to update campaign"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	c, status := h.ownedCampaign(r, m.ID)
	if c == nil {
		writeOwnershipError(w, status, "campaign")
		return
	}
	if err := h.Campaigns.Delete(r.Context(), c.ID, m.ID); err != nil {
		h.Logger.Error("delete campaign", "error", err)
		http.Error(w, `{"error":"failed to delete campaign"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CampaignHandler) readCampaign(w http.ResponseWriter, r *http.Request) (*campaignRequest, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error":"failed to read body"}`, http.StatusBadRequest)
		return nil, false
	}
	if err := h.Validator.Validate("campaign", body); err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return nil, false
		}
		h.Logger.Error("validate campaign body", "error", err)
		http.Error(w, `{"error":"validation failed"}`, http.StatusBadRequest)
		return nil, false
	}
	var req campaignRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func (h *CampaignHandler) ownedCampaign(r *http.Request, merchantID uuid.UUID) (*models.Campaign, int) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, http.StatusBadRequest
	}
	c, err := h.Campaigns.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, http.StatusNotFound
		}
		h.Logger.Error("get campaign", "error", err)
		return nil, http.StatusInternalServerError
	}
	if c.MerchantID != merchantID {
		return nil, http.StatusForbidden
	}
	return c, 0
}
