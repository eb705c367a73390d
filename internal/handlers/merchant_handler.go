package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/stampwise/backend/internal/middleware"
)

// MerchantSettingsStore updates merchant-owned settings.
type MerchantSettingsStore interface {
	UpdateProfile(ctx context.Context, id uuid.UUID, name string, webhookURL *string) error
}

// MerchantHandler serves the authenticated merchant's own profile.
type MerchantHandler struct {
	Merchants MerchantSettingsStore
	Logger    *slog.Logger
}

// Me handles GET /api/v1/merchants/me.
func (h *MerchantHandler) Me(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type merchantUpdateRequest struct {
	Name       *string `json:"name"`
	WebhookURL *string `json:"webhook_url"`
}

// Update handles PATCH /api/v1/merchants/me. An omitted name keeps the
// current one; a null or omitted webhook_url disables delivery.
func (h *MerchantHandler) Update(w http.ResponseWriter, r *http.Request) {
	m := middleware.MerchantFromCtx(r.Context())
	if m == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req merchantUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Name != nil {
		if *req.Name == "" {
			http.Error(w, `{"error":"name must not be empty"}`, http.StatusBadRequest)
			return
		}
		m.Name = *req.Name
	}
	if req.WebhookURL != nil {
		u, err := url.Parse(*req.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			http.Error(w, `{"error":"webhook_url must be an http(s) URL"}`, http.StatusBadRequest)
			return
		}
	}
	if err := h.Merchants.UpdateProfile(r.Context(), m.ID, m.Name, req.WebhookURL); err != nil {
		h.Logger.Error("update merchant profile", "error", err)
		http.Error(w, `{"error":"failed to update settings"}`, http.StatusInternalServerError)
		return
	}
	m.WebhookURL = req.WebhookURL
	writeJSON(w, http.StatusOK, m)
}
