package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/stampwise/backend/internal/models"
)

type mockMerchantSettings struct {
	gotName       string
	gotWebhookURL *string
	calls         int
}

func (m *mockMerchantSettings) UpdateProfile(_ context.Context, _ uuid.UUID, name string, webhookURL *string) error {
	m.gotName = name
	m.gotWebhookURL = webhookURL
	m.calls++
	return nil
}

func TestMerchantMe(t *testing.T) {
	merchant := &models.Merchant{ID: uuid.New(), Email: "owner@cafe.test", Name: "Cafe Nine"}
	h := &MerchantHandler{Merchants: &mockMerchantSettings{}, Logger: testLogger()}

	w := httptest.NewRecorder()
	h.Me(w, authedRequest(http.MethodGet, "/api/v1/merchants/me", "", merchant))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var got models.Merchant
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != merchant.ID || got.Name != "Cafe Nine" {
		t.Errorf("merchant: got %+v", got)
	}
}

func TestMerchantUpdateName(t *testing.T) {
	merchant := &models.Merchant{ID: uuid.New(), Name: "Old Name"}
	store := &mockMerchantSettings{}
	h := &MerchantHandler{Merchants: store, Logger: testLogger()}

	w := httptest.NewRecorder()
	h.Update(w, authedRequest(http.MethodPatch, "/api/v1/merchants/me", `{"name":"New Name"}`, merchant))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	if store.gotName != "New Name" {
		t.Errorf("persisted name: got %q, want New Name", store.gotName)
	}
	var got models.Merchant
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Name != "New Name" {
		t.Errorf("response name: got %q", got.Name)
	}
}

func TestMerchantUpdateWebhook(t *testing.T) {
	merchant := &models.Merchant{ID: uuid.New(), Name: "Cafe"}
	store := &mockMerchantSettings{}
	h := &MerchantHandler{Merchants: store, Logger: testLogger()}

	w := httptest.NewRecorder()
	h.Update(w, authedRequest(http.MethodPatch, "/api/v1/merchants/me",
		`{"webhook_url":"https://hooks.cafe.test/loyalty"}`, merchant))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if store.gotWebhookURL == nil || *store.gotWebhookURL != "https://hooks.cafe.test/loyalty" {
		t.Errorf("persisted webhook: got %v", store.gotWebhookURL)
	}
	// Name was omitted, so the existing one is kept.
	if store.gotName != "Cafe" {
		t.Errorf("persisted name: got %q, want Cafe", store.gotName)
	}

	// Omitting webhook_url again clears it.
	w = httptest.NewRecorder()
	h.Update(w, authedRequest(http.MethodPatch, "/api/v1/merchants/me", `{}`, merchant))
	if w.Code != http.StatusOK {
		t.Fatalf("clear status: got %d, want 200", w.Code)
	}
	if store.gotWebhookURL != nil {
		t.Errorf("webhook should be cleared, got %v", store.gotWebhookURL)
	}
}

func TestMerchantUpdateRejectsBadInput(t *testing.T) {
	merchant := &models.Merchant{ID: uuid.New(), Name: "Cafe"}
	store := &mockMerchantSettings{}
	h := &MerchantHandler{Merchants: store, Logger: testLogger()}

	cases := []struct {
		name string
		body string
	}{
		{"empty name", `{"name":""}`},
		{"ftp webhook", `{"webhook_url":"ftp://hooks.cafe.test"}`},
		{"not a url", `{"webhook_url":"::::"}`},
		{"bad json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Update(w, authedRequest(http.MethodPatch, "/api/v1/merchants/me", tc.body, merchant))
			if w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", w.Code)
			}
		})
	}
	if store.calls != 0 {
		t.Errorf("no update may be persisted on rejected input, got %d calls", store.calls)
	}
}
