package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/stampwise/backend/internal/models"
)

type stubTokens struct {
	merchantID uuid.UUID
	err        error
}

func (s *stubTokens) ValidateToken(_ context.Context, _ string) (uuid.UUID, error) {
	return s.merchantID, s.err
}

type stubMerchants struct {
	merchant *models.Merchant
	err      error
}

func (s *stubMerchants) GetByID(_ context.Context, _ uuid.UUID) (*models.Merchant, error) {
	return s.merchant, s.err
}

func TestMerchantAuthLoadsMerchant(t *testing.T) {
	merchant := &models.Merchant{ID: uuid.New(), Email: "owner@cafe.test"}
	mw := MerchantAuth(&stubTokens{merchantID: merchant.ID}, &stubMerchants{merchant: merchant})

	var got *models.Merchant
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = MerchantFromCtx(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	r.Header.Set("Authorization", "Bearer some.jwt.token")
	w := httptest.NewRecorder()
	mw(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if got == nil || got.ID != merchant.ID {
		t.Errorf("merchant in context: got %+v, want %s", got, merchant.ID)
	}
}

func TestMerchantAuthRejects(t *testing.T) {
	merchant := &models.Merchant{ID: uuid.New()}
	cases := []struct {
		name      string
		header    string
		tokens    *stubTokens
		merchants *stubMerchants
	}{
		{"missing header", "", &stubTokens{}, &stubMerchants{merchant: merchant}},
		{"not bearer", "Basic Zm9vOmJhcg==", &stubTokens{}, &stubMerchants{merchant: merchant}},
		{"bad token", "Bearer nope", &stubTokens{err: errors.New("expired")}, &stubMerchants{merchant: merchant}},
		{"merchant gone", "Bearer ok", &stubTokens{merchantID: merchant.ID}, &stubMerchants{err: errors.New("no rows")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
			r := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			MerchantAuth(tc.tokens, tc.merchants)(next).ServeHTTP(w, r)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want 401", w.Code)
			}
			if called {
				t.Error("next handler must not run")
			}
		})
	}
}

func TestMerchantFromCtxEmpty(t *testing.T) {
	if m := MerchantFromCtx(context.Background()); m != nil {
		t.Errorf("expected nil merchant, got %+v", m)
	}
}
