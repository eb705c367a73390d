package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/stampwise/backend/internal/models"
)

type contextKey string

const ctxMerchantKey contextKey = "merchant"

// TokenValidator is the auth service subset the middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// MerchantLookup resolves the authenticated merchant id to its record.
type MerchantLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
}

// MerchantAuth authenticates requests by validating the Bearer JWT and
// loading the merchant into request context. Every tenant-scoped handler
// reads the acting merchant from here and nowhere else.
func MerchantAuth(tokens TokenValidator, merchants MerchantLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				http.Error(w, `{"error":"missing or malformed Authorization header"}`, http.StatusUnauthorized)
				return
			}
			merchantID, err := tokens.ValidateToken(r.Context(), raw)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			m, err := merchants.GetByID(r.Context(), merchantID)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxMerchantKey, m)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MerchantFromCtx returns the authenticated merchant or nil.
func MerchantFromCtx(ctx context.Context) *models.Merchant {
	m, _ := ctx.Value(ctxMerchantKey).(*models.Merchant)
	return m
}

// WithMerchant returns a context carrying the given merchant. Used by tests.
func WithMerchant(ctx context.Context, m *models.Merchant) context.Context {
	return context.WithValue(ctx, ctxMerchantKey, m)
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
