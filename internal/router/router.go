package router

import (
	"net/http"

	"github.com/stampwise/backend/internal/auth"
	"github.com/stampwise/backend/internal/handlers"
	"github.com/stampwise/backend/internal/middleware"
)

// New wires the API under /api/v1. Auth endpoints are rate limited; every
// other route requires a merchant token.
func New(
	authHandler *auth.Handler,
	merchantHandler *handlers.MerchantHandler,
	customerHandler *handlers.CustomerHandler,
	campaignHandler *handlers.CampaignHandler,
	transactionHandler *handlers.TransactionHandler,
	authMW func(http.Handler) http.Handler,
	limiter *middleware.RateLimiter,
) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/v1/auth/register", limiter.Middleware(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", limiter.Middleware(http.HandlerFunc(authHandler.Login)))

	mux.Handle("GET /api/v1/merchants/me", authMW(http.HandlerFunc(merchantHandler.Me)))
	mux.Handle("PATCH /api/v1/merchants/me", authMW(http.HandlerFunc(merchantHandler.Update)))

	mux.Handle("POST /api/v1/customers", authMW(http.HandlerFunc(customerHandler.Create)))
	mux.Handle("GET /api/v1/customers", authMW(http.HandlerFunc(customerHandler.List)))
	mux.Handle("GET /api/v1/customers/{id}", authMW(http.HandlerFunc(customerHandler.Get)))
	mux.Handle("PUT /api/v1/customers/{id}", authMW(http.HandlerFunc(customerHandler.Update)))
	mux.Handle("DELETE /api/v1/customers/{id}", authMW(http.HandlerFunc(customerHandler.Delete)))

	mux.Handle("POST /api/v1/campaigns", authMW(http.HandlerFunc(campaignHandler.Create)))
	mux.Handle("GET /api/v1/campaigns", authMW(http.HandlerFunc(campaignHandler.List)))
	mux.Handle("GET /api/v1/campaigns/{id}", authMW(http.HandlerFunc(campaignHandler.Get)))
	mux.Handle("PUT /api/v1/campaigns/{id}", authMW(http.HandlerFunc(campaignHandler.Update)))
	mux.Handle("DELETE /api/v1/campaigns/{id}", authMW(http.HandlerFunc(campaignHandler.Delete)))

	mux.Handle("POST /api/v1/transactions", authMW(http.HandlerFunc(transactionHandler.Create)))
	mux.Handle("GET /api/v1/transactions", authMW(http.HandlerFunc(transactionHandler.List)))
	mux.Handle("GET /api/v1/transactions/{id}", authMW(http.HandlerFunc(transactionHandler.Get)))
	mux.Handle("GET /api/v1/transactions/customer/{id}", authMW(http.HandlerFunc(transactionHandler.ListByCustomer)))
	mux.Handle("GET /api/v1/transactions/campaign/{id}", authMW(http.HandlerFunc(transactionHandler.ListByCampaign)))

	return mux
}
