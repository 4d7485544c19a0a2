package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/rogerio-castellano/coffee-storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/coffee-storefront/internal/http/rate_limiter"
)

var (
	apiPool *rl.Pool
	otpPool *rl.Pool
)

// SetRateLimitPools installs the general and OTP rate limit pools. Leaving
// them unset (as the test suites do) disables throttling.
func SetRateLimitPools(api, otp *rl.Pool) {
	apiPool = api
	otpPool = otp
}

func NewRouter() http.Handler {
	r := chi.NewRouter()

	if apiPool != nil {
		r.Use(RateLimitMiddleware(apiPool))
	}

	// Public storefront surface.
	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/search", handlers.FilterProductsHandler)
	r.Get("/products/{id}", handlers.GetProductByIDHandler)
	r.Get("/products/{id}/stock", handlers.GetStockHandler)
	r.Get("/plans", handlers.GetPlansHandler)

	// OTP endpoints carry their own, much tighter budget.
	r.Group(func(r chi.Router) {
		if otpPool != nil {
			r.Use(RateLimitMiddleware(otpPool))
		}
		r.Post("/auth/otp", handlers.SendOTPHandler)
		r.Post("/auth/verify", handlers.VerifyOTPHandler)
	})
	r.Post("/auth/refresh", handlers.RefreshSessionHandler)
	r.Post("/auth/logout", handlers.LogoutHandler)

	// Signed-in customers.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)

		r.Get("/cart", handlers.GetCartHandler)
		r.Post("/cart/items", handlers.AddCartItemHandler)
		r.Put("/cart/items/{productId}", handlers.UpdateCartItemHandler)
		r.Delete("/cart/items/{productId}", handlers.RemoveCartItemHandler)
		r.Delete("/cart", handlers.ClearCartHandler)
		r.Post("/cart/refresh", handlers.RefreshCartHandler)
		r.Post("/cart/restore", handlers.RestoreCartHandler)

		r.Post("/checkout", handlers.CheckoutHandler)
		r.Get("/orders", handlers.GetOrdersHandler)
		r.Get("/orders/{number}", handlers.GetOrderByNumberHandler)

		r.Post("/subscriptions", handlers.SubscribeHandler)
		r.Get("/subscriptions", handlers.GetSubscriptionsHandler)
		r.Put("/subscriptions/{id}/status", handlers.SetSubscriptionStatusHandler)
	})

	// Admin dashboard.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware, AdminOnly)

		r.Post("/products", handlers.CreateProductHandler)
		r.Put("/products/{id}", handlers.UpdateProductHandler)
		r.Delete("/products/{id}", handlers.DeleteProductHandler)
		r.Post("/products/import", handlers.ImportProductsHandler)
		r.Post("/products/{id}/restock", handlers.RestockHandler)
		r.Put("/products/{id}/reorder-level", handlers.SetReorderLevelHandler)
		r.Get("/products/{id}/ledger", handlers.GetLedgerHandler)
		r.Get("/admin/metrics", handlers.GetDashboardMetricsHandler)
	})

	r.Mount("/swagger", httpSwagger.WrapHandler)

	return r
}
