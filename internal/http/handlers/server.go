package handlers

import (
	"github.com/rogerio-castellano/coffee-storefront/internal/auth"
	"github.com/rogerio-castellano/coffee-storefront/internal/cart"
	"github.com/rogerio-castellano/coffee-storefront/internal/checkout"
	"github.com/rogerio-castellano/coffee-storefront/internal/repo"
)

var (
	productRepo      repo.ProductRepository
	inventoryRepo    repo.InventoryRepository
	orderRepo        repo.OrderRepository
	subscriptionRepo repo.SubscriptionRepository
	ledgerRepo       repo.LedgerRepository
	metricsRepo      repo.MetricsRepository

	cartService *cart.Service
	finalizer   *checkout.Finalizer
	otpService  *auth.OTPService
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetInventoryRepo(r repo.InventoryRepository) {
	inventoryRepo = r
}

func SetOrderRepo(r repo.OrderRepository) {
	orderRepo = r
}

func SetSubscriptionRepo(r repo.SubscriptionRepository) {
	subscriptionRepo = r
}

func SetLedgerRepo(r repo.LedgerRepository) {
	ledgerRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetCartService(s *cart.Service) {
	cartService = s
}

func SetFinalizer(f *checkout.Finalizer) {
	finalizer = f
}

func SetOTPService(s *auth.OTPService) {
	otpService = s
}
