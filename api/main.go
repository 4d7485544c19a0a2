package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/time/rate"

	"github.com/rogerio-castellano/coffee-storefront/internal/auth"
	"github.com/rogerio-castellano/coffee-storefront/internal/cart"
	"github.com/rogerio-castellano/coffee-storefront/internal/checkout"
	"github.com/rogerio-castellano/coffee-storefront/internal/config"
	"github.com/rogerio-castellano/coffee-storefront/internal/db"
	api "github.com/rogerio-castellano/coffee-storefront/internal/http"
	"github.com/rogerio-castellano/coffee-storefront/internal/http/ban"
	"github.com/rogerio-castellano/coffee-storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/coffee-storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/coffee-storefront/internal/redissvc"
	"github.com/rogerio-castellano/coffee-storefront/internal/repo"

	_ "github.com/rogerio-castellano/coffee-storefront/docs"
)

var ctx = context.Background()

// @title Coffee Storefront API
// @version 1.0
// @description REST API for the coffee storefront: catalog, cart reservations, checkout, subscriptions.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Fatalf("Could not create trace exporter: %v", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(ctx)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	defer rdb.Close()

	redisService := redissvc.NewRedisService(rdb, ctx)
	ban.SetRedisService(redisService)
	ban.SetAlertMail(cfg.AlertFrom, cfg.AlertTo, cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}
	defer database.Close()
	if err := db.EnsureSchema(database); err != nil {
		log.Fatalf("Could not ensure schema: %v", err)
	}

	productRepo := repo.NewPostgresProductRepository(database)
	inventoryRepo := repo.NewPostgresInventoryRepository(database)
	orderRepo := repo.NewPostgresOrderRepository(database)
	ledgerRepo := repo.NewPostgresLedgerRepository(database)

	handlers.SetProductRepo(productRepo)
	handlers.SetInventoryRepo(inventoryRepo)
	handlers.SetOrderRepo(orderRepo)
	handlers.SetLedgerRepo(ledgerRepo)
	handlers.SetSubscriptionRepo(repo.NewPostgresSubscriptionRepository(database))

	metricsRepo := repo.NewInMemoryMetricsRepository()
	metricsRepo.SetRepositories(productRepo, inventoryRepo, orderRepo)
	handlers.SetMetricsRepo(metricsRepo)

	cartService := cart.NewService(productRepo, inventoryRepo, ledgerRepo, cfg.ReservationTTL)
	handlers.SetCartService(cartService)

	handlers.SetFinalizer(checkout.NewFinalizer(cartService, inventoryRepo, orderRepo, ledgerRepo, checkout.Pricing{
		ShippingFlatCents:     cfg.ShippingFlatCents,
		FreeShippingOverCents: cfg.FreeShippingOverCents,
		TaxBasisPoints:        cfg.TaxBasisPoints,
	}))

	auth.SetSecret(cfg.JWTSecret)
	mailer := auth.SMTPMailer{
		Server: cfg.SMTPServer,
		Port:   cfg.SMTPPort,
		User:   cfg.SMTPUser,
		Pass:   cfg.SMTPPass,
		From:   cfg.AlertFrom,
	}
	handlers.SetOTPService(auth.NewOTPService(redisService, mailer, cfg.OTPTTL, cfg.AdminEmails))

	apiPool := rl.NewPool(10, 30)
	otpPool := rl.NewPool(rate.Every(20*time.Second), 3)
	api.SetRateLimitPools(apiPool, otpPool)

	go apiPool.StartCleanupLoop()
	go otpPool.StartCleanupLoop()
	go ban.StartDailyBanSummary(24 * time.Hour)
	go cartService.StartExpirySweeper(time.Minute)

	r := api.NewRouter()
	log.Printf("✅ Storefront running on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}
