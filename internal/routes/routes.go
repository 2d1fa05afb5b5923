package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/naya-pay/naya_pay/internal/analytics"
	"github.com/naya-pay/naya_pay/internal/auth"
	"github.com/naya-pay/naya_pay/internal/bills"
	"github.com/naya-pay/naya_pay/internal/cards"
	"github.com/naya-pay/naya_pay/internal/config"
	"github.com/naya-pay/naya_pay/internal/identity"
	"github.com/naya-pay/naya_pay/internal/kvstore"
	"github.com/naya-pay/naya_pay/internal/kyc"
	"github.com/naya-pay/naya_pay/internal/ledger"
	"github.com/naya-pay/naya_pay/internal/middleware"
	"github.com/naya-pay/naya_pay/internal/notification"
	"github.com/naya-pay/naya_pay/internal/payments"
	"github.com/naya-pay/naya_pay/internal/prefs"
	"github.com/naya-pay/naya_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Storage backends; dev runs fall back to in-memory implementations.
	var ledgerBackend ledger.Ledger
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgresLedger(d.DB)
	} else {
		ledgerBackend = ledger.NewInMemory()
	}
	if err := ledgerBackend.EnsureAccount(context.Background(), ledger.TreasuryAccountCode); err != nil {
		return fmt.Errorf("ensure treasury account: %w", err)
	}

	var walletRepo wallet.Repository
	var identityRepo identity.Repository
	var paymentRepo payments.Repository
	var cardRepo cards.Repository
	var kycRepo kyc.Repository
	if d.DB != nil {
		walletRepo = wallet.NewPostgresRepository(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
		paymentRepo = payments.NewPostgresRepository(d.DB)
		cardRepo = cards.NewPostgresRepository(d.DB)
		kycRepo = kyc.NewPostgresRepository(d.DB)
	} else {
		walletRepo = wallet.NewMemoryRepository()
		identityRepo = identity.NewMemoryRepository()
		paymentRepo = payments.NewMemoryRepository()
		cardRepo = cards.NewMemoryRepository()
		kycRepo = kyc.NewMemoryRepository()
	}

	var store kvstore.Store
	if d.Cache != nil {
		store = kvstore.NewRedisStore(d.Cache, "nayapay")
	} else {
		store = kvstore.NewMemory()
	}

	// Services
	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(walletRepo, ledgerBackend, d.Cfg.SeedBalanceMinor)
	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg, identityRepo)
	otpSvc := auth.NewOTPService(store, d.Cfg.OTPTTL, d.Cfg.ResetTokenTTL)
	paymentSvc := payments.NewService(ledgerBackend, walletSvc, paymentRepo, notifier)
	billSvc, err := bills.NewService(context.Background(), ledgerBackend, walletSvc, notifier)
	if err != nil {
		return err
	}
	cardSvc := cards.NewService(cardRepo)
	kycSvc := kyc.NewService(kycRepo, identityRepo, notifier)
	prefsSvc := prefs.NewService(store)
	analyticsSvc := analytics.NewService(walletSvc)

	// Handlers
	authHandler := auth.NewHandler(identitySvc, authSvc, otpSvc, walletSvc, notifier)
	walletHandler := wallet.NewHandler(walletSvc)
	paymentHandler := payments.NewHandler(paymentSvc, walletSvc)
	billHandler := bills.NewHandler(billSvc, walletSvc)
	cardHandler := cards.NewHandler(cardSvc)
	kycHandler := kyc.NewHandler(kycSvc)
	prefsHandler := prefs.NewHandler(prefsSvc)
	analyticsHandler := analytics.NewHandler(analyticsSvc, walletSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes. Idempotency runs behind the auth guard so cache keys
	// carry the authenticated user id.
	protected := api.Group("", middleware.RequireAuth(authSvc))
	if d.Cache != nil {
		protected.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	RegisterSessionRoutes(protected, authHandler)
	RegisterWalletRoutes(protected, walletHandler)
	RegisterPaymentRoutes(protected, paymentHandler)
	RegisterUserRoutes(protected, identitySvc, walletSvc, paymentRepo)
	RegisterBillRoutes(protected, billHandler)
	RegisterCardRoutes(protected, cardHandler)
	RegisterKYCRoutes(protected, kycHandler)
	RegisterPrefsRoutes(protected, prefsHandler)
	RegisterAnalyticsRoutes(protected, analyticsHandler)

	// Admin routes
	admin := protected.Group("/admin", middleware.RequireRole(identity.RoleAdmin))
	RegisterAdminRoutes(admin, adminDeps{
		ledger:   ledgerBackend,
		wallets:  walletSvc,
		users:    identityRepo,
		payments: paymentRepo,
		kyc:      kycSvc,
		kycH:     kycHandler,
	})

	return nil
}
