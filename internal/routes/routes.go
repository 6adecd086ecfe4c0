package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/communipay/communipay/internal/community"
	"github.com/communipay/communipay/internal/config"
	"github.com/communipay/communipay/internal/ledger"
	"github.com/communipay/communipay/internal/middleware"
	"github.com/communipay/communipay/internal/payments"
	"github.com/communipay/communipay/internal/storage"
	"github.com/communipay/communipay/internal/wallet"
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
	if !isDev(d.Cfg.Env) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
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
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Stores and the unit of work. Dev mode without a database falls back
	// to the in-memory implementations.
	var (
		walletStore    wallet.Store
		ledgerBackend  ledger.Ledger
		communityStore community.Store
		uow            storage.UnitOfWork
	)
	if d.DB != nil {
		walletStore = wallet.NewPostgresStore(d.DB)
		ledgerBackend = ledger.NewPostgresLedger(d.DB)
		communityStore = community.NewPostgresStore(d.DB)
		uow = storage.NewPgUnitOfWork(d.DB)
	} else {
		memWallets := wallet.NewMemoryStore()
		memLedger := ledger.NewMemoryLedger()
		walletStore = memWallets
		ledgerBackend = memLedger
		communityStore = community.NewMemoryStore()
		uow = storage.NewMemoryUnitOfWork(memWallets, memLedger)
	}

	walletSvc := wallet.NewService(walletStore, communityStore, uow)
	sharingMgr := wallet.NewSharingManager(walletStore, uow)
	engine := payments.NewEngine(walletStore, ledgerBackend, uow)

	walletHandler := wallet.NewHandler(walletSvc, sharingMgr)
	paymentHandler := payments.NewHandler(engine, ledgerBackend)

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

	// All payment and wallet routes require a resolved caller identity.
	protected := api.Group("", middleware.Identity())
	RegisterWalletRoutes(protected, walletHandler)
	RegisterPaymentRoutes(protected, paymentHandler)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
