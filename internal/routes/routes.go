package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nova-pay/nova_pay/internal/config"
	"github.com/nova-pay/nova_pay/internal/ledger"
	"github.com/nova-pay/nova_pay/internal/middleware"
	"github.com/nova-pay/nova_pay/internal/notification"
	"github.com/nova-pay/nova_pay/internal/storage/memory"
	"github.com/nova-pay/nova_pay/internal/storage/pgtx"
	"github.com/nova-pay/nova_pay/internal/transfer"
	"github.com/nova-pay/nova_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg        config.Config
	DB         *pgxpool.Pool
	Cache      *redis.Client
	Logger     *slog.Logger
	Dispatcher *notification.Dispatcher
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Outside of dev the stores must be durable, even though main also checks.
	if !d.Cfg.IsDev() && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var (
		walletRepo  wallet.Repository
		ledgerStore ledger.Store
		txRunner    transfer.TxRunner
	)
	if d.DB != nil {
		walletRepo = wallet.NewPostgresRepository(d.DB)
		ledgerStore = ledger.NewPostgresStore(d.DB)
		txRunner = pgtx.NewManager(d.DB)
	} else {
		mem := memory.New()
		walletRepo, ledgerStore, txRunner = mem, mem, mem
	}

	walletSvc := wallet.NewService(walletRepo, ledgerStore)
	transferSvc := transfer.NewService(transfer.Config{
		CommissionThreshold: d.Cfg.CommissionThreshold,
		CommissionPercent:   d.Cfg.CommissionPercent,
		AdminWalletID:       d.Cfg.AdminWalletID,
	}, walletRepo, ledgerStore, txRunner, d.Dispatcher)

	walletHandler := wallet.NewHandler(walletSvc)
	transferHandler := transfer.NewHandler(transferSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterWalletRoutes(api, walletHandler)
	RegisterTransferRoutes(api, transferHandler)

	return nil
}
