package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/piccolaroma/cadena-api/internal/application/auth"
	"github.com/piccolaroma/cadena-api/internal/application/inventory"
	"github.com/piccolaroma/cadena-api/internal/application/orders"
	"github.com/piccolaroma/cadena-api/internal/application/payments"
	"github.com/piccolaroma/cadena-api/internal/application/usecase"
	infrapdf "github.com/piccolaroma/cadena-api/internal/infrastructure/pdf"
	"github.com/piccolaroma/cadena-api/internal/infrastructure/postgres"
	httpRouter "github.com/piccolaroma/cadena-api/internal/interfaces/http"
	"github.com/piccolaroma/cadena-api/pkg/config"
	"github.com/piccolaroma/cadena-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	branchRepo := postgres.NewBranchRepository(pool)
	menuRepo := postgres.NewMenuItemRepository(pool)
	riderRepo := postgres.NewRiderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	recordRepo := postgres.NewInventoryRecordRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	projectionRepo := postgres.NewInventoryProjectionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockEngine := inventory.NewStockMovementEngine(recordRepo, movementRepo, inventory.EngineConfig{
		MaxAttempts:  cfg.Inventory.MaxAttempts,
		RetryBackoff: time.Duration(cfg.Inventory.RetryBackoffMS) * time.Millisecond,
	}, log)
	recordUC := inventory.NewRecordUseCase(recordRepo, movementRepo, branchRepo, menuRepo)

	pdfGenerator := infrapdf.NewMarotoSummaryGenerator(cfg.App.Name)
	projector := inventory.NewProjector(projectionRepo, branchRepo, pdfGenerator)

	orderSM := orders.NewStateMachine(orderRepo, recordRepo, stockEngine, cfg.Inventory.ConsumeOn, log)
	orderUC := orders.NewOrderUseCase(txRunner, orderRepo, branchRepo, menuRepo, riderRepo)
	paymentUC := payments.NewPaymentUseCase(paymentRepo, orderRepo, orderSM, log)

	branchUC := usecase.NewBranchUseCase(branchRepo)
	menuUC := usecase.NewMenuItemUseCase(menuRepo)
	riderUC := usecase.NewRiderUseCase(riderRepo, branchRepo)
	authUC := auth.NewAuthUseCase(userRepo, branchRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cadena Back-Office API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		BranchUC:    branchUC,
		MenuUC:      menuUC,
		RiderUC:     riderUC,
		OrderUC:     orderUC,
		OrderSM:     orderSM,
		RecordUC:    recordUC,
		StockEngine: stockEngine,
		Projector:   projector,
		PaymentUC:   paymentUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
