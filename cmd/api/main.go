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

	"github.com/jhoicas/donaciones-api/internal/application/allocation"
	"github.com/jhoicas/donaciones-api/internal/application/donation"
	"github.com/jhoicas/donaciones-api/internal/application/inventory"
	"github.com/jhoicas/donaciones-api/internal/application/request"
	"github.com/jhoicas/donaciones-api/internal/application/usecase"
	"github.com/jhoicas/donaciones-api/internal/infrastructure/cache"
	"github.com/jhoicas/donaciones-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/donaciones-api/internal/interfaces/http"
	"github.com/jhoicas/donaciones-api/pkg/config"
	"github.com/jhoicas/donaciones-api/pkg/logger"
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

	// Caché opcional: sin REDIS_ADDR las proyecciones van directo a la base.
	var cacheClient cache.Client = cache.Noop{}
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Error().Err(err).Msg("conexión a Redis, continuando sin caché")
		} else {
			defer redisClient.Close()
			cacheClient = redisClient
		}
	}

	productRepo := postgres.NewProductRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	donationRepo := postgres.NewDonationRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)

	donationTx := postgres.NewTxRunner(pool)
	requestTx := postgres.NewRequestTxRunner(pool)
	allocationTx := postgres.NewAllocationTxRunner(pool)

	productUC := usecase.NewProductUseCase(productRepo)
	donationUC := donation.NewUseCase(donationTx, donationRepo, productRepo, cacheClient, log)
	requestUC := request.NewUseCase(requestTx, requestRepo, productRepo, log)
	allocationUC := allocation.NewUseCase(allocationTx, requestRepo, assignmentRepo, cacheClient, log)
	inventoryUC := inventory.NewQueriesUseCase(productRepo, lotRepo, cacheClient)

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
		Title:    "Donaciones API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		DonationUC:   donationUC,
		RequestUC:    requestUC,
		AllocationUC: allocationUC,
		InventoryUC:  inventoryUC,
		JWTSecret:    cfg.JWT.Secret,
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
