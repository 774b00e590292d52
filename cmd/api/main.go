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
	"github.com/tu-usuario/salon-stock/internal/application/auth"
	"github.com/tu-usuario/salon-stock/internal/application/movement"
	"github.com/tu-usuario/salon-stock/internal/application/usecase"
	infracache "github.com/tu-usuario/salon-stock/internal/infrastructure/cache"
	infranats "github.com/tu-usuario/salon-stock/internal/infrastructure/nats"
	"github.com/tu-usuario/salon-stock/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/salon-stock/internal/interfaces/http"
	"github.com/tu-usuario/salon-stock/pkg/config"
	"github.com/tu-usuario/salon-stock/pkg/logger"
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
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	ledgerRepo := postgres.NewStockLedgerRepository(pool)
	auditRepo := postgres.NewLedgerMovementRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché opcional para la consulta de catálogo común.
	var cache movement.Cache
	if cfg.Redis.Addr != "" {
		redisClient, err := infracache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, continuando sin caché")
		} else {
			defer redisClient.Close()
			cache = redisClient
		}
	}

	// Publicación opcional de eventos de ciclo de vida.
	var events movement.EventPublisher
	if cfg.NATS.URL != "" {
		publisher, err := infranats.NewPublisher(cfg.NATS.URL, log)
		if err != nil {
			log.Warn().Err(err).Msg("NATS no disponible, continuando sin eventos")
		} else {
			defer publisher.Close()
			events = publisher
		}
	}

	manager := movement.NewManager(txRunner, movRepo, ledgerRepo, branchRepo, productRepo, events, log, movement.ManagerConfig{
		DropZeroFulfillItems: cfg.Movements.DropZeroFulfillItems,
	})
	approval := movement.NewApprovalEngine(txRunner, movRepo, ledgerRepo, events, log)
	resolver := movement.NewResolver(movRepo, ledgerRepo, cache, log)

	branchUC := usecase.NewBranchUseCase(branchRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, auditRepo, branchRepo, productRepo)
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
		Title:    "Salon Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BranchUC:  branchUC,
		ProductUC: productUC,
		LedgerUC:  ledgerUC,
		Manager:   manager,
		Approval:  approval,
		Resolver:  resolver,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
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
