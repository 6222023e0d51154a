package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/bar-inventario-api/internal/application/analytics"
	"github.com/jhoicas/bar-inventario-api/internal/application/auth"
	"github.com/jhoicas/bar-inventario-api/internal/application/inventory"
	"github.com/jhoicas/bar-inventario-api/internal/application/ports"
	"github.com/jhoicas/bar-inventario-api/internal/application/summary"
	"github.com/jhoicas/bar-inventario-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/bar-inventario-api/internal/infrastructure/pdf"
	"github.com/jhoicas/bar-inventario-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bar-inventario-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/bar-inventario-api/internal/interfaces/http"
	"github.com/jhoicas/bar-inventario-api/internal/worker"
	"github.com/jhoicas/bar-inventario-api/pkg/config"
	"github.com/jhoicas/bar-inventario-api/pkg/logger"
	"github.com/jhoicas/bar-inventario-api/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("version", version).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry, version)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar telemetría")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.MigrateOnStart {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Int("aplicadas", applied).Msg("migraciones al día")
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	summaryRepo := postgres.NewSalesSummaryRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	healthRepo := postgres.NewHealthRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Sin credenciales de Supabase las subidas responden 502.
	var imageStorage ports.ImageStorage
	if s := storage.NewSupabaseStorage(cfg.Storage); s != nil {
		imageStorage = s
	} else {
		log.Warn().Msg("SUPABASE_URL/SUPABASE_SERVICE_ROLE sin definir: subida de imágenes deshabilitada")
	}

	ledgerUC := inventory.NewLedgerUseCase(txRunner, saleRepo, movementRepo, log)
	summaryUC := summary.NewUseCase(txRunner, summaryRepo, log)
	analyticsUC := usecase.NewAnalyticsUseCase(analyticsRepo, log, cfg.Reports.Timeout)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsUC)
	userUC := usecase.NewUserUseCase(userRepo, imageStorage)
	productUC := usecase.NewProductUseCase(productRepo, imageStorage)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	cronDone := worker.StartRebuildCron(ctx, summaryUC, cfg.Reports.RebuildInterval, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    6 << 20,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bar Inventario API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:      httpRouter.NewAuthHandler(authUC),
		Users:     httpRouter.NewUserHandler(userUC),
		Products:  httpRouter.NewProductHandler(productUC),
		Inventory: httpRouter.NewInventoryHandler(ledgerUC),
		Analytics: httpRouter.NewAnalyticsHandler(analyticsUC, summaryUC, infrapdf.NewSalesReportGenerator(cfg.App.Name)),
		Dashboard: httpRouter.NewDashboardHandler(dashboardUC),
		Uploads:   httpRouter.NewUploadHandler(productUC.UploadImage, userUC.UploadPhoto),
		Web:       httpRouter.NewWebHandler(productUC, cfg.App.Name),
		Health:    httpRouter.NewHealthHandler(cfg.App.Name, healthRepo),
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	<-cronDone
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de telemetría")
	}

	log.Info().Msg("aplicación detenida")
}
