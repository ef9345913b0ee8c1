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

	appanalytics "github.com/jhoicas/Stockmaster-api/internal/application/analytics"
	"github.com/jhoicas/Stockmaster-api/internal/application/auth"
	"github.com/jhoicas/Stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/Stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/Stockmaster-api/internal/domain/stock"
	infracache "github.com/jhoicas/Stockmaster-api/internal/infrastructure/cache"
	infraevents "github.com/jhoicas/Stockmaster-api/internal/infrastructure/events"
	"github.com/jhoicas/Stockmaster-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Stockmaster-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Stockmaster-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Stockmaster-api/internal/interfaces/http"
	"github.com/jhoicas/Stockmaster-api/pkg/config"
	"github.com/jhoicas/Stockmaster-api/pkg/logger"
	"github.com/jhoicas/Stockmaster-api/pkg/telemetry"
)

// stores repositorios de un backend (postgres o memoria).
type stores struct {
	tx        inventory.TxRunner
	quants    repository.QuantRepository
	ops       repository.OperationRepository
	moves     repository.MoveRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	users     repository.UserRepository
	dashboard repository.DashboardRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		URLPath:        cfg.Telemetry.URLPath,
		AuthHeader:     cfg.Telemetry.AuthHeader,
		Insecure:       cfg.Telemetry.Insecure,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar OpenTelemetry")
	}

	st, err := openStores(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al store")
	}
	defer st.close()

	// KPI cache: Redis si está configurado
	var kpiCache infracache.KPICache = infracache.NoopKPICache{}
	if cfg.Redis.Addr != "" {
		rc := infracache.NewRedisKPICache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, KPIs sin caché")
		} else {
			kpiCache = rc
		}
		defer rc.Close()
	}

	// Eventos de validación: Kafka si hay brokers
	var publisher inventory.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kp := infraevents.NewKafkaPublisher(infraevents.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), log.Component("events"))
		defer kp.Close()
		publisher = kp
	}

	policy := stock.ParseOverDeliveryPolicy(cfg.Stock.OverDelivery)

	operationUC := inventory.NewOperationUseCase(inventory.OperationDeps{
		TxRunner:     st.tx,
		Operations:   st.ops,
		Products:     st.products,
		Locations:    st.locations,
		Publisher:    publisher,
		Cache:        kpiCache,
		OverDelivery: policy,
		Logger:       log.Component("inventory"),
	})
	ledgerUC := inventory.NewLedgerUseCase(st.quants, st.moves)
	slipUC := inventory.NewSlipUseCase(st.ops, st.moves, st.products, st.locations, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	dashboardUC := appanalytics.NewDashboardUseCase(st.dashboard, kpiCache, cfg.Redis.KPITTL, log.Component("dashboard"))
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
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
		Title:    "Stockmaster API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   usecase.NewProductUseCase(st.products),
		LocationUC:  usecase.NewLocationUseCase(st.locations),
		OperationUC: operationUC,
		LedgerUC:    ledgerUC,
		SlipUC:      slipUC,
		DashboardUC: dashboardUC,
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
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de OpenTelemetry")
	}

	log.Info().Msg("aplicación detenida")
}

// openStores postgres (pool + esquema opcional) o store en memoria según DB.Driver.
func openStores(ctx context.Context, cfg config.DBConfig) (*stores, error) {
	if cfg.UsesMemory() {
		m := memory.New()
		return &stores{
			tx:        memory.NewTxRunner(m),
			quants:    m.Quants(),
			ops:       m.Operations(),
			moves:     m.Moves(),
			products:  m.Products(),
			locations: m.Locations(),
			users:     m.Users(),
			dashboard: m.Dashboard(),
			close:     func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &stores{
		tx:        postgres.NewTxRunner(pool),
		quants:    postgres.NewQuantRepository(pool),
		ops:       postgres.NewOperationRepository(pool),
		moves:     postgres.NewMoveRepository(pool),
		products:  postgres.NewProductRepository(pool),
		locations: postgres.NewLocationRepository(pool),
		users:     postgres.NewUserRepository(pool),
		dashboard: postgres.NewDashboardRepository(pool),
		close:     pool.Close,
	}, nil
}
