package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/jhoicas/funko-api/docs"
	"github.com/jhoicas/funko-api/internal/application/auth"
	"github.com/jhoicas/funko-api/internal/application/ports"
	"github.com/jhoicas/funko-api/internal/application/usecase"
	"github.com/jhoicas/funko-api/internal/domain/repository"
	"github.com/jhoicas/funko-api/internal/infrastructure/cache"
	"github.com/jhoicas/funko-api/internal/infrastructure/events"
	"github.com/jhoicas/funko-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/funko-api/internal/infrastructure/pdf"
	"github.com/jhoicas/funko-api/internal/infrastructure/postgres"
	"github.com/jhoicas/funko-api/internal/infrastructure/storage"
	"github.com/jhoicas/funko-api/internal/interfaces/graphql"
	httpRouter "github.com/jhoicas/funko-api/internal/interfaces/http"
	"github.com/jhoicas/funko-api/internal/interfaces/ws"
	"github.com/jhoicas/funko-api/pkg/config"
	"github.com/jhoicas/funko-api/pkg/logger"
)

// @title        Funko API
// @version      1.0
// @description  Catálogo de Funkos: categorías, productos, imágenes, informe PDF y notificaciones en tiempo real.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization

// repositories implementaciones de los repositorios según DB_DRIVER.
type repositories struct {
	categories repository.CategoryRepository
	items      repository.ItemRepository
	users      repository.UserRepository
	tx         ports.TxRunner
	close      func()
}

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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repos, err := openRepositories(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer repos.close()

	cacheStore, backend, err := openCache(ctx, cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	instrumented := cache.NewInstrumentedStore(cacheStore, backend, prometheus.DefaultRegisterer)
	catalogCache := usecase.NewCatalogCache(instrumented, cfg.Cache.Prefix, cfg.Cache.TTL, log.Component("cache"))
	log.Info().Str("backend", backend).Dur("ttl", cfg.Cache.TTL).Msg("caché lista")

	images, err := storage.NewLocalStorage(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de imágenes")
	}

	// Notificaciones: bus en proceso → hub WebSocket
	bus := events.NewBus(log.Component("events"), prometheus.DefaultRegisterer)
	hub := ws.NewHub(log.Component("ws"), prometheus.DefaultRegisterer)
	messages, err := bus.Subscribe(ctx, events.TopicCatalog)
	if err != nil {
		log.Fatal().Err(err).Msg("suscripción al bus de eventos")
	}
	go hub.Consume(ctx, messages)

	policy, err := usecase.ParseCategoryDeletePolicy(cfg.Catalog.CategoryDeletePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de borrado de categorías")
	}

	categoryUC := usecase.NewCategoryUseCase(repos.categories, repos.items, repos.tx, catalogCache, bus, policy, log.Component("categories"))
	itemUC := usecase.NewItemUseCase(repos.items, categoryUC, catalogCache, images, bus, log.Component("items"))
	reportUC := usecase.NewReportUseCase(itemUC, infrapdf.NewCatalogGenerator(cfg.App.Name))
	authUC := auth.NewAuthUseCase(repos.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	gqlExec, err := graphql.NewExecutor(categoryUC, itemUC, log.Component("graphql"))
	if err != nil {
		log.Fatal().Err(err).Msg("esquema GraphQL")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    storage.MaxImageSize + 1<<20,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Funko API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CategoryUC: categoryUC,
		ItemUC:     itemUC,
		ReportUC:   reportUC,
		GraphQL:    gqlExec,
		JWTSecret:  cfg.JWT.Secret,
		ImagesDir:  images.Dir(),
		ImagesPath: cfg.Storage.PublicPath,
		Log:        log.Component("http"),
	})

	pushServer := ws.NewServer(cfg.Push.Addr(), hub, prometheus.DefaultGatherer)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	go func() {
		log.Info().Str("addr", cfg.Push.Addr()).Msg("servidor de notificaciones escuchando")
		if err := pushServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("servidor de notificaciones finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidores...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
	hub.CloseAll()
	if err := pushServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor de notificaciones")
	}
	stop()
	if err := bus.Close(); err != nil {
		log.Error().Err(err).Msg("cierre del bus de eventos")
	}
	if closer, ok := cacheStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("cierre de la caché")
		}
	}

	log.Info().Msg("aplicación detenida")
}

func openRepositories(ctx context.Context, cfg config.DBConfig) (*repositories, error) {
	if cfg.Driver == "memory" {
		store := memory.NewStore()
		return &repositories{
			categories: store.Categories(),
			items:      store.Items(),
			users:      store.Users(),
			tx:         store.TxRunner(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &repositories{
		categories: postgres.NewCategoryRepository(pool),
		items:      postgres.NewItemRepository(pool),
		users:      postgres.NewUserRepository(pool),
		tx:         postgres.NewTxRunner(pool),
		close:      pool.Close,
	}, nil
}

// openCache Redis si REDIS_URL está definido; si no, caché en memoria del proceso.
func openCache(ctx context.Context, cfg config.CacheConfig) (ports.CacheStore, string, error) {
	if cfg.RedisURL == "" {
		return cache.NewMemoryStore(cfg.Capacity, cfg.TTL), "memory", nil
	}
	store, err := cache.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		return nil, "", err
	}
	return store, "redis", nil
}
