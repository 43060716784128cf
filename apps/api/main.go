package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	authhandler "github.com/slotwise/slotwise-saas/domains/auth/be/handler"
	authservice "github.com/slotwise/slotwise-saas/domains/auth/be/service"
	bookingshandler "github.com/slotwise/slotwise-saas/domains/bookings/be/handler"
	bookingsrepo "github.com/slotwise/slotwise-saas/domains/bookings/be/repo"
	bookingsservice "github.com/slotwise/slotwise-saas/domains/bookings/be/service"
	businesseshandler "github.com/slotwise/slotwise-saas/domains/businesses/be/handler"
	businessesservice "github.com/slotwise/slotwise-saas/domains/businesses/be/service"
	customershandler "github.com/slotwise/slotwise-saas/domains/customers/be/handler"
	customersrepo "github.com/slotwise/slotwise-saas/domains/customers/be/repo"
	customersservice "github.com/slotwise/slotwise-saas/domains/customers/be/service"
	widgethandler "github.com/slotwise/slotwise-saas/domains/widget/be/handler"
	platformauth "github.com/slotwise/slotwise-saas/platform/go/auth"
	"github.com/slotwise/slotwise-saas/platform/go/auth/session"
	platformlogging "github.com/slotwise/slotwise-saas/platform/go/logging"
	"github.com/slotwise/slotwise-saas/platform/go/metrics"
	platformmiddleware "github.com/slotwise/slotwise-saas/platform/go/middleware"
	"github.com/slotwise/slotwise-saas/platform/go/persistence"
	"github.com/slotwise/slotwise-saas/platform/go/tenant"
	tenantmiddleware "github.com/slotwise/slotwise-saas/platform/go/tenant/middleware"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	StoreBackend    string        `env:"STORE_BACKEND" envDefault:"memory"`   // memory | postgres
	DatabaseURL     string        `env:"DATABASE_URL"`                        // required when STORE_BACKEND=postgres
	SessionBackend  string        `env:"SESSION_BACKEND" envDefault:"memory"` // memory | redis
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
}

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "api-server",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	var (
		directory     persistence.Directory
		customersRepo customersservice.Repository
		bookingsRepo  bookingsservice.Repository
	)

	switch cfg.StoreBackend {
	case "memory":
		directory = persistence.NewMemoryDirectory()
		customersRepo = customersrepo.NewMemoryRepository()
		bookingsRepo = bookingsrepo.NewMemoryRepository()
	case "postgres":
		if cfg.DatabaseURL == "" {
			logger.Fatal("database url required when STORE_BACKEND=postgres")
		}
		pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: cfg.DatabaseURL})
		if err != nil {
			logger.Fatal("init postgres pool", zap.Error(err))
		}
		defer persistence.ClosePool(pool)

		pgDirectory, err := persistence.NewPostgresDirectory(ctx, pool)
		if err != nil {
			logger.Fatal("init directory", zap.Error(err))
		}
		directory = pgDirectory

		customersRepo, err = customersrepo.NewPostgresRepository(ctx, pool)
		if err != nil {
			logger.Fatal("init customers store", zap.Error(err))
		}
		bookingsRepo, err = bookingsrepo.NewPostgresRepository(ctx, pool)
		if err != nil {
			logger.Fatal("init bookings store", zap.Error(err))
		}
	default:
		logger.Fatal("invalid STORE_BACKEND (use memory or postgres)", zap.String("backend", cfg.StoreBackend))
	}

	var sessions session.Store
	switch cfg.SessionBackend {
	case "memory":
		sessions = session.NewMemoryStore()
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("ping redis", zap.Error(err))
		}
		defer client.Close()
		sessions = session.NewRedisStore(client)
	default:
		logger.Fatal("invalid SESSION_BACKEND (use memory or redis)", zap.String("backend", cfg.SessionBackend))
	}

	registry := prometheus.NewRegistry()
	apiMetrics := metrics.NewAPIMetrics(registry)

	resolver := tenant.NewResolver(directory)

	authService := authservice.New(directory, sessions)
	authHTTPHandler := authhandler.New(authService, logger, apiMetrics)

	customersService := customersservice.New(customersRepo)
	customersHTTPHandler := customershandler.New(customersService, logger)

	bookingsService := bookingsservice.New(bookingsRepo)
	bookingsHTTPHandler := bookingshandler.New(bookingsService, logger, apiMetrics)

	businessesService := businessesservice.New(directory, customersRepo, bookingsRepo)
	businessesHTTPHandler := businesseshandler.New(businessesService, logger)

	widgetHTTPHandler := widgethandler.New(bookingsService, logger, apiMetrics)

	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		platformmiddleware.DefaultCORS(),
	)

	rootRouter.Use(platformlogging.RequestLogger(logger))
	rootRouter.Use(metrics.Middleware(apiMetrics))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	// Public widget surface: no authentication, booking-only tenant scope.
	rootRouter.Route("/widget", func(r chi.Router) {
		r.Use(tenantmiddleware.WithScope(resolver))
		r.Get("/slots", widgetHTTPHandler.Slots)
		r.Post("/bookings", widgetHTTPHandler.CreateBooking)
	})

	apiRouter := chi.NewRouter()
	apiRouter.Use(platformauth.Sessions(sessions, directory))
	apiRouter.Use(platformmiddleware.RequestTrace)

	apiRouter.Post("/login", authHTTPHandler.Login)

	apiRouter.Group(func(r chi.Router) {
		r.Use(platformauth.RequireAuthenticated)
		r.Post("/logout", authHTTPHandler.Logout)
	})

	apiRouter.Route("/businesses", func(r chi.Router) {
		r.Use(platformauth.RequireRole(persistence.RoleSuperAdmin))
		r.Get("/", businessesHTTPHandler.List)
		r.Post("/", businessesHTTPHandler.Create)
		r.Get("/{businessID}", businessesHTTPHandler.Get)
		r.Delete("/{businessID}", businessesHTTPHandler.Delete)
	})

	apiRouter.Group(func(r chi.Router) {
		r.Use(platformauth.RequireAuthenticated)
		r.Use(tenantmiddleware.WithScope(resolver))

		r.Get("/customers", customersHTTPHandler.List)
		r.Post("/customers", customersHTTPHandler.Create)
		r.Delete("/customers/{customerID}", customersHTTPHandler.Delete)

		r.Get("/bookings", bookingsHTTPHandler.List)
		r.Post("/bookings", bookingsHTTPHandler.Create)
		r.Delete("/bookings/{bookingID}", bookingsHTTPHandler.Delete)
	})

	rootRouter.Mount("/api/v1", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
