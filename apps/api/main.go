package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	budgetshandler "github.com/acervolab/acervo-backend/domains/budgets/be/handler"
	budgetsrepo "github.com/acervolab/acervo-backend/domains/budgets/be/repo"
	budgetsservice "github.com/acervolab/acervo-backend/domains/budgets/be/service"
	companieshandler "github.com/acervolab/acervo-backend/domains/companies/be/handler"
	companiesrepo "github.com/acervolab/acervo-backend/domains/companies/be/repo"
	companiesservice "github.com/acervolab/acervo-backend/domains/companies/be/service"
	dashboardhandler "github.com/acervolab/acervo-backend/domains/dashboard/be/handler"
	dashboardrepo "github.com/acervolab/acervo-backend/domains/dashboard/be/repo"
	dashboardservice "github.com/acervolab/acervo-backend/domains/dashboard/be/service"
	deliveryhandler "github.com/acervolab/acervo-backend/domains/delivery/be/handler"
	deliveryrepo "github.com/acervolab/acervo-backend/domains/delivery/be/repo"
	deliveryservice "github.com/acervolab/acervo-backend/domains/delivery/be/service"
	platformauth "github.com/acervolab/acervo-backend/platform/go/auth"
	platformlogging "github.com/acervolab/acervo-backend/platform/go/logging"
	platformmiddleware "github.com/acervolab/acervo-backend/platform/go/middleware"
	"github.com/acervolab/acervo-backend/platform/go/persistence"
	"github.com/acervolab/acervo-backend/platform/go/storage"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	AuthProvider    string        `env:"AUTH_PROVIDER" envDefault:"firebase"` // firebase | dev
	StorageBackend  string        `env:"STORAGE_BACKEND" envDefault:"gcs"`   // gcs | local
	StorageBucket   string        `env:"STORAGE_BUCKET"`                     // required when STORAGE_BACKEND=gcs
	StorageLocalDir string        `env:"STORAGE_LOCAL_DIR" envDefault:"./.data/storage"`
	StorageLocalURL string        `env:"STORAGE_LOCAL_URL" envDefault:"http://localhost:3000/files"`
}

func main() {
	ctx := context.Background()

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

	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: cfg.DatabaseURL})
	if err != nil {
		logger.Fatal("init postgres pool", zap.Error(err))
	}
	defer persistence.ClosePool(pool)

	if err := persistence.Bootstrap(ctx, pool); err != nil {
		logger.Fatal("apply database schema", zap.Error(err))
	}

	budgetStore, err := persistence.NewBudgetStore(pool)
	if err != nil {
		logger.Fatal("init budget store", zap.Error(err))
	}
	companyStore, err := persistence.NewCompanyStore(pool)
	if err != nil {
		logger.Fatal("init company store", zap.Error(err))
	}
	projectStore, err := persistence.NewProjectStore(pool)
	if err != nil {
		logger.Fatal("init project store", zap.Error(err))
	}
	productStore, err := persistence.NewProductStore(pool)
	if err != nil {
		logger.Fatal("init product store", zap.Error(err))
	}

	authMiddleware, fbAuth := buildAuthMiddleware(ctx, cfg, logger)

	budgetService := budgetsservice.New(budgetsrepo.NewPostgresRepository(budgetStore))
	budgetHandler := budgetshandler.New(budgetService, logger)

	identity := buildIdentityProvisioner(cfg, fbAuth, logger)
	companyService := companiesservice.New(companiesrepo.NewPostgresRepository(companyStore), identity, logger)
	companyHandler := companieshandler.New(companyService, logger)

	dashboardService := dashboardservice.New(dashboardrepo.NewPostgresRepository(companyStore, projectStore), logger)
	dashboardHandler := dashboardhandler.New(dashboardService, logger)

	signer := buildSigner(ctx, cfg, logger)
	deliveryService := deliveryservice.New(deliveryrepo.NewPostgresRepository(productStore), signer)
	deliveryHandler := deliveryhandler.New(deliveryService, logger)

	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		platformmiddleware.DefaultCORS(),
	)

	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	apiRouter := chi.NewRouter()
	apiRouter.Use(authMiddleware)
	apiRouter.Use(platformauth.RequireUser())
	apiRouter.Use(platformmiddleware.ActorTrace)

	apiRouter.Route("/budgets", budgetHandler.Register)
	apiRouter.Route("/companies", companyHandler.Register)
	apiRouter.Route("/dashboard", dashboardHandler.Register)
	apiRouter.Route("/delivery", deliveryHandler.Register)

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

func buildSigner(ctx context.Context, cfg config, logger *zap.Logger) storage.URLSigner {
	switch cfg.StorageBackend {
	case "gcs":
		if cfg.StorageBucket == "" {
			logger.Fatal("storage bucket required when STORAGE_BACKEND=gcs")
		}
		gcsClient, err := gcs.NewClient(ctx)
		if err != nil {
			logger.Fatal("init gcs client", zap.Error(err))
		}
		signer, err := storage.NewGCSSigner(gcsClient, cfg.StorageBucket)
		if err != nil {
			logger.Fatal("init gcs signer", zap.Error(err))
		}
		return signer
	case "local":
		if strings.TrimSpace(cfg.StorageLocalDir) == "" {
			logger.Fatal("storage local dir required when STORAGE_BACKEND=local")
		}
		signer, err := storage.NewLocalSigner(cfg.StorageLocalDir, cfg.StorageLocalURL)
		if err != nil {
			logger.Fatal("init local signer", zap.Error(err))
		}
		return signer
	default:
		logger.Fatal("invalid STORAGE_BACKEND (use gcs or local)", zap.String("backend", cfg.StorageBackend))
		return nil
	}
}
