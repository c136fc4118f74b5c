package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"filedrop/internal/config"
	"filedrop/internal/domain/models"
	"filedrop/internal/domain/repositories"
	"filedrop/internal/handler"
	"filedrop/internal/middleware"
	"filedrop/internal/repository/postgres"
	"filedrop/internal/service"
	"filedrop/internal/store"
	"filedrop/internal/upload"
)

// backends are nil when the server runs memory-only
type backends struct {
	folders  repositories.FolderBackend
	items    repositories.ItemBackend
	sessions repositories.SessionBackend
	tx       repositories.TransactionManager
	close    func()
}

func main() {
	// Load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := config.Load()

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, "server", cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}
	logger := config.NewLogger(cfg.Environment, logOutput)
	slog.SetDefault(logger)

	logger.Info("starting filedrop",
		"environment", cfg.Environment,
		"store_backend", cfg.StoreBackend,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer b.close()

	storeOpts := store.Options{Logger: logger}
	folderStore := store.NewFolderStore(b.folders, storeOpts)
	itemStore := store.NewItemStore(b.items, storeOpts)
	sessionStore := store.NewSessionStore(b.sessions, storeOpts)

	for name, s := range map[string]interface{ Open(context.Context) error }{
		"folders":  folderStore,
		"items":    itemStore,
		"sessions": sessionStore,
	} {
		if err := s.Open(ctx); err != nil {
			log.Fatalf("Failed to open %s store: %v", name, err)
		}
	}
	defer folderStore.Close()
	defer itemStore.Close()
	defer sessionStore.Close()

	filer := store.NewFiler(folderStore, itemStore, b.tx)

	policy, err := upload.LoadPolicy(cfg.UploadPolicyFile)
	if err != nil {
		log.Fatalf("Failed to load upload policy: %v", err)
	}

	var transfer upload.Transfer = upload.NewSimulatedTransfer(cfg.UploadStepPercent, cfg.UploadStepDelay)
	if cfg.UploadFailureRate > 0 {
		transfer = upload.NewFlakyTransfer(transfer, cfg.UploadFailureRate)
		logger.Warn("simulated transfer failures enabled", "rate", cfg.UploadFailureRate)
	}

	pipeline := upload.NewPipeline(filer, upload.Options{
		Policy:      policy,
		Transfer:    transfer,
		Concurrency: cfg.UploadConcurrency,
		OnProgress: func(u models.InFlightUpload) {
			logger.Debug("upload progress",
				"upload_id", u.UploadID,
				"session_id", u.SessionID,
				"status", u.Status,
				"progress", u.Progress,
			)
		},
		Logger: logger,
	})

	paths, err := service.NewPathResolver(folderStore, cfg.PathCacheSize)
	if err != nil {
		log.Fatalf("Failed to create path resolver: %v", err)
	}

	folderService := service.NewFolderService(folderStore, filer, paths, logger)
	itemService := service.NewItemService(itemStore, folderStore, logger)
	uploadService := service.NewUploadService(pipeline, folderStore, sessionStore, logger)

	handlers := &handler.Handlers{
		Health:  handler.NewHealthHandler(folderStore, itemStore),
		Folders: handler.NewFolderHandler(folderService, logger),
		Items:   handler.NewItemHandler(itemService, logger),
		Uploads: handler.NewUploadHandler(uploadService, logger),
	}

	mux := http.NewServeMux()
	handlers.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Middleware chain (outermost first): request id, logging, metrics, recovery
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.Metrics()(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID()(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: corsHandler.Handler(h),
		// Multipart bodies take longer than JSON requests
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 0, // upload batches block until every item settles
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func openBackends(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backends, error) {
	switch cfg.StoreBackend {
	case "memory", "":
		return &backends{close: func() {}}, nil
	case "postgres":
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres backend")
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("database ready", "table_prefix", cfg.TablePrefix)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	txManager := postgres.NewTransactionManager(pool, logger)

	return &backends{
		folders:  postgres.NewFolderBackend(repoConfig, txManager),
		items:    postgres.NewItemBackend(repoConfig),
		sessions: postgres.NewSessionBackend(repoConfig),
		tx:       txManager,
		close:    pool.Close,
	}, nil
}
