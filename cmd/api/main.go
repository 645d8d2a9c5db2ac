package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"armory-api/internal/config"
	"armory-api/internal/feed"
	"armory-api/internal/handler"
	"armory-api/internal/repository"
	"armory-api/internal/router"
	"armory-api/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting armory API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize inventory store based on config
	var store repository.InventoryStore
	var err error
	switch cfg.Store.Type {
	case "redis":
		store, err = repository.NewRedisInventoryStore(repository.RedisStoreConfig{
			Addr:      cfg.Store.RedisAddress(),
			Password:  cfg.Store.RedisPassword,
			DB:        cfg.Store.RedisDB,
			TTL:       cfg.Store.RedisTTL,
			BatchSize: cfg.Store.BatchSize,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Redis store: %v", err)
		}
		log.Println("Redis inventory store initialized")
	case "postgres", "postgresql":
		store, err = repository.NewPostgresInventoryStore(cfg.Store.PostgresDSN(), cfg.Store.BatchSize)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL store: %v", err)
		}
		log.Println("PostgreSQL inventory store initialized")
	case "mysql":
		store, err = repository.NewMySQLInventoryStore(cfg.Store.MySQLDSN(), cfg.Store.BatchSize)
		if err != nil {
			log.Fatalf("Failed to initialize MySQL store: %v", err)
		}
		log.Println("MySQL inventory store initialized")
	default: // sqlite
		store, err = repository.NewSQLiteInventoryStore(cfg.Store.Path, cfg.Store.BatchSize)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite store: %v", err)
		}
		log.Println("SQLite inventory store initialized")
	}
	defer store.Close()

	// Initialize feed client and sync service (optional: the product API
	// still serves the last snapshot when feed credentials are absent)
	var syncHandler *handler.SyncHandler
	feedClient, err := feed.NewClient(cfg.Feed)
	if err != nil {
		log.Printf("Warning: feed client unavailable: %v", err)
	} else {
		parser := feed.NewParser(cfg.Feed)
		syncService := service.NewSyncService(feedClient, parser, store, service.SyncOptions{
			Budget:            cfg.Sync.Budget,
			ExposeFileListing: cfg.Sync.DebugExposeFileList,
			Redact: func(msg string) string {
				return feed.Redact(msg, cfg.Feed)
			},
		})
		syncHandler = handler.NewSyncHandler(syncService)
		log.Println("Sync service initialized")
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(cfg.Feed, cfg.App.Version)
	productHandler := handler.NewProductHandler(store)

	var debugHandler *handler.DebugHandler
	if cfg.App.Debug {
		debugHandler = handler.NewDebugHandler(cfg)
	}

	// Create router
	r := router.New(router.Config{
		HealthHandler:  healthHandler,
		SyncHandler:    syncHandler,
		ProductHandler: productHandler,
		DebugHandler:   debugHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
