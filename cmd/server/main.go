package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spidyleet/internal/api"
	"spidyleet/internal/app/service"
	"spidyleet/internal/app/session"
	"spidyleet/internal/app/worker"
	"spidyleet/internal/common/security"
	"spidyleet/internal/domain/repository"
	"spidyleet/internal/platform/backend"
	"spidyleet/internal/platform/cache"
	"spidyleet/internal/platform/config"
	"spidyleet/internal/platform/database"
	"spidyleet/internal/platform/logger"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Logging
	logger.Init(cfg.LogLevel, cfg.LogFile)
	log := logger.NewNamedLogger("server")
	defer log.Sync()
	log.Info("Configuration loaded.")

	// 3. Initialize Token Issuer
	issuer := security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp)

	// 4. Initialize Backend Client
	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		log.Fatalf("Could not create backend client: %v", err)
	}
	log.Infow("Backend client ready.", "url", cfg.BackendURL)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer bootCancel()

	// 5. Initialize Listing Cache
	var listingCache cache.Cache
	if cfg.HasRedis() {
		redisCache, err := cache.ConnectRedis(bootCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Could not connect to redis: %v", err)
		}
		defer redisCache.Close()
		listingCache = redisCache
		log.Info("Redis connected.")
	} else {
		listingCache = cache.NewLRU(cfg.ListingCacheSize, cfg.ListingCacheTTL)
		log.Info("Using in-process listing cache.")
	}

	// 6. Initialize Attempt History
	var attempts repository.AttemptRepository
	if cfg.HasDatabase() {
		db, err := database.Connect(bootCtx, cfg.DBConnStr)
		if err != nil {
			log.Fatalf("Could not connect to database: %v", err)
		}
		defer database.Close(db)
		attempts = repository.NewPgAttemptRepository(db)
		log.Info("Database connected.")
	} else {
		attempts = repository.NewMemoryAttemptRepository()
		log.Info("Keeping attempt history in memory.")
	}

	// 7. Initialize Session & Services
	sessions := session.NewStore(client)
	if _, err := sessions.CheckSession(bootCtx); err != nil {
		log.Infow("No backend session yet.", "error", err)
	}

	problemService := service.NewProblemService(client, listingCache, attempts, cfg.ListingCacheTTL)
	workspaceService, err := service.NewWorkspaceService(client, client, attempts, cfg.DefaultLanguage, cfg.MaxWorkspaces)
	if err != nil {
		log.Fatalf("Could not create workspace service: %v", err)
	}
	services := api.Services{
		Auth:       service.NewAuthService(sessions, issuer),
		Problems:   problemService,
		Authoring:  service.NewAuthoringService(client, sessions, problemService),
		Workspaces: workspaceService,
	}

	// 8. Initialize Listing Refresher (as a goroutine)
	refresher := worker.NewListingRefresher(problemService, cfg.ListingRefreshInterval, cfg.BackendTimeout)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go refresher.Start(workerCtx)

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(cfg.CORSAllowedOrigins, issuer, services)

	// a submit waits on the backend judge, hence the long write timeout
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", cfg.APIPort, err)
		}
	}()

	<-stop

	log.Info("Shutting down server...")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
	workspaceService.CloseAll()

	log.Info("Server and refresher stopped gracefully.")
}
