package main

import (
	"academyhub/internal/cache"
	"academyhub/internal/config"
	"academyhub/internal/jobs"
	"academyhub/internal/logger"
	"academyhub/internal/repository"
	"academyhub/internal/service"
	"academyhub/internal/transport/rest"
	"academyhub/internal/transport/rest/middleware"
	"academyhub/internal/transport/ws"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title Academy Hub Diagnostic API
// @version 1.0
// @description Maturity diagnostic funnel: lead capture, scoring, recommendations and sales follow-up
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", "error", err)
	}
	log.Info("server exited")
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	db := mongoClient.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(pingCtx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	log.Info("connected to MongoDB", "db", cfg.MongoDB, "transactions", cfg.MongoTransactions)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	log.Info("connected to Redis", "addr", cfg.RedisAddr)

	wsHub := ws.NewHub(log)
	defer wsHub.Close()

	// Initialize repositories
	questionRepo := repository.NewQuestionRepo(db)
	ruleRepo := repository.NewRuleRepo(db)
	diagnosticRepo := repository.NewDiagnosticRepo(db)
	answerRepo := repository.NewAnswerRepo(db)
	leadRepo := repository.NewLeadRepo(db)
	accountRepo := repository.NewAccountRepo(db)
	completionStore := repository.NewCompletionStore(db, diagnosticRepo, answerRepo, leadRepo, cfg.MongoTransactions)

	// Initialize caches
	wizardCache := cache.NewWizardCache(rdb, cfg.WizardTTL)
	catalogCache := cache.NewCatalogCache(rdb, cfg.CatalogTTL)
	leadQueue := cache.NewLeadQueueCache(rdb)
	statsCache := cache.NewStatsCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg, accountRepo, log)
	catalogSvc := service.NewCatalogService(questionRepo, ruleRepo, catalogCache, log)
	leadSvc := service.NewLeadService(leadRepo, leadQueue, log)
	statsSvc := service.NewStatsService(statsCache, diagnosticRepo, leadRepo, log)
	diagnosticSvc := service.NewDiagnosticService(catalogSvc, wizardCache, completionStore, diagnosticRepo, answerRepo, authSvc, leadSvc, statsSvc, log)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	leadSvc.SetBroadcaster(wsHub)

	scheduler := jobs.NewScheduler(log)
	if err := scheduler.AddRetakeJob(cfg.RetakeCron, leadSvc, time.Duration(cfg.RetakeAfterDays)*24*time.Hour); err != nil {
		return err
	}
	scheduler.Start()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}
	limiter.TrustProxies(proxies)
	go limiter.Run(ctx, time.Hour, 2*time.Hour)

	router := rest.NewRouter(&rest.Container{
		Config:            cfg,
		Logger:            log,
		AuthService:       authSvc,
		CatalogService:    catalogSvc,
		DiagnosticService: diagnosticSvc,
		LeadService:       leadSvc,
		StatsService:      statsSvc,
		RateLimiter:       limiter,
		WSHub:             wsHub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
