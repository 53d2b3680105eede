package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"book-review/internal/auth"
	"book-review/internal/config"
	apphttp "book-review/internal/http"
	"book-review/internal/metrics"
	"book-review/internal/repository/sqlite"
	"book-review/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	bookRepo := sqlite.NewBookRepository(db)
	reviewRepo := sqlite.NewReviewRepository(db)
	commentRepo := sqlite.NewCommentRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := taskRepo.Init(ctx); err != nil {
		logger.Fatalf("init task repository: %v", err)
	}
	if err := bookRepo.Init(ctx); err != nil {
		logger.Fatalf("init book repository: %v", err)
	}
	if err := reviewRepo.Init(ctx); err != nil {
		logger.Fatalf("init review repository: %v", err)
	}
	if err := commentRepo.Init(ctx); err != nil {
		logger.Fatalf("init comment repository: %v", err)
	}

	policy := auth.NewPolicy()
	userService := service.NewUserService(userRepo)
	taskService := service.NewTaskService(taskRepo, policy)
	bookService := service.NewBookService(bookRepo)
	reviewService := service.NewReviewService(reviewRepo, bookRepo, policy)
	commentService := service.NewCommentService(commentRepo, reviewRepo, policy)

	if cfg.Auth.AdminUsername != "" {
		if err := userService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			logger.Fatalf("ensure admin account: %v", err)
		}
		logger.Infof("admin account %q ready", cfg.Auth.AdminUsername)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	authLimiter := apphttp.NewRateLimiter(apphttp.DefaultRateLimiterConfig())
	defer authLimiter.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		taskService,
		bookService,
		reviewService,
		commentService,
		tokens,
		policy,
		logger,
	)
	handler.RegisterRoutes(router, collector, authLimiter, metrics.Handler(registry))

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
