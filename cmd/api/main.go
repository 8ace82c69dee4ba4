package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rentora/internal/config"
	"rentora/internal/database"
	"rentora/internal/jobs"
	"rentora/internal/middleware"
	"rentora/internal/modules/auth"
	"rentora/internal/modules/availability"
	"rentora/internal/modules/booking"
	"rentora/internal/modules/chat"
	"rentora/internal/modules/flow"
	"rentora/internal/modules/listing"
	"rentora/internal/modules/notification"
	"rentora/internal/modules/search"
	jwtsvc "rentora/internal/pkg/jwt"
	"rentora/internal/pkg/logger"
	"rentora/internal/pkg/metrics"
	"rentora/internal/repository"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration error", "error", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	pg := database.IsPostgres(db)

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("migration failed", "error", err)
	}
	if err := repository.EnsureConstraints(db, pg); err != nil {
		log.Fatal("constraint setup failed", "error", err)
	}

	m := metrics.New("rentora")

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db, pg)
	sessionRepo := repository.NewSearchSessionRepository(db)
	chatRepo := repository.NewChatRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	engine := availability.NewEngine(bookingRepo)
	notifier := notification.NewService(notificationRepo, listingRepo, notification.NewLogTransport(log), m, log)

	authService := auth.NewService(userRepo, tokens, log)
	listingService := listing.NewService(listingRepo, log)
	searchService := search.NewService(listingRepo, engine, sessionRepo, log)
	bookingService := booking.NewService(bookingRepo, listingRepo, engine, notifier, m, log)

	drafts := flow.NewDraftStore(cfg.DraftTTL)
	flowService := flow.NewService(drafts, searchService, bookingService, log)

	hub := chat.NewHub()
	chatService := chat.NewService(chatRepo, bookingRepo, listingRepo, hub, notifier, log)

	authHandler := auth.NewHandler(authService, log)
	listingHandler := listing.NewHandler(listingService, log)
	searchHandler := search.NewHandler(searchService, log)
	bookingHandler := booking.NewHandler(bookingService, log)
	flowHandler := flow.NewHandler(flowService, bookingService, log)
	chatHandler := chat.NewHandler(chatService, hub, log)
	notificationHandler := notification.NewHandler(notifier, log)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(log), middleware.Recovery(log))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(tokens))
		{
			listingHandler.RegisterRoutes(protected)
			searchHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			flowHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := jobs.NewReconciler(bookingRepo, bookingService, cfg.ApprovalWindow, m, log)
	go reconciler.RunExpiry(ctx, cfg.ExpirySweepInterval)
	go reconciler.RunCompletion(ctx, cfg.CompletionSweepInterval)
	go reconciler.RunPlaceholders(ctx, cfg.PlaceholderSweepInterval)

	go func() {
		ticker := time.NewTicker(cfg.DraftTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := drafts.PurgeExpired(now); removed > 0 {
					log.Info("stale wizard drafts purged", "removed", removed)
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("listening", "port", cfg.Port, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown not clean", "error", err)
	}
}
