package main

import (
	"context"
	"flag"
	"time"

	"rentora/internal/config"
	"rentora/internal/database"
	"rentora/internal/jobs"
	"rentora/internal/modules/availability"
	"rentora/internal/modules/booking"
	"rentora/internal/modules/notification"
	"rentora/internal/pkg/logger"
	"rentora/internal/repository"
)

// One-shot runner for the reconciliation sweeps, for cron-style setups that
// prefer an external scheduler over the in-process tickers.
func main() {
	var (
		runExpiry       = flag.Bool("expiry", true, "run the expiry sweep")
		runCompletion   = flag.Bool("completion", true, "run the completion sweep")
		runPlaceholders = flag.Bool("placeholders", true, "run the placeholder normalization sweep")
	)
	flag.Parse()

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

	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db, pg)
	notificationRepo := repository.NewNotificationRepository(db)

	engine := availability.NewEngine(bookingRepo)
	notifier := notification.NewService(notificationRepo, listingRepo, notification.NewLogTransport(log), nil, log)
	machine := booking.NewService(bookingRepo, listingRepo, engine, notifier, nil, log)
	reconciler := jobs.NewReconciler(bookingRepo, machine, cfg.ApprovalWindow, nil, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	now := time.Now()

	if *runExpiry {
		if n, err := reconciler.SweepExpired(ctx, now); err != nil {
			log.Error("expiry sweep failed", "error", err)
		} else {
			log.Info("expiry sweep done", "expired", n)
		}
	}
	if *runCompletion {
		if n, err := reconciler.SweepCompleted(ctx, now); err != nil {
			log.Error("completion sweep failed", "error", err)
		} else {
			log.Info("completion sweep done", "completed", n)
		}
	}
	if *runPlaceholders {
		if n, err := reconciler.SweepPlaceholders(ctx, now); err != nil {
			log.Error("placeholder sweep failed", "error", err)
		} else {
			log.Info("placeholder sweep done", "normalized", n)
		}
	}
}
