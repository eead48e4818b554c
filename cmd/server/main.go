package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/court-booking/internal/booking"
	"github.com/iliyamo/court-booking/internal/config"
	"github.com/iliyamo/court-booking/internal/database"
	"github.com/iliyamo/court-booking/internal/handler"
	"github.com/iliyamo/court-booking/internal/middleware"
	"github.com/iliyamo/court-booking/internal/observability"
	"github.com/iliyamo/court-booking/internal/queue"
	"github.com/iliyamo/court-booking/internal/realtime"
	"github.com/iliyamo/court-booking/internal/repository"
	"github.com/iliyamo/court-booking/internal/router"
	"github.com/iliyamo/court-booking/internal/seed"
	"github.com/iliyamo/court-booking/internal/service"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	courts := repository.NewCourtRepo(db)
	slots := repository.NewAvailabilityRepo(db)
	bookings := repository.NewBookingRepo(db)

	if cfg.SeedDemo {
		s := seed.New(users, courts, slots, seed.Options{Players: 20, BcryptCost: cfg.BcryptCost}, logger)
		if _, err := s.Run(ctx); err != nil {
			logger.Warn("demo seed failed", "error", err)
		}
	}

	hub := realtime.NewHub(logger)
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Info("redis unavailable; live feed limited to this instance")
	} else {
		defer rdb.Close()
	}

	var workers sync.WaitGroup
	var sinks []service.Sink
	if cfg.Events.Enabled {
		sinks = eventSinks(ctx, cfg.Events, rdb, hub, logger, &workers)
	}
	var events booking.EventPublisher
	if len(sinks) > 0 {
		events = service.NewFanout(logger, sinks...)
	}
	lifecycle := booking.NewService(bookings, events, logger, booking.Options{PendingEnabled: cfg.BookingPendingEnabled})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: corsOrigins(cfg.CORSAllowedOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(observability.HTTPMetrics())

	bh := handler.NewBookingHandler(bookings, lifecycle, logger)
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, logger), cfg.JWTSecret)
	router.RegisterCourts(e,
		handler.NewCourtHandler(courts, logger),
		handler.NewAvailabilityHandler(slots, logger),
		bh, cfg.JWTSecret,
		router.CourtPolicy{RequireOwnerRole: cfg.RequireOwnerRole})
	router.RegisterBookings(e, bh, cfg.JWTSecret)
	router.RegisterSocial(e,
		handler.NewFriendHandler(repository.NewFriendshipRepo(db), users, logger),
		handler.NewMessageHandler(repository.NewMessageRepo(db), users, logger),
		cfg.JWTSecret)
	router.RegisterLive(e, handler.NewLiveHandler(hub, cfg.CORSAllowedOrigins, logger))

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env,
			"pending_bookings", cfg.BookingPendingEnabled, "require_owner_role", cfg.RequireOwnerRole)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	workers.Wait()
}

// eventSinks starts the background workers for each configured transport
// and returns the sinks committed booking events are fanned out to.
func eventSinks(ctx context.Context, ec config.EventsConfig, rdb *redis.Client, hub *realtime.Hub, logger *slog.Logger, wg *sync.WaitGroup) []service.Sink {
	var sinks []service.Sink

	if ec.AMQPURL != "" {
		sinks = append(sinks, service.NewQueuePublisher(ec.AMQPURL, ec.Queue, logger))
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := queue.StartNotificationConsumer(ctx, queue.ConsumerConfig{
				URL:      ec.AMQPURL,
				Queue:    ec.Queue,
				Backoff:  ec.ConsumerBackoff,
				Notifier: queue.LogNotifier{Log: logger},
				Log:      logger,
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("booking consumer stopped", "error", err)
			}
		}()
	}

	// With Redis every instance relays the shared channel into its hub;
	// without it events go straight to the local hub.
	if rdb != nil {
		sinks = append(sinks, service.NewRealtimePublisher(rdb, ec.Channel))
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := realtime.NewRelay(rdb, ec.Channel, hub, logger).Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("live relay stopped", "error", err)
			}
		}()
	} else {
		sinks = append(sinks, realtime.HubSink{Hub: hub})
	}
	return sinks
}

func corsOrigins(allowed []string) []string {
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}
