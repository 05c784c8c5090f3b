package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/email"
	"github.com/jwalitptl/booking-api/internal/handler"
	appointmentHandler "github.com/jwalitptl/booking-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/booking-api/internal/handler/auth"
	catalogHandler "github.com/jwalitptl/booking-api/internal/handler/catalog"
	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/repository/postgres"
	"github.com/jwalitptl/booking-api/internal/router"
	"github.com/jwalitptl/booking-api/internal/schedule"
	appointmentService "github.com/jwalitptl/booking-api/internal/service/appointment"
	catalogService "github.com/jwalitptl/booking-api/internal/service/catalog"
	userService "github.com/jwalitptl/booking-api/internal/service/user"
	"github.com/jwalitptl/booking-api/pkg/auth"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/messaging"
	redisBroker "github.com/jwalitptl/booking-api/pkg/messaging/redis"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	// Initialize message broker; appointment events are optional, so a
	// missing Redis only logs a warning.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewRedisBroker(cfg.Redis.URL, appLogger.Zerolog())
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, appointment events disabled")
			broker = nil
		} else {
			defer broker.Close()
		}
	}

	// Initialize services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	emailSvc := email.NewService(cfg.SMTP)
	userSvc := userService.NewService(userRepo, jwtSvc, cfg.Admin.Email, cfg.Admin.Password)
	catalogSvc := catalogService.NewService(catalogRepo)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo,
		catalogRepo,
		userRepo,
		emailSvc,
		broker,
		appLogger,
		appointmentService.Options{
			Window: schedule.Window{
				Start:       cfg.Schedule.Start,
				End:         cfg.Schedule.End,
				StepMinutes: cfg.Schedule.StepMinutes,
			},
			MaxSuggestions:      cfg.Booking.MaxSuggestions,
			MyAppointmentsLimit: cfg.Booking.MyAppointmentsLimit,
		},
	)

	// Initialize middleware and handlers
	handler.RegisterValidations()
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	h := handler.NewHandler()
	authH := authHandler.NewHandler(userSvc)
	catalogH := catalogHandler.NewHandler(catalogSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)

	// Setup router
	r := router.NewRouter(authMiddleware, authH, catalogH, appointmentH, h, router.Config{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		CORSConfig:       middleware.DefaultCORSConfig(),
		MetricsPrefix:    "booking_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
