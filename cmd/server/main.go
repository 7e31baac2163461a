package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"doctor-booking-api/internal/auth"
	"doctor-booking-api/internal/config"
	"doctor-booking-api/internal/handler"
	"doctor-booking-api/internal/middleware"
	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/notify"
	"doctor-booking-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("config")
	}

	log := newLogger(cfg)

	// database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping")
	}
	log.Info().Msg("connected to postgres")

	// run migrations
	if migration, err := os.ReadFile(cfg.MigrationsFile); err != nil {
		log.Warn().Err(err).Msg("migration file not found, skipping")
	} else if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
		log.Warn().Err(err).Msg("migration")
	} else {
		log.Info().Msg("migration applied")
	}

	st := store.New(pool)
	if err := ensureAdmin(context.Background(), st, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap")
	}

	notifier := notify.New(st, cfg.AdminEmail)
	h := handler.New(st, notifier, cfg.JWTSecret)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestLogger(log))

	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	h.Register(e, rl)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: e,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// ensureAdmin creates the configured admin user on first start so every
// notification fanout has its admin inbox. Exactly one admin is expected.
func ensureAdmin(ctx context.Context, st *store.Store, cfg *config.Config, log zerolog.Logger) error {
	_, err := st.UserByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if cfg.AdminPassword == "" {
		log.Warn().Str("email", cfg.AdminEmail).
			Msg("admin user missing and ADMIN_PASSWORD unset; notifications will fail until it exists")
		return nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Name:         "Admin",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := st.CreateUser(ctx, u); err != nil {
		return err
	}
	log.Info().Str("email", cfg.AdminEmail).Msg("admin user created")
	return nil
}
