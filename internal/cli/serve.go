package cli

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/nutritrack/internal/auth"
	"github.com/tbourn/nutritrack/internal/config"
	httpapi "github.com/tbourn/nutritrack/internal/http"
	"github.com/tbourn/nutritrack/internal/nutrition"
	"github.com/tbourn/nutritrack/internal/nutrition/calorieninjas"
	"github.com/tbourn/nutritrack/internal/observability"
	"github.com/tbourn/nutritrack/internal/services"
	"github.com/tbourn/nutritrack/internal/store"
	"github.com/tbourn/nutritrack/internal/sysutil"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Starts the nutritrack API. Configuration comes from the environment
(and a .env file in the working directory). Stops gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, cfg, version)
		},
	}
}

// Serve runs the server until ctx is cancelled, then drains in-flight
// requests and flushes traces.
func Serve(ctx context.Context, cfg config.Config, version string) error {
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	srv, closeStore, err := BuildServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("storage", cfg.Storage.Backend).
			Str("nutrition_source", cfg.Nutrition.Source).
			Str("version", version).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(sctx)
}

// BuildServer wires storage, the nutrition source, sessions and the router
// into an *http.Server. The returned func closes the storage backend.
func BuildServer(ctx context.Context, cfg config.Config) (*http.Server, func() error, error) {
	st, closeStore, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, closeStore, err
	}

	table := nutrition.DefaultTable()
	nutri := &services.NutritionService{Table: table}
	var src nutrition.Source = table
	if cfg.Nutrition.APIKey != "" {
		cn, err := calorieninjas.New(cfg.Nutrition.APIKey,
			calorieninjas.WithBaseURL(cfg.Nutrition.BaseURL),
			calorieninjas.WithHTTPClient(&http.Client{Timeout: cfg.Nutrition.Timeout}),
			calorieninjas.WithRateLimit(cfg.Nutrition.RPS, 1),
		)
		if err != nil {
			_ = closeStore()
			return nil, nil, err
		}
		nutri.Client = cn
		if cfg.Nutrition.Source == config.SourceAPI {
			src = calorieninjas.Source{Client: cn}
		}
	}

	sessions, err := newSessions(cfg.Auth)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	meals := services.NewMealService(st, src, loc, nutrition.Goals{
		Kcal:    cfg.Nutrition.GoalKcal,
		Protein: cfg.Nutrition.GoalProtein,
		Fiber:   cfg.Nutrition.GoalFiber,
	})

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{Meals: meals, Nutrition: nutri, Sessions: sessions}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	return srv, closeStore, nil
}

// newSessions falls back to a random per-process signing key, which logs
// every client out on restart.
func newSessions(a config.AuthConfig) (*auth.Sessions, error) {
	if a.Password == "" {
		log.Warn().Msg("APP_PASSWORD is empty; every login will be rejected")
	}
	key := []byte(a.SessionSecret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("session key: %w", err)
		}
		log.Warn().Msg("SESSION_SECRET is empty; sessions will not survive a restart")
	}
	return auth.NewSessions(a.Password, key, a.SessionTTL)
}
