package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MakeNewCode/project-maps-webapp/internal/api"
	"github.com/MakeNewCode/project-maps-webapp/internal/config"
	"github.com/MakeNewCode/project-maps-webapp/internal/dashboard"
	"github.com/MakeNewCode/project-maps-webapp/internal/mapview"
	"github.com/MakeNewCode/project-maps-webapp/internal/session"
	"github.com/MakeNewCode/project-maps-webapp/internal/settings"
	"github.com/MakeNewCode/project-maps-webapp/internal/storage"
	"github.com/MakeNewCode/project-maps-webapp/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

// app is everything the server wires together.
type app struct {
	store    storage.Store
	feed     *storage.TrackingFeed
	tokens   *settings.TokenStore
	renderer *mapview.Renderer
	sessions *session.Manager
}

func newApp(cfg *config.AppConfig, log *zap.Logger) (*app, error) {
	store, err := storage.New(cfg.Storage.Backend, storage.SeedCargo())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	gazetteer, err := mapview.LoadGazetteer(cfg.Map.CitiesFile)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}

	tokens, err := settings.NewTokenStore(cfg.Storage.SettingsFile, cfg.Map.DefaultToken)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	a := &app{
		store:    store,
		feed:     storage.NewTrackingFeed(storage.SeedShipments()),
		tokens:   tokens,
		renderer: mapview.NewRenderer(gazetteer),
	}
	a.sessions = session.NewManager(a.newBoard(cfg.Dashboard.PageSize), cfg.SessionTimeout(), log)
	return a, nil
}

func (a *app) newBoard(pageSize int) session.Factory {
	return func(kind dashboard.Kind) *dashboard.Board {
		opts := dashboard.Options{PageSize: pageSize, Renderer: a.renderer, Tokens: a.tokens}
		if kind == dashboard.KindTracking {
			return dashboard.NewBoard(kind, dashboard.ShipmentSource(a.feed), opts)
		}
		return dashboard.NewBoard(kind, dashboard.CargoSource(a.store), opts)
	}
}

func newEcho(cfg *config.AppConfig, a *app, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	api.SetupMiddleware(e, log, verbose)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return !cfg.Advanced.EnableRequestLogging || c.Request().URL.Path == "/api/health"
		},
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			log.Info("request", fields...)
			return nil
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 * 1024,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Advanced.RequestTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			return cfg.Advanced.RequestTimeout <= 0 || strings.HasSuffix(c.Request().URL.Path, "/ws")
		},
		ErrorMessage: "Request timeout",
	}))

	if cfg.Advanced.EnableGzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Skipper: func(c echo.Context) bool {
				return strings.HasSuffix(c.Request().URL.Path, "/ws")
			},
		}))
	}

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: allowOrigins(cfg.Server.AllowOrigins),
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	handlers := api.NewHandlers(&api.Dependencies{
		Store:       a.store,
		Tracking:    a.feed,
		Sessions:    a.sessions,
		Tokens:      a.tokens,
		Renderer:    a.renderer,
		StyleURL:    cfg.Map.StyleURL,
		PageSize:    cfg.Dashboard.PageSize,
		MaxPageSize: cfg.Dashboard.MaxPageSize,
		Version:     Version,
		Log:         log,
	})
	api.RegisterRoutes(e, handlers)
	api.RegisterWebSocketRoutes(e, handlers)

	if web.HasEmbeddedFiles() {
		if err := web.RegisterStaticRoutes(e); err != nil {
			log.Warn("failed to register static routes", zap.Error(err))
		}
	}
	return e
}

// allowOrigins splits the configured list; an empty list allows any origin.
func allowOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.store.Close()

	e := newEcho(cfg, a, logger)
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	printBanner(cmd, a)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return a.sessions.Run(ctx, cfg.CleanupInterval())
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printBanner(cmd *cobra.Command, a *app) {
	mode := "API only"
	if web.HasEmbeddedFiles() {
		mode = "Embedded frontend"
	}
	token := "missing (map shows placeholder)"
	if a.tokens.Configured() {
		token = "configured"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(out, "║           CargoTrack Server                               ║\n")
	fmt.Fprintf(out, "╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Fprintf(out, "║  Version:    %-45s║\n", Version)
	fmt.Fprintf(out, "║  Build Time: %-45s║\n", BuildTime)
	fmt.Fprintf(out, "║  Mode:       %-45s║\n", mode)
	fmt.Fprintf(out, "║  Storage:    %-45s║\n", cfg.Storage.Backend)
	fmt.Fprintf(out, "║  Map token:  %-45s║\n", token)
	fmt.Fprintf(out, "╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Fprintf(out, "║  Config:    %-46s║\n", configPath)
	fmt.Fprintf(out, "║  Listen:    http://%-39s║\n", cfg.GetServerAddr())
	fmt.Fprintf(out, "║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Fprintf(out, "╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Fprintf(out, "\n")
}
