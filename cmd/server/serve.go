package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/roi-sandbox/internal/config"
	"github.com/Simplici0/roi-sandbox/internal/roi"
	"github.com/Simplici0/roi-sandbox/internal/theory"
	"github.com/Simplici0/roi-sandbox/internal/web"
)

const shutdownTimeout = 10 * time.Second

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local ROI sandbox web server",
	RunE:  runServe,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
		c.Flags().StringVar(&serveHost, "host", "", "listen address (default from config)")
	}
	rootCmd.AddCommand(serveCmd)
}

type server struct {
	cfg     *config.Config
	model   roi.Model
	library *theory.Library
	views   *renderer
	limiter *clientLimiter
}

func newServer(c *config.Config) (*server, error) {
	library, err := theory.NewLibrary()
	if err != nil {
		return nil, eris.Wrap(err, "server: load theory documents")
	}

	views, err := newRenderer(web.Templates())
	if err != nil {
		return nil, eris.Wrap(err, "server: parse templates")
	}

	return &server{
		cfg:     c,
		model:   modelFromConfig(c),
		library: library,
		views:   views,
		limiter: newClientLimiter(c.API.RatePerSecond, c.API.Burst),
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(rememberPeer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))
	r.Get("/", s.handleCalculator)
	r.Post("/calc", s.handleCalculatorSubmit)
	r.Get("/sensitivity", s.handleSensitivity)
	r.Get("/theory", s.handleTheory)
	r.Get("/theory/{slug}", s.handleTheoryDocument)
	r.Get("/about", s.handleAbout)
	r.Get("/export.csv", s.handleExportCSV)
	r.Get("/export.xlsx", s.handleExportXLSX)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.API.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
		r.Use(s.limiter.middleware)
		r.Get("/fields", s.handleAPIFields)
		r.Get("/presets", s.handleAPIPresets)
		r.Post("/roi", s.handleAPICompute)
		r.Get("/sensitivity", s.handleAPISensitivity)
	})

	return r
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(cfg)
	if err != nil {
		return err
	}

	host := serveHost
	if host == "" {
		host = cfg.Server.Host
	}
	port := servePort
	if port == 0 {
		port = cfg.Server.Port
	}

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server",
		zap.String("url", fmt.Sprintf("http://%s", httpServer.Addr)),
		zap.Float64("avoided_cost_weight", srv.model.AvoidedCostWeight),
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server listen")
	}

	return nil
}
