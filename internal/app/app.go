package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/prizedraw/internal/auth"
	"github.com/abrezinsky/prizedraw/internal/config"
	"github.com/abrezinsky/prizedraw/internal/handlers"
	"github.com/abrezinsky/prizedraw/internal/logger"
	"github.com/abrezinsky/prizedraw/internal/repository"
	"github.com/abrezinsky/prizedraw/internal/seed"
	"github.com/abrezinsky/prizedraw/internal/services"
	"github.com/abrezinsky/prizedraw/internal/websocket"
)

const shutdownTimeout = 5 * time.Second

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	repo     *repository.Repository
	lottery  *services.LotteryService
	settings *services.ConfigService
	hub      *websocket.Hub
	handlers *handlers.Handlers
}

// New creates and initializes a new application instance. The seed fixture
// is applied unless disabled in cfg.
func New(log logger.Logger, cfg *config.Config, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	// Initialize services
	settings := services.NewConfigService(log, repo)
	roster := services.NewRosterService(log, repo)
	lottery := services.NewLotteryService(log, repo, settings, cfg.Engine)

	if !cfg.Seed.Disabled {
		if err := applySeed(log, cfg.Seed.File, roster); err != nil {
			repo.Close()
			return nil, err
		}
	}

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, lottery)
	hub.Start()
	lottery.SetBroadcaster(hub)

	return &App{
		log:      log,
		cfg:      cfg,
		repo:     repo,
		lottery:  lottery,
		settings: settings,
		hub:      hub,
		handlers: handlers.New(lottery, roster, settings, adminAuth, hub, log),
	}, nil
}

func applySeed(log logger.Logger, path string, roster services.RosterServicer) error {
	fixture, err := seed.Load(path)
	if err != nil {
		return err
	}
	if _, err := seed.Apply(context.Background(), log, roster, fixture); err != nil {
		return fmt.Errorf("apply seed data: %w", err)
	}
	return nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Lottery exposes the lottery service for tools built on the app
func (a *App) Lottery() *services.LotteryService {
	return a.lottery
}

// Close stops the websocket hub and releases the database
func (a *App) Close() error {
	a.hub.Stop()
	return a.repo.Close()
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down gracefully
func (a *App) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	baseURL := a.cfg.Server.BaseURL
	if baseURL == "" {
		// Detected LAN address so phones can reach the claim QR links
		baseURL = fmt.Sprintf("http://%s:%d", getPreferredIP(realNetworkProvider{}), ln.Addr().(*net.TCPAddr).Port)
		a.setDefaultBaseURL(baseURL)
	} else if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
		a.log.Warn("Failed to set configured base_url", "error", err)
	}

	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()
	a.log.Info("Server starting", "url", baseURL)

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, err := a.settings.GetBaseURL(ctx)
	if err != nil {
		a.log.Warn("Failed to read base_url", "error", err)
		return
	}

	if existing != "" && !strings.Contains(existing, "localhost") {
		return
	}
	if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
		a.log.Warn("Failed to set default base_url", "error", err)
		return
	}
	a.log.Info("Default base URL set", "url", baseURL)
}
