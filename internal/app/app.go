package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gbnam453/nalbom-admin/internal/api"
	"github.com/gbnam453/nalbom-admin/internal/auth"
	"github.com/gbnam453/nalbom-admin/internal/config"
	"github.com/gbnam453/nalbom-admin/internal/db"
	"github.com/gbnam453/nalbom-admin/internal/drive"
	"github.com/gbnam453/nalbom-admin/internal/expiration"
	"github.com/gbnam453/nalbom-admin/internal/handler"
	middie "github.com/gbnam453/nalbom-admin/internal/middleware"
	"github.com/gbnam453/nalbom-admin/internal/session"
)

// countdownInterval is how often open pages receive the remaining time
const countdownInterval = time.Second

// App represents the application
type App struct {
	server            *echo.Echo
	expirationManager *expiration.ExpirationManager
	countdown         *session.Countdown
	config            *config.Config
	db                *db.DB
}

// New creates a new application instance from the config file at
// CONFIG_PATH
func New() (*App, error) {
	cfg, err := config.LoadConfig(config.ConfigPath())
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a new application instance
func NewWithConfig(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	configData, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	log.Printf("Configuration:\n%s", string(configData))

	if err := setup(cfg); err != nil {
		return nil, err
	}

	creds, err := auth.NewCredentials(cfg.AdminID, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return nil, err
	}
	if cfg.AdminPasswordHash == "" {
		log.Printf("Warning: admin_password is stored in plain text, set admin_password_hash instead")
	}

	tmpl, err := drive.ParseTemplate(cfg.DriveTemplate)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.ClientOptions{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeoutDuration(),
	})
	if err != nil {
		return nil, err
	}

	store, err := db.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	expirationManager, err := expiration.NewExpirationManager(cfg, store)
	if err != nil {
		store.Close()
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// The countdown stream stays open for the whole page lifetime, so
	// there is no write timeout.
	e.Server.ReadTimeout = time.Minute
	e.Server.IdleTimeout = 2 * time.Minute
	e.Server.ReadHeaderTimeout = 10 * time.Second

	app := &App{
		server:            e,
		expirationManager: expirationManager,
		countdown:         session.NewCountdown(countdownInterval),
		config:            cfg,
		db:                store,
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middie.SecurityHeaders(apiOrigin(cfg.APIBaseURL)))
	e.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Limit: bodyLimit(cfg),
		Skipper: func(c echo.Context) bool {
			return c.Path() == handler.ImageUploadRoute
		},
	}))
	e.Use(middie.BrowserSession(middie.BrowserSessionConfig{
		Storage: func(sid string) session.Storage { return store.Bucket(sid) },
		Window:  cfg.SessionWindowDuration(),
		Secure:  cfg.SecureCookies,
	}))

	h := handler.NewHandler(cfg, client, creds, app.countdown, drive.NewConverter(tmpl))
	handler.RegisterRoutes(e, h)
	return app, nil
}

// Handler exposes the HTTP handler, mainly for tests
func (a *App) Handler() http.Handler {
	return a.server
}

// Start starts the application
func (a *App) Start() {
	if a.expirationManager != nil {
		a.expirationManager.Start()
	}

	serverAddr := fmt.Sprintf(":%d", a.config.Port)

	go func() {
		if err := a.server.Start(serverAddr); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	log.Printf("Server started on %s", serverAddr)
}

// Stop stops all application services. Open countdown streams end first so
// Shutdown does not wait for them.
func (a *App) Stop() {
	a.countdown.Close()
	if a.expirationManager != nil {
		a.expirationManager.Stop()
	}
	if err := a.db.Close(); err != nil {
		log.Printf("Error closing session store: %v", err)
	}
}

// Shutdown gracefully shuts down the server
func (a *App) Shutdown(ctx context.Context) error {
	a.countdown.Close()
	return a.server.Shutdown(ctx)
}

// setup ensures the directory of the session database exists
func setup(cfg *config.Config) error {
	dir := filepath.Dir(cfg.SQLitePath)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// apiOrigin is the scheme and host that notice images are served from
func apiOrigin(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// bodyLimit caps request bodies outside the image upload route at the image
// size plus form overhead
func bodyLimit(cfg *config.Config) string {
	return fmt.Sprintf("%dM", int(math.Ceil(cfg.MaxImageSize))+1)
}
