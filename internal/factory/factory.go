package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/rpserver-go/internal/api"
	"github.com/mcoot/rpserver-go/internal/config"
	"github.com/mcoot/rpserver-go/internal/dependencies/clock"
	"github.com/mcoot/rpserver-go/internal/dependencies/random"
	"github.com/mcoot/rpserver-go/internal/presence"
	presencememory "github.com/mcoot/rpserver-go/internal/presence/memory"
	presenceredis "github.com/mcoot/rpserver-go/internal/presence/redis"
	"github.com/mcoot/rpserver-go/internal/services/auth"
	"github.com/mcoot/rpserver-go/internal/services/dispatch"
	"github.com/mcoot/rpserver-go/internal/services/housing"
	"github.com/mcoot/rpserver-go/internal/services/inventory"
	"github.com/mcoot/rpserver-go/internal/services/session"
	"github.com/mcoot/rpserver-go/internal/storage/sqlstore"
	"github.com/mcoot/rpserver-go/internal/transport/ws"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage  *sqlstore.Store
	Presence presence.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService *auth.Service
	Inventory   *inventory.Service
	Housing     *housing.Registry
	Sessions    *session.Manager
	Loop        *dispatch.Loop
	Gateway     *ws.Gateway

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Store selects the SQL driver and DSN
	Store sqlstore.Config
	// PresenceType selects the presence backend ("memory" or "redis")
	// If empty, defaults to "memory"
	PresenceType string
	// RedisConfig holds Redis connection settings (required if PresenceType is "redis")
	RedisConfig *presenceredis.Config
	// AuthConfig holds configuration for the auth service
	AuthConfig auth.Config
	// SessionConfig holds character defaults
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// HandlerTimeout bounds each dispatch loop handler
	HandlerTimeout time.Duration
}

// ConfigFromServer maps environment settings onto a factory config
func ConfigFromServer(sc config.ServerConfig, logger *slog.Logger) Config {
	storeCfg := sqlstore.DefaultConfig()
	storeCfg.Driver = sc.StoreDriver
	storeCfg.DSN = sc.StoreDSN

	authCfg := auth.DefaultConfig()
	authCfg.TokenSecret = sc.AdminTokenSecret
	authCfg.TokenTTL = sc.AdminTokenTTL

	cfg := Config{
		Logger:       logger,
		Store:        storeCfg,
		PresenceType: sc.PresenceType,
		AuthConfig:   authCfg,
		SessionConfig: session.Config{
			StartMoney:    sc.StartMoney,
			MaxCharacters: sc.MaxCharacters,
		},
		HandlerTimeout: sc.HandlerTimeout,
	}
	if sc.PresenceType == config.PresenceRedis {
		redisCfg := presenceredis.DefaultConfig()
		redisCfg.URL = sc.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// New opens storage and presence and wires every service. The session
// manager is initialised but the dispatch loop is not started.
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := sqlstore.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	var pres presence.Store
	presenceType := cfg.PresenceType
	if presenceType == "" {
		presenceType = config.PresenceMemory
	}

	switch presenceType {
	case config.PresenceMemory:
		pres = presencememory.New()
	case config.PresenceRedis:
		if cfg.RedisConfig == nil {
			_ = store.Close()
			return nil, errors.New("RedisConfig required when PresenceType is redis")
		}
		redisStore, err := presenceredis.New(*cfg.RedisConfig)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		pres = redisStore
	default:
		_ = store.Close()
		return nil, errors.New("invalid PresenceType: must be 'memory' or 'redis'")
	}

	authCfg := cfg.AuthConfig
	if authCfg.TokenTTL == 0 || authCfg.BcryptCost == 0 {
		defaults := auth.DefaultConfig()
		if authCfg.TokenTTL == 0 {
			authCfg.TokenTTL = defaults.TokenTTL
		}
		if authCfg.BcryptCost == 0 {
			authCfg.BcryptCost = defaults.BcryptCost
		}
	}

	app := newWithDependencies(store, pres, clock.New(), random.New(), authCfg, cfg.SessionConfig, cfg.HandlerTimeout, logger)
	if err := app.Sessions.Init(ctx); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("init sessions: %w", err)
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store *sqlstore.Store,
	pres presence.Store,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	sessionCfg session.Config,
	handlerTimeout time.Duration,
	logger *slog.Logger,
) *App {
	if sessionCfg == (session.Config{}) {
		sessionCfg = session.DefaultConfig()
	}

	authService := auth.New(store, clk, authCfg, logger)
	inventoryService := inventory.New(logger)
	housingRegistry := housing.NewRegistry()
	sessions := session.New(session.Deps{
		Storage:   store,
		Auth:      authService,
		Inventory: inventoryService,
		Housing:   housingRegistry,
		Presence:  pres,
		Clock:     clk,
		Random:    rnd,
		Logger:    logger,
	}, sessionCfg)
	loop := dispatch.New(handlerTimeout, logger)

	return &App{
		Storage:     store,
		Presence:    pres,
		Clock:       clk,
		Random:      rnd,
		AuthService: authService,
		Inventory:   inventoryService,
		Housing:     housingRegistry,
		Sessions:    sessions,
		Loop:        loop,
		Gateway:     ws.New(sessions, loop, logger),
		Logger:      logger,
	}
}

// Router returns the admin API with the client websocket mounted at /ws
func (a *App) Router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:      a.Logger,
		AuthService: a.AuthService,
		Characters:  a.Sessions,
		Records:     a.Storage,
		Presence:    a.Presence,
		Loop:        a.Loop,
		Gateway:     a.Gateway,
	})
}

// Close disconnects every player while the loop still runs, then stops the
// loop and releases storage and presence
func (a *App) Close() error {
	a.Gateway.Close()
	a.Loop.Close()
	return errors.Join(a.Presence.Close(), a.Storage.Close())
}
