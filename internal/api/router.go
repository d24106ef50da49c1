package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpserver-go/internal/api/handler"
	"github.com/mcoot/rpserver-go/internal/api/middleware"
	"github.com/mcoot/rpserver-go/internal/presence"
	"github.com/mcoot/rpserver-go/internal/services/auth"
	"github.com/mcoot/rpserver-go/internal/services/dispatch"
	rootmiddleware "github.com/mcoot/rpserver-go/internal/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Characters  handler.Characters
	Records     handler.RecordReader
	Presence    presence.Store
	Loop        *dispatch.Loop
	// Gateway serves the client websocket at /ws when set
	Gateway http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	adminHandler := handler.NewAdminHandler(cfg.AuthService)
	healthHandler := handler.NewHealthHandler(cfg.Presence)
	onlineHandler := handler.NewOnlineHandler(cfg.Presence)
	characterHandler := handler.NewCharacterHandler(cfg.Characters, cfg.Records, cfg.Loop, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := rootmiddleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	if cfg.Gateway != nil {
		r.Handle("/ws", loggingMiddleware(cfg.Gateway))
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)
	api.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/online", onlineHandler.List).Methods(http.MethodGet)

	characters := protected.PathPrefix("/characters").Subrouter()
	characters.HandleFunc("/by-name/{name}", characterHandler.GetByName).Methods(http.MethodGet)
	characters.HandleFunc("/by-number/{number}", characterHandler.GetByNumber).Methods(http.MethodGet)
	characters.HandleFunc("/{id:[0-9]+}", characterHandler.Get).Methods(http.MethodGet)
	characters.HandleFunc("/{id:[0-9]+}/money", characterHandler.SetMoney).Methods(http.MethodPut)
	characters.HandleFunc("/{id:[0-9]+}/money/add", characterHandler.AddMoney).Methods(http.MethodPost)
	characters.HandleFunc("/{id:[0-9]+}/job", characterHandler.SetJob).Methods(http.MethodPut)
	characters.HandleFunc("/{id:[0-9]+}/notify", characterHandler.Notify).Methods(http.MethodPost)

	return r
}
