// Package rest exposes the HTTP API: authentication endpoints, the
// session-gated task CRUD surface, and the public stats/health routes.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address       string
	logger        logging.Logger
	users         *services.UserService
	tasks         *services.TaskService
	blacklist     *auth.Blacklist
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewServer(l logging.Logger, us *services.UserService, ts *services.TaskService, bl *auth.Blacklist, cfg *config.Config) *Server {
	return &Server{
		address:       cfg.EndpointAddr,
		logger:        l.With("module", "rest_server"),
		users:         us,
		tasks:         ts,
		blacklist:     bl,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// routes builds the router. The session gate is attached only to the
// protected subrouters; register/login and the public endpoints stay open.
// Auth endpoints are mounted under both /api/users and /api/auth.
func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID)
	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/public/stats", s.handleStats).Methods(http.MethodGet)

	for _, prefix := range []string{"/users", "/auth"} {
		public := api.PathPrefix(prefix).Subrouter()
		public.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
		public.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

		// Logout bypasses the revocation check so a repeated logout with
		// the same token stays a no-op instead of failing.
		logout := api.PathPrefix(prefix).Subrouter()
		logout.Use(s.logoutGate)
		logout.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

		protected := api.PathPrefix(prefix).Subrouter()
		protected.Use(s.sessionGate)
		protected.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	}

	tasks := api.PathPrefix("/tasks").Subrouter()
	tasks.Use(s.sessionGate)
	tasks.HandleFunc("", s.handleListTasks).Methods(http.MethodGet)
	tasks.HandleFunc("", s.handleCreateTask).Methods(http.MethodPost)
	tasks.HandleFunc("/{id}", s.handleGetTask).Methods(http.MethodGet)
	tasks.HandleFunc("/{id}", s.handleUpdateTask).Methods(http.MethodPut)
	tasks.HandleFunc("/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	return r
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails. Shutdown drains in-flight requests up to shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
