// Package api provides the HTTP REST API for Shelfwise Core.
//
// It exposes registration, login, catalog browsing, recommendation
// retrieval, and the admin surface (catalog mutations, role changes,
// audit queries). All state lives in the backing store and in the
// self-contained access tokens, so requests are served without any
// cross-request coordination.
//
// The server follows the usual infrastructure lifecycle:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shelfwise/shelfwise-core/internal/audit"
	"github.com/shelfwise/shelfwise-core/internal/auth"
	"github.com/shelfwise/shelfwise-core/internal/catalog"
	"github.com/shelfwise/shelfwise-core/internal/infrastructure/config"
	"github.com/shelfwise/shelfwise-core/internal/infrastructure/logging"
	"github.com/shelfwise/shelfwise-core/internal/profile"
	"github.com/shelfwise/shelfwise-core/internal/recommend"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Security config.SecurityConfig
	Logger   *logging.Logger
	Users    auth.UserRepository
	Products catalog.Repository
	Recs     recommend.Repository
	Profiles profile.Repository
	Audit    audit.Repository
	Version  string
}

// Server is the HTTP API server for Shelfwise Core.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	secCfg   config.SecurityConfig
	logger   *logging.Logger
	users    auth.UserRepository
	products catalog.Repository
	recs     recommend.Repository
	profiles profile.Repository
	audit    audit.Repository
	version  string

	tokens        *auth.TokenCodec
	authenticator *auth.Authenticator

	// now is the clock used for token expiry checks; overridable in tests.
	now func() time.Time

	server *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if deps.Security.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	tokens := auth.NewTokenCodec(deps.Security.JWT.Secret, deps.Security.JWT.AccessTokenTTL)

	return &Server{
		cfg:           deps.Config,
		secCfg:        deps.Security,
		logger:        deps.Logger,
		users:         deps.Users,
		products:      deps.Products,
		recs:          deps.Recs,
		profiles:      deps.Profiles,
		audit:         deps.Audit,
		version:       deps.Version,
		tokens:        tokens,
		authenticator: auth.NewAuthenticator(deps.Users, tokens),
		now:           time.Now,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// auditLog records an audit entry, logging rather than failing the
// request when the write itself fails.
func (s *Server) auditLog(ctx context.Context, action, entityType, entityID, userID string, details map[string]any) {
	if s.audit == nil {
		return
	}
	entry := &audit.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Source:     "api",
		Details:    details,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Error("audit write failed", "action", action, "entity_id", entityID, "error", err)
	}
}
