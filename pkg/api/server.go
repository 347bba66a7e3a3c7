// Package api exposes the HTTP surface: the A2A/JSON-RPC gateway, the
// per-task SSE event stream, agent discovery, and task lifecycle endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/database"
	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/secrets"
	"github.com/droverhq/drover/pkg/services"
)

// Server is the HTTP API server.
type Server struct {
	cfg      *config.Config
	dbClient *database.Client
	tasks    *services.TaskService
	eventSvc *services.EventService
	broker   *events.Broker

	echo    *echo.Echo
	httpSrv *http.Server
}

// NewServer builds the server and registers all routes. The JWT secret is
// resolved from the secret store at startup so a missing secret fails fast.
func NewServer(
	cfg *config.Config,
	dbClient *database.Client,
	tasks *services.TaskService,
	eventSvc *services.EventService,
	broker *events.Broker,
	store secrets.Store,
) (*Server, error) {
	jwtSecret, err := store.Get(cfg.Auth.JWTSecretEnv)
	if err != nil {
		return nil, fmt.Errorf("resolving JWT secret: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		dbClient: dbClient,
		tasks:    tasks,
		eventSvc: eventSvc,
		broker:   broker,
		echo:     echo.New(),
	}

	s.echo.Use(securityHeaders())
	if len(cfg.Server.AllowedOrigins) > 0 {
		s.echo.Use(corsMiddleware(cfg.Server.AllowedOrigins))
	}

	s.echo.GET("/healthz", s.healthHandler)

	v1 := s.echo.Group("/v1")
	v1.Use(requireAuth([]byte(jwtSecret)))

	v1.GET("/agents", s.agentDirectoryHandler)
	v1.GET("/agents/:agent_id/card", s.agentCardHandler)
	v1.POST("/agents/:agent_id/rpc", s.rpcHandler)

	v1.GET("/tasks", s.listTasksHandler)
	v1.GET("/tasks/:task_id", s.getTaskHandler)
	v1.POST("/tasks/:task_id/pause", s.pauseTaskHandler)
	v1.POST("/tasks/:task_id/resume", s.resumeTaskHandler)
	v1.GET("/tasks/:task_id/events", s.streamEventsHandler)

	return s, nil
}

// Start serves until Shutdown or a listener error.
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// publicURL is the externally reachable base URL advertised on agent cards.
func (s *Server) publicURL() string {
	if s.cfg.Server.PublicURL != "" {
		return s.cfg.Server.PublicURL
	}
	return fmt.Sprintf("http://%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
}
