// Package server exposes the bridge over HTTP: a tool catalog, an
// invocation endpoint per operation, read-only resource snapshots, and
// a Server-Sent Events stream of store mutations.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dyluth/bridge/internal/config"
	"github.com/dyluth/bridge/pkg/bridge"
)

// Server is the HTTP front end over one bridge State.
type Server struct {
	cfg        *config.BridgeConfig
	state      *bridge.State
	dispatcher *bridge.Dispatcher
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds a Server over the given state. The returned server is not
// listening yet; call Run, or mount Engine() under a test server.
func New(cfg *config.BridgeConfig, state *bridge.State) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:        cfg,
		state:      state,
		dispatcher: bridge.NewDispatcher(state),
		engine:     engine,
	}
	s.registerRoutes()
	return s
}

// Engine returns the underlying gin engine, used by tests to serve
// requests without a real listener.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/v1")
	{
		v1.GET("/tools", s.handleListTools)
		v1.POST("/tools/:name", s.handleCallTool)
		v1.GET("/resources/:name", s.handleReadResource)
		v1.GET("/events", s.handleEvents)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "instance": s.cfg.Instance})
}

func (s *Server) handleListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": Catalog()})
}

// handleCallTool invokes an operation by name. Operation failures
// (validation, unknown task, unknown operation) are data, not
// transport faults: they come back as 200 with an error body.
func (s *Server) handleCallTool(c *gin.Context) {
	name := c.Param("name")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	start := time.Now()
	result := s.dispatcher.Dispatch(name, body)
	duration := time.Since(start)

	if errRes, ok := result.(bridge.ErrorResult); ok {
		slog.Warn("operation failed",
			"operation", name,
			"error", errRes.Error,
			"duration", duration)
	} else {
		slog.Info("operation dispatched",
			"operation", name,
			"duration", duration)
	}

	c.JSON(http.StatusOK, result)
}

// handleReadResource serves read-only snapshots of the three stores.
// Unlike operation failures, an unknown resource name is a genuine
// fault and maps to 404.
func (s *Server) handleReadResource(c *gin.Context) {
	switch c.Param("name") {
	case "messages":
		c.JSON(http.StatusOK, gin.H{"messages": s.state.Messages.Snapshot()})
	case "tasks":
		c.JSON(http.StatusOK, gin.H{"tasks": s.state.Tasks.Snapshot()})
	case "context":
		c.JSON(http.StatusOK, s.state.Context.Get())
	default:
		err := &bridge.UnknownResourceError{Name: c.Param("name")}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	}
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully. A failure to bind or serve is returned.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("server listening", "addr", s.cfg.Listen, "instance", s.cfg.Instance)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
