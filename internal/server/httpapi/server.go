// Package httpapi exposes the auth and post services over HTTP using gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/postkeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

const (
	apiPrefix       = "/api/v1"
	shutdownTimeout = 5 * time.Second
)

// Controller registers a group of routes under the API prefix.
type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	engine  *gin.Engine
}

func NewHTTPServer(address string, l logging.Logger, as AuthService, us UserService, ps PostService) *HTTPServer {
	s := &HTTPServer{
		address: address,
		logger:  l.With("module", "http_server"),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(s.logger))

	engine.GET("/health", health)

	rg := engine.Group(apiPrefix)
	bearer := bearerAuth(as, s.logger)
	for _, c := range []Controller{
		newAuthController(as, us, bearer, s.logger),
		newPostController(ps, bearer, s.logger),
	} {
		c.RegisterRoutes(rg)
	}

	s.engine = engine
	return s
}

// Handler returns the routed gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
