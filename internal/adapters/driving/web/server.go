package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/fiches/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	// DefaultSessionTTL is how long a session keeps its result.
	DefaultSessionTTL = time.Hour

	shutdownTimeout = 10 * time.Second
)

// Server is the web form.
type Server struct {
	ports       *Ports
	pages       *template.Template
	ttl         time.Duration
	expireEvery time.Duration
	newID       func() string
	mux         *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithSessionTTL sets the session cookie lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithExpiryInterval sets how often expired sessions are dropped.
func WithExpiryInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.expireEvery = d
		}
	}
}

// NewServer creates the web form server.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	pages, err := template.New("").Funcs(template.FuncMap{
		"pathEscape": url.PathEscape,
		"inc":        func(i int) int { return i + 1 },
		"kb":         func(n int) string { return fmt.Sprintf("%.1f Ko", float64(n)/1024) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		ports: ports,
		pages: pages,
		ttl:   DefaultSessionTTL,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.expireEvery == 0 {
		s.expireEvery = s.ttl / 4
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler of the form.
func (s *Server) Handler() http.Handler {
	return recoverWrapper(s.mux)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		s.sweep(sweepCtx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Web form listening on http://%s", ln.Addr())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		stopSweep()
		<-sweepDone
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down web form")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("web form shutdown failed: %v", err)
	}
	err := <-serveErr
	stopSweep()
	<-sweepDone
	return err
}

// sweep drops expired sessions until ctx is done.
func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.expireEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ports.Results.Expire(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("session expiry failed: %v", err)
			}
		}
	}
}
