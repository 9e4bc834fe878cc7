package httpsrv

import (
	"context"
	"errors"
	"net/http"
	"time"
)

type Server struct {
	srv    *http.Server
	router *http.ServeMux
}

type ServerOptions struct {
	MetricsHandler http.HandlerFunc
	MetricsPath    string
	StateHandler   http.HandlerFunc
	CheckHandler   http.HandlerFunc
}

func NewServer(addr string, opts ServerOptions) *Server {
	router := http.NewServeMux()

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	router.Handle("/health", healthHandler())

	if opts.MetricsHandler != nil {
		router.Handle(opts.MetricsPath, opts.MetricsHandler)
	}

	if opts.StateHandler != nil {
		router.Handle("GET /state", opts.StateHandler)
	}

	if opts.CheckHandler != nil {
		router.Handle("POST /check", opts.CheckHandler)
	}

	return &Server{
		srv:    srv,
		router: router,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAddr() string {
	return s.srv.Addr
}

func (s *Server) Start() error {
	err := s.srv.ListenAndServe()

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
