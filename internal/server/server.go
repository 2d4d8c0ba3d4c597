package server

import (
	"net/http"
	"time"

	"github.com/safhub/portald/internal/config"
	"github.com/safhub/portald/internal/credstore"
)

type Server struct {
	addr string
	h    http.Handler
}

func New(cfg config.Config, users *credstore.Store) (*Server, error) {
	app, err := newApp(cfg, users)
	if err != nil {
		return nil, err
	}
	return &Server{addr: cfg.Listen, h: app.routes()}, nil
}

func (s *Server) ListenAndServe() error {
	httpSrv := &http.Server{
		Addr:              s.addr,
		Handler:           s.h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpSrv.ListenAndServe()
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.h
}
