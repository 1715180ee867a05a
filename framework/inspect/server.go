package inspect

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-objectfactory/framework/container"
	"github.com/km-arc/go-objectfactory/framework/metadata"
)

// Server serves NewHandler for the container that created it. It is meant
// to be a managed instance: the container injects its fields, Start runs
// as its initializer and Stop as its destructor.
type Server struct {
	Host string               `config:"inspect.host" default:"127.0.0.1"`
	Port int                  `config:"app.port" default:"8000"`
	Log  *zap.Logger          `logger:""`
	C    *container.Container `inject:"Container"`

	srv  *http.Server
	addr net.Addr
}

// Annotate declares Server's lifecycle methods on store.
func Annotate(store *metadata.Store) {
	metadata.For[Server](store).Init("Start").Destroy("Stop")
}

// Start listens on Host:Port and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", net.JoinHostPort(s.Host, fmt.Sprint(s.Port)))
	if err != nil {
		return fmt.Errorf("inspect: listen: %w", err)
	}
	s.addr = ln.Addr()
	s.srv = &http.Server{
		Handler:           NewHandler(s.C),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.Log.Info("Inspect server listening", zap.String("addr", s.addr.String()))
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Log.Error("Inspect server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.Log.Info("Inspect server shutting down")
	return s.srv.Shutdown(ctx)
}

// Addr returns the listening address once started.
func (s *Server) Addr() net.Addr { return s.addr }
