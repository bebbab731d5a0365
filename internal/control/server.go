// internal/control/server.go
package control

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"
)

// ServerConfig configures the control API server.
type ServerConfig struct {
	ListenAddr   string
	ReadTimeout  time.Duration // optional
	WriteTimeout time.Duration // optional
	IdleTimeout  time.Duration // optional
}

var ErrNilService = errors.New("control server: service is nil")

// StartServer binds the listener and serves the control API.
// The returned channel receives a terminal serve error, if any, and is closed
// when the server stops. The server shuts down when ctx is canceled.
func StartServer(ctx context.Context, cfg ServerConfig, svc *Service) (net.Addr, <-chan error, error) {
	if svc == nil {
		return nil, nil, ErrNilService
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return nil, nil, err
	}

	srv := &http.Server{
		Handler:      NewHandler(svc),
		ReadTimeout:  durationOr(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout: durationOr(cfg.WriteTimeout, 10*time.Second),
		IdleTimeout:  durationOr(cfg.IdleTimeout, 60*time.Second),
	}

	errCh := make(chan error, 1)

	go func() {
		log.Printf("control: API listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Shutdown watcher
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return ln.Addr(), errCh, nil
}

func durationOr(v time.Duration, d time.Duration) time.Duration {
	if v <= 0 {
		return d
	}
	return v
}
