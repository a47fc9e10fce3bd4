package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	httpx "github.com/target/saarevents/internal/http"
)

const callbackPath = "/auth/callback"

// CallbackServerConfig contains configuration for the loopback sign-in server.
type CallbackServerConfig struct {
	// Addr is the loopback address to bind, e.g. "127.0.0.1:8765". Port 0 picks a free port.
	Addr    string
	Service httpx.FederatedLoginCompleter
	Logger  *slog.Logger
}

// CallbackServer receives the federated sign-in redirect on the local machine.
type CallbackServer struct {
	server  *http.Server
	addr    net.Addr
	results chan httpx.CallbackResult
	logger  *slog.Logger
}

// StartCallbackServer binds the listener and serves in the background.
func StartCallbackServer(cfg CallbackServerConfig) (*CallbackServer, error) {
	if cfg.Service == nil {
		return nil, errors.New("callback server requires a sign-in service")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := cfg.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	s := &CallbackServer{
		addr:    ln.Addr(),
		results: make(chan httpx.CallbackResult, 1),
		logger:  logger,
	}
	auth := &httpx.AuthHandlers{
		Svc:      cfg.Service,
		Logger:   logger,
		OnResult: func(res httpx.CallbackResult) { s.results <- res },
	}
	s.server = &http.Server{
		Handler:           httpx.NewRouter(auth, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Debug("starting callback server", "addr", s.addr.String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("callback server failed", "error", err)
		}
	}()

	return s, nil
}

// RedirectURL is the URL the identity provider must redirect back to.
func (s *CallbackServer) RedirectURL() string {
	return "http://" + s.addr.String() + callbackPath
}

// Wait blocks until the first callback has been handled or ctx is done.
func (s *CallbackServer) Wait(ctx context.Context) (domainauth.Identity, error) {
	select {
	case res := <-s.results:
		return res.Identity, res.Err
	case <-ctx.Done():
		return domainauth.Identity{}, fmt.Errorf("waiting for sign-in callback: %w", ctx.Err())
	}
}

// Shutdown gracefully stops the server.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Debug("callback server stopped")
	return nil
}
