package httpx

import (
	"log/slog"
	"net/http"
)

// NewRouter builds the loopback router used during federated sign-in.
func NewRouter(auth *AuthHandlers, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	if auth != nil {
		mux.HandleFunc("GET /auth/callback", auth.Callback)
	}

	var h http.Handler = mux
	h = NoStore(h)
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	return h
}
