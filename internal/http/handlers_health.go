package httpx

import (
	"net/http"
)

// healthBody identifies the loopback listener.
var healthBody = []byte(`{"status":"ok","service":"saarevents-callback"}` + "\n")

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(healthBody)
}
