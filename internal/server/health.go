package server

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/kapu/mendy-translator-go/pkg/errors"
)

const readyTimeout = 5 * time.Second

// BackendPinger checks that the generation backend is reachable.
type BackendPinger interface {
	Name() string
	Model() string
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]compStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

type compStatus struct {
	Status  string `json:"status"`
	Model   string `json:"model,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type healthHandler struct {
	backend BackendPinger
	version string
}

// live always reports ok while the process serves requests.
func (h *healthHandler) live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Version:   h.version,
		Timestamp: time.Now(),
	})
}

// ready reports 503 when the generation backend cannot be reached.
func (h *healthHandler) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	start := time.Now()
	err := h.backend.Ping(ctx)
	latency := time.Since(start)

	comp := compStatus{Status: "ok", Model: h.backend.Model(), Latency: latency.String()}
	status := http.StatusOK
	overall := "ok"
	if err != nil {
		comp = compStatus{Status: "down", Model: h.backend.Model(), Kind: apperrors.KindOf(err)}
		status = http.StatusServiceUnavailable
		overall = "down"
	}

	writeJSON(w, status, healthResponse{
		Status:     overall,
		Version:    h.version,
		Components: map[string]compStatus{h.backend.Name(): comp},
		Timestamp:  time.Now(),
	})
}
