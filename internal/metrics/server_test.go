package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/metrics"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return rec.Code, string(body)
}

func TestServerMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)
	metrics.JokesSent.WithLabelValues("command").Inc()

	srv := metrics.NewServer(logger.Discard(), "127.0.0.1:0", registry, nil)
	code, body := get(t, srv.Router, "/metrics")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if !strings.Contains(body, "jokebot_jokes_sent_total") {
		t.Errorf("body does not contain the jokes counter:\n%s", body)
	}
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		health metrics.Pinger
		want   int
	}{
		{"no pinger", nil, http.StatusOK},
		{"healthy", pinger{}, http.StatusOK},
		{"unhealthy", pinger{err: errors.New("db closed")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := metrics.NewServer(logger.Discard(), "127.0.0.1:0", prometheus.NewRegistry(), tt.health)
			if code, _ := get(t, srv.Router, "/healthz"); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestServerRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	srv := metrics.NewServer(logger.Discard(), "127.0.0.1:0", prometheus.NewRegistry(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := srv.Run(ctx); err != nil {
		t.Errorf("Run = %v, want nil", err)
	}
}
