package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/ExamWatch/pkg/config"
	"github.com/gofiber/fiber/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestAdminServer_HealthEndpoints(t *testing.T) {
	s := NewAdminServer(AdminServerDI{
		Config: &config.Config{},
		Logger: quietLogger(),
	})

	for _, path := range []string{"/health", AdminHealthPath} {
		resp, err := s.Router.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}

func TestMetricsApp_ServesRegistry(t *testing.T) {
	registry := prom.NewRegistry()
	counter := prom.NewCounter(prom.CounterOpts{
		Name: "examwatch_test_total",
		Help: "test counter",
	})
	registry.MustRegister(counter)
	counter.Inc()

	resp, err := newMetricsApp(registry).Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "examwatch_test_total 1")
}

func TestProctorServer_MetricsDisabled(t *testing.T) {
	s := NewProctorServer(ProctorServerDI{
		Config: &config.Config{},
		Logger: quietLogger(),
	})
	assert.False(t, s.metricsStarted)
	assert.Nil(t, s.metricsApp)
}
