package router_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/ExamWatch/pkg/app/role/mocks"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/identity"
	handlers "github.com/NeuralTrust/ExamWatch/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/ExamWatch/pkg/handlers/websocket"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/NeuralTrust/ExamWatch/pkg/server/router"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type namedHandler string

func (h namedHandler) Handle(c *fiber.Ctx) error {
	return c.SendString(string(h))
}

type noopSocketHandler struct{}

func (noopSocketHandler) Handle(*websocket.Conn) {}

type wrongTransport struct{}

func (wrongTransport) GetTransport() handlers.HandlerTransport {
	return wrongTransport{}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func handlerTransport() *handlers.HandlerTransportDTO {
	return &handlers.HandlerTransportDTO{
		GetGuardRulesHandler:      namedHandler("guard-rules"),
		StartSessionHandler:       namedHandler("start-session"),
		GetWarningsHandler:        namedHandler("warnings"),
		ReportViolationHandler:    namedHandler("violation"),
		CancelSessionHandler:      namedHandler("cancel"),
		LogSecurityEventHandler:   namedHandler("security-event"),
		GetProtectionStateHandler: namedHandler("protection"),
		GetSessionHandler:         namedHandler("get-session"),
		ListSessionEventsHandler:  namedHandler("session-events"),
		InvalidateRoleHandler:     namedHandler("invalidate-role"),
		GetVersionHandler:         namedHandler("version"),
	}
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestProctorRouter_Routes(t *testing.T) {
	app := fiber.New()
	r := router.NewProctorRouter(
		middleware.NewTransport(),
		handlerTransport(),
		&wsHandlers.HandlerTransportDTO{ProctorHandler: noopSocketHandler{}},
	)
	require.NoError(t, r.BuildRoutes(app))

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/v1/guard/rules", "guard-rules"},
		{http.MethodGet, "/api/v1/protection?path=/dashboard", "protection"},
		{http.MethodPost, "/api/v1/security-events", "security-event"},
		{http.MethodPost, "/api/v1/sessions", "start-session"},
		{http.MethodGet, "/api/v1/sessions/abc/warnings", "warnings"},
		{http.MethodPost, "/api/v1/sessions/abc/violations", "violation"},
		{http.MethodPost, "/api/v1/sessions/abc/cancel", "cancel"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, body(t, resp))
		})
	}
}

func TestProctorRouter_SocketRequiresUpgrade(t *testing.T) {
	app := fiber.New()
	r := router.NewProctorRouter(
		middleware.NewTransport(),
		handlerTransport(),
		&wsHandlers.HandlerTransportDTO{ProctorHandler: noopSocketHandler{}},
	)
	require.NoError(t, r.BuildRoutes(app))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, router.ProctorSocketPath, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestProctorRouter_InvalidTransport(t *testing.T) {
	r := router.NewProctorRouter(
		middleware.NewTransport(),
		wrongTransport{},
		&wsHandlers.HandlerTransportDTO{ProctorHandler: noopSocketHandler{}},
	)
	assert.ErrorIs(t, r.BuildRoutes(fiber.New()), router.ErrInvalidHandlerTransport)
}

func TestAdminRouter_RequiresAdmin(t *testing.T) {
	roles := mocks.NewRoleSource(t)
	roles.On("Lookup", mock.Anything, "admin-token").
		Return(identity.Principal{UserID: "root", Role: identity.RoleAdmin}, nil)
	roles.On("Lookup", mock.Anything, "student-token").
		Return(identity.Principal{UserID: "s1", Role: identity.RoleStudent}, nil)

	app := fiber.New()
	r := router.NewAdminRouter(
		middleware.NewTransport(),
		middleware.NewAdminAuthMiddleware(quietLogger(), roles),
		handlerTransport(),
	)
	require.NoError(t, r.BuildRoutes(app))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/version", nil))
	require.NoError(t, err)
	assert.Equal(t, "version", body(t, resp))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc/events", nil)
	req.Header.Set("Authorization", "Bearer student-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/roles/s1/invalidate", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "invalidate-role", body(t, resp))
}
