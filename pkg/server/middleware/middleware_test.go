package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/ExamWatch/pkg/app/role/mocks"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/identity"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func adminApp(roles *mocks.RoleSource) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewAdminAuthMiddleware(quietLogger(), roles).Middleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(p.UserID)
	})
	return app
}

func TestAdminAuthMiddleware_NoHeader(t *testing.T) {
	roles := mocks.NewRoleSource(t)
	resp, err := adminApp(roles).Test(httptest.NewRequest(http.MethodGet, "/test", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminAuthMiddleware_InvalidToken(t *testing.T) {
	roles := mocks.NewRoleSource(t)
	roles.On("Lookup", mock.Anything, "bad").Return(identity.Principal{}, errors.New("invalid token")).Once()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer bad")
	resp, err := adminApp(roles).Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminAuthMiddleware_StudentForbidden(t *testing.T) {
	roles := mocks.NewRoleSource(t)
	roles.On("Lookup", mock.Anything, "student").
		Return(identity.Principal{UserID: "s1", Role: identity.RoleStudent}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer student")
	resp, err := adminApp(roles).Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminAuthMiddleware_Admin(t *testing.T) {
	roles := mocks.NewRoleSource(t)
	roles.On("Lookup", mock.Anything, "admin").
		Return(identity.Principal{UserID: "a1", Role: identity.RoleAdmin}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer admin")
	resp, err := adminApp(roles).Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "a1", string(body))
}

func TestIdentityMiddleware_AnonymousContinues(t *testing.T) {
	roles := mocks.NewRoleSource(t)
	roles.On("Lookup", mock.Anything, "broken").Return(identity.Principal{}, errors.New("expired")).Once()

	app := fiber.New()
	app.Use(middleware.NewIdentityMiddleware(quietLogger(), roles).Middleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		_, ok := middleware.PrincipalFrom(c)
		if ok {
			return c.SendString("known")
		}
		return c.SendString("anonymous")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "anonymous", string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/test?token=broken", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "anonymous", string(body))
}

func TestPanicRecoverMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.NewPanicRecoverMiddleware(quietLogger()).Middleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
