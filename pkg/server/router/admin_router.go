package router

import (
	"errors"

	_ "github.com/NeuralTrust/ExamWatch/docs"
	handlers "github.com/NeuralTrust/ExamWatch/pkg/handlers/http"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

var (
	ErrInvalidHandlerTransport = errors.New("invalid handler transport")
)

type adminRouter struct {
	middlewareTransport *middleware.Transport
	authMiddleware      middleware.Middleware
	handlerTransport    handlers.HandlerTransport
}

// NewAdminRouter mounts the admin API. Every /api/v1 route requires an
// admin bearer token.
func NewAdminRouter(
	middlewareTransport *middleware.Transport,
	authMiddleware middleware.Middleware,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &adminRouter{
		middlewareTransport: middlewareTransport,
		authMiddleware:      authMiddleware,
		handlerTransport:    handlerTransport,
	}
}

func (r *adminRouter) BuildRoutes(router *fiber.App) error {
	handlerTransport, ok := r.handlerTransport.GetTransport().(*handlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}

	if mws := r.middlewareTransport.GetMiddlewares(); mws != nil {
		router.Use(mws...)
	}

	router.Get("/docs/*", swagger.HandlerDefault)

	router.Get("/version", handlerTransport.GetVersionHandler.Handle)

	v1 := router.Group("/api/v1", r.authMiddleware.Middleware())
	{
		sessions := v1.Group("/sessions")
		{
			sessions.Get("/:session_id", handlerTransport.GetSessionHandler.Handle)
			sessions.Get("/:session_id/events", handlerTransport.ListSessionEventsHandler.Handle)
		}

		roles := v1.Group("/roles")
		{
			roles.Post("/:user_id/invalidate", handlerTransport.InvalidateRoleHandler.Handle)
		}
	}
	return nil
}
