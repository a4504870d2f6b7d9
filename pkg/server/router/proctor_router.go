package router

import (
	"time"

	handlers "github.com/NeuralTrust/ExamWatch/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/ExamWatch/pkg/handlers/websocket"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const (
	PingPath          = "/__/ping"
	ProctorSocketPath = "/ws/proctor"
)

type proctorRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
	wsHandlerTransport  wsHandlers.HandlerTransport
}

func NewProctorRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
	wsHandlerTransport wsHandlers.HandlerTransport,
) ServerRouter {
	return &proctorRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		wsHandlerTransport:  wsHandlerTransport,
	}
}

func (r *proctorRouter) BuildRoutes(router *fiber.App) error {
	handlerTransport, ok := r.handlerTransport.GetTransport().(*handlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}
	wsHandlerTransport, ok := r.wsHandlerTransport.GetTransport().(*wsHandlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}

	router.Get(PingPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "pong",
		})
	})

	if mws := r.middlewareTransport.GetMiddlewares(); mws != nil {
		router.Use(mws...)
	}

	router.Get(ProctorSocketPath, websocket.New(
		wsHandlerTransport.ProctorHandler.Handle,
		websocket.Config{
			HandshakeTimeout: 15 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	))

	v1 := router.Group("/api/v1")
	{
		v1.Get("/guard/rules", handlerTransport.GetGuardRulesHandler.Handle)
		v1.Get("/protection", handlerTransport.GetProtectionStateHandler.Handle)
		v1.Post("/security-events", handlerTransport.LogSecurityEventHandler.Handle)

		sessions := v1.Group("/sessions")
		{
			sessions.Post("", handlerTransport.StartSessionHandler.Handle)
			sessions.Get("/:session_id/warnings", handlerTransport.GetWarningsHandler.Handle)
			sessions.Post("/:session_id/violations", handlerTransport.ReportViolationHandler.Handle)
			sessions.Post("/:session_id/cancel", handlerTransport.CancelSessionHandler.Handle)
		}
	}
	return nil
}
