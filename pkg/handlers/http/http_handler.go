package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport interface {
	GetTransport() HandlerTransport
}

type HandlerTransportDTO struct {
	// Proctor
	GetGuardRulesHandler      Handler
	StartSessionHandler       Handler
	GetWarningsHandler        Handler
	ReportViolationHandler    Handler
	CancelSessionHandler      Handler
	LogSecurityEventHandler   Handler
	GetProtectionStateHandler Handler

	// Admin
	GetSessionHandler        Handler
	ListSessionEventsHandler Handler
	InvalidateRoleHandler    Handler
	GetVersionHandler        Handler
}

func (t *HandlerTransportDTO) GetTransport() HandlerTransport {
	return t
}
