package http

import (
	"errors"

	"github.com/NeuralTrust/ExamWatch/pkg/app/securitylog"
	"github.com/NeuralTrust/ExamWatch/pkg/domain"
	"github.com/NeuralTrust/ExamWatch/pkg/handlers/http/request"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/clock"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type logSecurityEventHandler struct {
	logger *logrus.Logger
	events securitylog.Logger
	clock  clock.Clock
}

func NewLogSecurityEventHandler(logger *logrus.Logger, events securitylog.Logger, clk clock.Clock) Handler {
	return &logSecurityEventHandler{
		logger: logger,
		events: events,
		clock:  clk,
	}
}

// Handle @Summary Report a security event
// @Description Accepts an event observed by the browser shim; storage is asynchronous
// @Tags Security Events
// @Accept json
// @Produce json
// @Param request body request.SecurityEventRequest true "Event"
// @Success 202 {object} map[string]interface{} "Event accepted"
// @Failure 400 {object} map[string]interface{} "Invalid event"
// @Failure 503 {object} map[string]interface{} "Security log saturated"
// @Router /api/v1/security-events [post]
func (h *logSecurityEventHandler) Handle(c *fiber.Ctx) error {
	var req request.SecurityEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var userID string
	if p, ok := middleware.PrincipalFrom(c); ok {
		userID = p.UserID
	}
	evt := req.ToEvent(h.clock.Now(), userID)

	err := h.events.Log(c.Context(), evt)
	switch {
	case errors.Is(err, domain.ErrInvalidEvent):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, securitylog.ErrQueueFull), errors.Is(err, securitylog.ErrClosed):
		h.logger.WithError(err).Warn("security event rejected")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to log event"})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": evt.ID.String()})
}
