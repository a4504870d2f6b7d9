package http

import (
	"errors"

	"github.com/NeuralTrust/ExamWatch/pkg/app/session"
	"github.com/NeuralTrust/ExamWatch/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type cancelSessionHandler struct {
	logger    *logrus.Logger
	canceller session.Canceller
}

func NewCancelSessionHandler(logger *logrus.Logger, canceller session.Canceller) Handler {
	return &cancelSessionHandler{
		logger:    logger,
		canceller: canceller,
	}
}

// Handle @Summary Cancel an assessment session
// @Description Ends the session with a zero score at the student's request
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} map[string]interface{} "Cancellation result"
// @Failure 401 {object} map[string]interface{} "Authentication required"
// @Failure 403 {object} map[string]interface{} "Session belongs to another user"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /api/v1/sessions/{session_id}/cancel [post]
func (h *cancelSessionHandler) Handle(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	userID, ok := authenticatedUser(c)
	if !ok {
		return unauthenticated(c)
	}

	performed, err := h.canceller.Cancel(c.Context(), id, userID)
	switch {
	case errors.Is(err, session.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case domain.IsNotFoundError(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	case err != nil:
		h.logger.WithError(err).WithField("session_id", id).Error("failed to cancel session")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to cancel session"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"session_id": id.String(),
		"cancelled":  performed,
	})
}
