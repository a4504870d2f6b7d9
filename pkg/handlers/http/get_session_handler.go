package http

import (
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getSessionHandler struct {
	logger   *logrus.Logger
	sessions assessment.Repository
}

func NewGetSessionHandler(logger *logrus.Logger, sessions assessment.Repository) Handler {
	return &getSessionHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// Handle @Summary Retrieve an assessment session
// @Tags Sessions
// @Param Authorization header string true "Authorization token"
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} assessment.Session "Session"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /api/v1/sessions/{session_id} [get]
func (h *getSessionHandler) Handle(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	s, err := h.sessions.GetByID(c.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", id).Error("failed to get session")
		return sessionLookupError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(s)
}
