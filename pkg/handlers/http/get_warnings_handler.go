package http

import (
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type WarningsResponse struct {
	SessionID     string `json:"session_id"`
	WarningCount  int    `json:"warning_count"`
	MaxViolations int    `json:"max_violations"`
}

type getWarningsHandler struct {
	logger        *logrus.Logger
	sessions      assessment.Repository
	maxViolations int
}

func NewGetWarningsHandler(logger *logrus.Logger, sessions assessment.Repository, maxViolations int) Handler {
	return &getWarningsHandler{
		logger:        logger,
		sessions:      sessions,
		maxViolations: maxViolations,
	}
}

// Handle @Summary Get the warning count of a session
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} WarningsResponse "Warning count"
// @Failure 400 {object} map[string]interface{} "Invalid session id"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /api/v1/sessions/{session_id}/warnings [get]
func (h *getWarningsHandler) Handle(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	count, err := h.sessions.GetWarningCount(c.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", id).Error("failed to get warning count")
		return sessionLookupError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(WarningsResponse{
		SessionID:     id.String(),
		WarningCount:  count,
		MaxViolations: h.maxViolations,
	})
}
