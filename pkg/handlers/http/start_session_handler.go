package http

import (
	"github.com/NeuralTrust/ExamWatch/pkg/app/session"
	"github.com/NeuralTrust/ExamWatch/pkg/handlers/http/request"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type startSessionHandler struct {
	logger  *logrus.Logger
	starter session.Starter
}

func NewStartSessionHandler(logger *logrus.Logger, starter session.Starter) Handler {
	return &startSessionHandler{
		logger:  logger,
		starter: starter,
	}
}

// Handle @Summary Start an assessment session
// @Description Creates a session with a zero warning count and logs ASSESSMENT_STARTED
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body request.StartSessionRequest true "Session data"
// @Success 201 {object} assessment.Session "Session created"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/sessions [post]
func (h *startSessionHandler) Handle(c *fiber.Ctx) error {
	var req request.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to parse request body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if p, ok := middleware.PrincipalFrom(c); ok {
		req.UserID = p.UserID
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	req.UserAgent = c.Get(fiber.HeaderUserAgent)
	req.AcceptLanguage = c.Get(fiber.HeaderAcceptLanguage)

	s, err := h.starter.Start(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to start session"})
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}
