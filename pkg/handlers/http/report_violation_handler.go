package http

import (
	"github.com/NeuralTrust/ExamWatch/pkg/app/violation"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/NeuralTrust/ExamWatch/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type OutcomeResponse struct {
	Count      int    `json:"count"`
	Max        int    `json:"max"`
	Action     string `json:"action"`
	Message    string `json:"message"`
	Terminated bool   `json:"terminated"`
}

func newOutcomeResponse(out violation.Outcome) OutcomeResponse {
	return OutcomeResponse{
		Count:      out.Count,
		Max:        out.Max,
		Action:     out.Action.String(),
		Message:    out.Message,
		Terminated: out.Terminated,
	}
}

type reportViolationHandler struct {
	logger   *logrus.Logger
	sessions assessment.Repository
	recorder violation.Recorder
}

func NewReportViolationHandler(
	logger *logrus.Logger,
	sessions assessment.Repository,
	recorder violation.Recorder,
) Handler {
	return &reportViolationHandler{
		logger:   logger,
		sessions: sessions,
		recorder: recorder,
	}
}

// Handle @Summary Record a tab-exit violation
// @Description Increments the warning count once and returns the warning ladder step reached
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param request body request.ReportViolationRequest true "Violation"
// @Success 200 {object} OutcomeResponse "Ladder outcome"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 401 {object} map[string]interface{} "Authentication required"
// @Failure 403 {object} map[string]interface{} "Session belongs to another user"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /api/v1/sessions/{session_id}/violations [post]
func (h *reportViolationHandler) Handle(c *fiber.Ctx) error {
	userID, ok := authenticatedUser(c)
	if !ok {
		return unauthenticated(c)
	}
	id, err := parseSessionID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var req request.ReportViolationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s, err := h.sessions.GetByID(c.Context(), id)
	if err != nil {
		return sessionLookupError(c, err)
	}
	if s.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "session belongs to another user"})
	}

	out, err := h.recorder.RecordViolation(c.Context(), violation.TargetFor(s), req.Details)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "violation not recorded"})
	}
	return c.Status(fiber.StatusOK).JSON(newOutcomeResponse(out))
}
