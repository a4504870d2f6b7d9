package http

import (
	"github.com/NeuralTrust/ExamWatch/pkg/app/protection"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ProtectionStateResponse struct {
	protection.State
	Role string `json:"role"`
}

type getProtectionStateHandler struct {
	logger   *logrus.Logger
	sessions assessment.Repository
}

func NewGetProtectionStateHandler(logger *logrus.Logger, sessions assessment.Repository) Handler {
	return &getProtectionStateHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// Handle @Summary Derive the protection flags for a page
// @Description Evaluates the orchestrator for the given path and the caller's role. Callers without a resolvable role are protected.
// @Tags Guard
// @Produce json
// @Param path query string true "Page path including the session query parameter"
// @Success 200 {object} ProtectionStateResponse "Protection state"
// @Router /api/v1/protection [get]
func (h *getProtectionStateHandler) Handle(c *fiber.Ctx) error {
	route := protection.ParseRoute(c.Query("path"))

	status := protection.RoleUnknown
	if p, ok := middleware.PrincipalFrom(c); ok {
		status = protection.RoleStatusFromAdmin(p.IsAdmin())
	}

	inProgress := false
	if route.Taking && route.SessionID != nil {
		s, err := h.sessions.GetByID(c.Context(), *route.SessionID)
		if err != nil {
			h.logger.WithError(err).WithField("session_id", *route.SessionID).Debug("session lookup failed, treating as not in progress")
		} else {
			inProgress = s.InProgress() && (route.AssessmentID == nil || *route.AssessmentID == s.AssessmentID)
		}
	}

	state := protection.Derive(route, status, inProgress)
	return c.Status(fiber.StatusOK).JSON(ProtectionStateResponse{State: state, Role: status.String()})
}
