package http

import (
	"strings"

	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listSessionEventsHandler struct {
	logger *logrus.Logger
	events securityevent.Repository
}

func NewListSessionEventsHandler(logger *logrus.Logger, events securityevent.Repository) Handler {
	return &listSessionEventsHandler{
		logger: logger,
		events: events,
	}
}

// Handle @Summary List the security events of a session
// @Description Events in occurrence order, optionally filtered by a comma separated list of kinds
// @Tags Security Events
// @Param Authorization header string true "Authorization token"
// @Produce json
// @Param session_id path string true "Session ID"
// @Param kinds query string false "Comma separated kinds, e.g. WINDOW_BLUR,WINDOW_FOCUS"
// @Success 200 {array} securityevent.Event "Events"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/sessions/{session_id}/events [get]
func (h *listSessionEventsHandler) Handle(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var kinds []securityevent.Kind
	if raw := c.Query("kinds"); raw != "" {
		for _, k := range strings.Split(raw, ",") {
			kind := securityevent.Kind(strings.TrimSpace(k))
			if !kind.Valid() {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown kind " + string(kind)})
			}
			kinds = append(kinds, kind)
		}
	}

	events, err := h.events.ListBySession(c.Context(), id, kinds...)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", id).Error("failed to list security events")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list events"})
	}
	if events == nil {
		events = []*securityevent.Event{}
	}
	return c.Status(fiber.StatusOK).JSON(events)
}
