package http

import (
	"github.com/NeuralTrust/ExamWatch/pkg/app/guard"
	"github.com/NeuralTrust/ExamWatch/pkg/config"
	"github.com/gofiber/fiber/v2"
)

type GuardRulesResponse struct {
	Rules                 []guard.Rule `json:"rules"`
	ContextMenuCooldownMs int64        `json:"context_menu_cooldown_ms"`
	DevtoolsThreshold     int          `json:"devtools_threshold"`
	DebounceMs            int64        `json:"debounce_ms"`
	MaxViolations         int          `json:"max_violations"`
}

type getGuardRulesHandler struct {
	cfg config.ProctoringConfig
}

func NewGetGuardRulesHandler(cfg config.ProctoringConfig) Handler {
	return &getGuardRulesHandler{cfg: cfg.WithDefaults()}
}

// Handle @Summary Get the input guard rule table
// @Description Returns the keyboard rules the browser shim cancels locally, plus the detector knobs
// @Tags Guard
// @Produce json
// @Success 200 {object} GuardRulesResponse "Guard rules"
// @Router /api/v1/guard/rules [get]
func (h *getGuardRulesHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(GuardRulesResponse{
		Rules:                 guard.Rules(),
		ContextMenuCooldownMs: h.cfg.ContextMenuCooldown.Milliseconds(),
		DevtoolsThreshold:     h.cfg.DevtoolsThreshold,
		DebounceMs:            h.cfg.Debounce.Milliseconds(),
		MaxViolations:         h.cfg.MaxViolations,
	})
}
