package http

import (
	"github.com/NeuralTrust/ExamWatch/pkg/app/role"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type invalidateRoleHandler struct {
	logger      *logrus.Logger
	invalidator role.Invalidator
}

func NewInvalidateRoleHandler(logger *logrus.Logger, invalidator role.Invalidator) Handler {
	return &invalidateRoleHandler{
		logger:      logger,
		invalidator: invalidator,
	}
}

// Handle @Summary Invalidate the cached role of a user
// @Description Drops the user's cached role on every instance so the next lookup re-resolves it
// @Tags Roles
// @Param Authorization header string true "Authorization token"
// @Param user_id path string true "User ID"
// @Success 204 "Role cache invalidated"
// @Failure 500 {object} map[string]interface{} "Invalidation not propagated"
// @Router /api/v1/roles/{user_id}/invalidate [post]
func (h *invalidateRoleHandler) Handle(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}
	if err := h.invalidator.Invalidate(c.Context(), userID); err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("failed to invalidate role cache")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to propagate invalidation"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
