package http

import (
	"github.com/NeuralTrust/ExamWatch/pkg/domain"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return uuid.Nil, domain.ErrInvalidSessionID
	}
	return id, nil
}

func authenticatedUser(c *fiber.Ctx) (string, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.UserID == "" {
		return "", false
	}
	return p.UserID, true
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
}

func sessionLookupError(c *fiber.Ctx, err error) error {
	if domain.IsNotFoundError(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get session"})
}
