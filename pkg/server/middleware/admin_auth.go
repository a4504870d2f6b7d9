package middleware

import (
	"strings"

	"github.com/NeuralTrust/ExamWatch/pkg/app/role"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type adminAuthMiddleware struct {
	logger *logrus.Logger
	roles  role.RoleSource
}

func NewAdminAuthMiddleware(
	logger *logrus.Logger,
	roles role.RoleSource,
) Middleware {
	return &adminAuthMiddleware{
		logger: logger,
		roles:  roles,
	}
}

func (m *adminAuthMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(authorizationHeader)
		if authHeader == "" {
			m.logger.Debug("no authorization header provided")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authorization required"})
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			m.logger.Debug("invalid authorization header format")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format"})
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		if tokenString == "" {
			m.logger.Debug("empty token provided")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Empty token provided"})
		}

		principal, err := m.roles.Lookup(ctx.Context(), tokenString)
		if err != nil {
			m.logger.WithError(err).Debug("invalid token")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		if !principal.IsAdmin() {
			m.logger.WithField("user_id", principal.UserID).Debug("admin role required")
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin role required"})
		}

		ctx.Locals(identity.PrincipalContextKey, principal)
		return ctx.Next()
	}
}
