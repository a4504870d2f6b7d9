package middleware

import (
	"github.com/NeuralTrust/ExamWatch/pkg/app/role"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// identityMiddleware resolves the caller when a token is present. Requests
// without a resolvable token continue anonymously; handlers treat that as
// an unknown role.
type identityMiddleware struct {
	logger *logrus.Logger
	roles  role.RoleSource
}

func NewIdentityMiddleware(
	logger *logrus.Logger,
	roles role.RoleSource,
) Middleware {
	return &identityMiddleware{
		logger: logger,
		roles:  roles,
	}
}

func (m *identityMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}
		principal, err := m.roles.Lookup(c.Context(), token)
		if err != nil {
			m.logger.WithError(err).Debug("could not resolve caller, continuing anonymously")
			return c.Next()
		}
		c.Locals(identity.PrincipalContextKey, principal)
		return c.Next()
	}
}

// PrincipalFrom returns the caller resolved by the identity or admin
// middleware.
func PrincipalFrom(c *fiber.Ctx) (identity.Principal, bool) {
	p, ok := c.Locals(identity.PrincipalContextKey).(identity.Principal)
	return p, ok
}
