package middleware

import (
	"strings"

	"github.com/NeuralTrust/ExamWatch/pkg/config"
	infra "github.com/NeuralTrust/ExamWatch/pkg/infra/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type websocketMiddleware struct {
	config    *config.Config
	logger    *logrus.Logger
	semaphore *infra.Semaphore
}

func NewWebsocketMiddleware(
	config *config.Config,
	logger *logrus.Logger,
) Middleware {
	return &websocketMiddleware{
		config:    config,
		logger:    logger,
		semaphore: infra.NewSemaphore(config.WebSocket.MaxConnections),
	}
}

func (m *websocketMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(c.Path(), "/ws") {
			return c.Next()
		}
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if !m.semaphore.Acquire() {
			m.logger.WithField("capacity", m.semaphore.Capacity()).Warn("maximum webSocket connections reached, rejecting connection")
			return fiber.ErrTooManyRequests
		}
		c.Locals(WsSemaphoreKey, m.semaphore)
		c.Locals(WsTokenKey, bearerToken(c))
		return c.Next()
	}
}
