package middleware

import "github.com/gofiber/fiber/v2"

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	tokenQueryParam     = "token"

	WsSemaphoreKey = "ws_semaphore"
	WsTokenKey     = "ws_token"
)

type Middleware interface {
	Middleware() fiber.Handler
}

type Transport struct {
	Middlewares []Middleware
}

func NewTransport(middlewares ...Middleware) *Transport {
	return &Transport{
		Middlewares: middlewares,
	}
}

func (t *Transport) GetMiddlewares() []interface{} {
	var handlers []interface{}
	for _, middleware := range t.Middlewares {
		handlers = append(handlers, middleware.Middleware())
	}
	return handlers
}

func (t *Transport) RegisterMiddleware(middleware Middleware) {
	t.Middlewares = append(t.Middlewares, middleware)
}

// bearerToken returns the token of an Authorization header, falling back
// to the token query parameter browsers use for websocket upgrades.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(authorizationHeader)
	if len(header) > len(bearerPrefix) && header[:len(bearerPrefix)] == bearerPrefix {
		return header[len(bearerPrefix):]
	}
	return c.Query(tokenQueryParam)
}
