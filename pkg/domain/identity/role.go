package identity

import "context"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Principal is the resolved identity behind a bearer token.
type Principal struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

//go:generate mockery --name=Resolver --dir=. --output=./mocks --filename=resolver_mock.go --case=underscore
type Resolver interface {
	Resolve(ctx context.Context, token string) (Principal, error)
}

// PrincipalContextKey is the fiber Locals key holding the resolved Principal.
const PrincipalContextKey = "principal"
