package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=session_repository_mock.go --case=underscore
type Repository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	GetWarningCount(ctx context.Context, id uuid.UUID) (int, error)
	// IncrementWarningCount adds one to the counter in a single round trip
	// and returns the new value. It fails with domain.ErrSessionTerminated
	// once the session is completed.
	IncrementWarningCount(ctx context.Context, id uuid.UUID) (int, error)
	// Terminate writes the terminal cancelled state. It returns true only
	// for the call that performed the transition.
	Terminate(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error)
}
