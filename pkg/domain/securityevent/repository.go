package securityevent

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=security_event_repository_mock.go --case=underscore
type Repository interface {
	Save(ctx context.Context, event *Event) error
	ListBySession(ctx context.Context, sessionID uuid.UUID, kinds ...Kind) ([]*Event, error)
}
