package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeuralTrust/ExamWatch/pkg/app/violation"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrAnonymous = errors.New("caller is not authenticated")
	ErrNotOwner  = errors.New("session belongs to another user")
)

//go:generate mockery --name=Canceller --dir=. --output=./mocks --filename=session_canceller_mock.go --case=underscore
type Canceller interface {
	// Cancel ends a session at the student's request. It reports whether
	// this call performed the cancellation.
	Cancel(ctx context.Context, sessionID uuid.UUID, userID string) (bool, error)
}

type canceller struct {
	logger     *logrus.Logger
	sessions   assessment.Repository
	terminator *violation.Terminator
}

func NewCanceller(
	logger *logrus.Logger,
	sessions assessment.Repository,
	terminator *violation.Terminator,
) Canceller {
	return &canceller{
		logger:     logger,
		sessions:   sessions,
		terminator: terminator,
	}
}

func (c *canceller) Cancel(ctx context.Context, sessionID uuid.UUID, userID string) (bool, error) {
	if userID == "" {
		return false, ErrAnonymous
	}
	session, err := c.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to get session: %w", err)
	}
	if session.UserID != userID {
		return false, ErrNotOwner
	}
	if !session.InProgress() {
		return false, nil
	}
	return c.terminator.Terminate(ctx, violation.TargetFor(session), violation.ReasonCancelledByUser)
}
