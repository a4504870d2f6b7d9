package subscriber

import (
	"context"
	"fmt"

	infraCache "github.com/NeuralTrust/ExamWatch/pkg/infra/cache"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/event"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionStopper ends the local monitors of a session.
type SessionStopper interface {
	StopSession(sessionID uuid.UUID, reason string) int
}

type SessionTerminatedEventSubscriber struct {
	logger  *logrus.Logger
	stopper SessionStopper
}

func NewSessionTerminatedEventSubscriber(
	logger *logrus.Logger,
	stopper SessionStopper,
) infraCache.EventSubscriber[event.SessionTerminatedEvent] {
	return &SessionTerminatedEventSubscriber{
		logger:  logger,
		stopper: stopper,
	}
}

func (s SessionTerminatedEventSubscriber) OnEvent(ctx context.Context, evt event.SessionTerminatedEvent) error {
	sessionID, err := uuid.Parse(evt.SessionID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", evt.SessionID, err)
	}
	stopped := s.stopper.StopSession(sessionID, evt.Reason)
	s.logger.WithFields(logrus.Fields{
		"session_id": evt.SessionID,
		"reason":     evt.Reason,
		"monitors":   stopped,
	}).Debug("session terminated")
	return nil
}
