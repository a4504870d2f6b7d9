package violation

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/ExamWatch/pkg/app/securitylog"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/channel"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/event"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/clock"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	ReasonTooManyViolations = "Too many violations: left the assessment repeatedly"
	ReasonCancelledByUser   = "Cancelled by the student"
)

type Terminator struct {
	logger    *logrus.Logger
	sessions  assessment.Repository
	events    securitylog.Logger
	publisher cache.EventPublisher
	clock     clock.Clock
}

func NewTerminator(
	logger *logrus.Logger,
	sessions assessment.Repository,
	events securitylog.Logger,
	publisher cache.EventPublisher,
	clk clock.Clock,
) *Terminator {
	return &Terminator{
		logger:    logger,
		sessions:  sessions,
		events:    events,
		publisher: publisher,
		clock:     clk,
	}
}

// Terminate writes the terminal cancelled state with a zero score. Only
// the call that performed the transition returns true, logs
// ASSESSMENT_CANCELLED and fans the termination out to other instances.
func (t *Terminator) Terminate(ctx context.Context, target Target, reason string) (bool, error) {
	now := t.clock.Now()
	performed, err := t.sessions.Terminate(ctx, target.SessionID, reason, now)
	if err != nil {
		prometheus.CollaboratorFailures.WithLabelValues("terminate_session").Inc()
		t.logger.WithError(err).WithField("session_id", target.SessionID).Error("failed to terminate assessment session")
		return false, fmt.Errorf("terminate session %s: %w", target.SessionID, err)
	}
	if !performed {
		t.logger.WithField("session_id", target.SessionID).Debug("assessment session already terminated")
		return false, nil
	}

	prometheus.SessionsTerminated.WithLabelValues(reason).Inc()
	t.logger.WithFields(logrus.Fields{
		"session_id":    target.SessionID,
		"assessment_id": target.AssessmentID,
		"user_id":       target.UserID,
		"reason":        reason,
	}).Info("assessment session terminated")

	evt := securityevent.New(securityevent.KindAssessmentCancelled, reason, now, target.EventOptions()...)
	if err := t.events.Log(ctx, evt); err != nil {
		t.logger.WithError(err).Warn("failed to log assessment cancellation")
	}

	if t.publisher != nil {
		msg := event.SessionTerminatedEvent{SessionID: target.SessionID.String(), Reason: reason}
		if target.AssessmentID != nil {
			msg.AssessmentID = target.AssessmentID.String()
		}
		if err := t.publisher.Publish(ctx, channel.SessionEventsChannel, msg); err != nil {
			t.logger.WithError(err).WithField("session_id", target.SessionID).Warn("failed to publish session termination")
		}
	}
	return true, nil
}
