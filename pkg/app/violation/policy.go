package violation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/NeuralTrust/ExamWatch/pkg/domain"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

type Action int

const (
	ActionFirstWarning Action = iota + 1
	ActionFinalWarning
	ActionTerminate
)

func (a Action) String() string {
	switch a {
	case ActionFirstWarning:
		return "first_warning"
	case ActionFinalWarning:
		return "final_warning"
	case ActionTerminate:
		return "terminate"
	default:
		return "none"
	}
}

// Outcome is the ladder step reached by one acknowledged violation.
type Outcome struct {
	Count   int
	Max     int
	Action  Action
	Message string
	// Terminated is true only for the violation whose termination write
	// performed the transition.
	Terminated bool
}

//go:generate mockery --name=Recorder --dir=. --output=./mocks --filename=recorder_mock.go --case=underscore
type Recorder interface {
	RecordViolation(ctx context.Context, target Target, details string) (Outcome, error)
}

type Policy struct {
	logger        *logrus.Logger
	sessions      assessment.Repository
	terminator    *Terminator
	maxViolations int
}

func NewPolicy(
	logger *logrus.Logger,
	sessions assessment.Repository,
	terminator *Terminator,
	maxViolations int,
) *Policy {
	if maxViolations <= 0 {
		maxViolations = 3
	}
	return &Policy{
		logger:        logger,
		sessions:      sessions,
		terminator:    terminator,
		maxViolations: maxViolations,
	}
}

func (p *Policy) MaxViolations() int {
	return p.maxViolations
}

// RecordViolation increments the stored counter once and maps the new
// value onto the warning ladder. A failed increment is returned and the
// ladder does not advance; callers must not retry it.
func (p *Policy) RecordViolation(ctx context.Context, target Target, details string) (Outcome, error) {
	count, err := p.sessions.IncrementWarningCount(ctx, target.SessionID)
	if errors.Is(err, domain.ErrSessionTerminated) {
		return Outcome{Count: count, Max: p.maxViolations, Action: ActionTerminate, Message: p.completedMessage(ctx, target)}, nil
	}
	if err != nil {
		prometheus.CollaboratorFailures.WithLabelValues("increment_warning_count").Inc()
		p.logger.WithError(err).WithFields(logrus.Fields{
			"session_id": target.SessionID,
			"details":    details,
		}).Error("failed to record violation")
		return Outcome{}, fmt.Errorf("record violation: %w", err)
	}

	prometheus.ViolationsRecorded.Inc()
	out := p.ladder(count)
	prometheus.WarningsIssued.WithLabelValues(strconv.Itoa(min(count, p.maxViolations))).Inc()

	p.logger.WithFields(logrus.Fields{
		"session_id": target.SessionID,
		"count":      count,
		"action":     out.Action.String(),
		"details":    details,
	}).Info("violation recorded")

	if out.Action == ActionTerminate {
		performed, err := p.terminator.Terminate(ctx, target, ReasonTooManyViolations)
		if err != nil {
			p.logger.WithError(err).WithField("session_id", target.SessionID).Error("termination write failed, locking out locally")
		}
		out.Terminated = performed
	}
	return out, nil
}

const (
	firstWarningMessage = "Warning %d of %d: you left the assessment. Stay on this tab or further violations will be recorded."
	finalWarningMessage = "Final warning: one more violation will cancel your assessment."
	TerminationMessage  = "Your assessment has been cancelled due to repeated violations."
	endedMessage        = "Your assessment has ended."
)

// TerminationMessageFor returns what the student is told for a session
// that ended with reason.
func TerminationMessageFor(reason string) string {
	switch reason {
	case ReasonTooManyViolations:
		return TerminationMessage
	case ReasonCancelledByUser:
		return "Your assessment has been cancelled."
	case "":
		return endedMessage
	default:
		return fmt.Sprintf("Your assessment has been cancelled: %s", reason)
	}
}

// completedMessage describes a session another path already completed.
func (p *Policy) completedMessage(ctx context.Context, target Target) string {
	s, err := p.sessions.GetByID(ctx, target.SessionID)
	if err != nil {
		p.logger.WithError(err).WithField("session_id", target.SessionID).Warn("failed to read completed session")
		return endedMessage
	}
	if !s.IsCancelled {
		return endedMessage
	}
	return TerminationMessageFor(s.CancellationReason)
}

func (p *Policy) ladder(count int) Outcome {
	out := Outcome{Count: count, Max: p.maxViolations}
	switch {
	case count >= p.maxViolations:
		out.Action = ActionTerminate
		out.Message = TerminationMessage
	case count == p.maxViolations-1:
		out.Action = ActionFinalWarning
		out.Message = finalWarningMessage
	default:
		out.Action = ActionFirstWarning
		out.Message = fmt.Sprintf(firstWarningMessage, count, p.maxViolations-1)
	}
	return out
}
