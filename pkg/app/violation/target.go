package violation

import (
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/google/uuid"
)

// Target identifies the session a violation is charged to.
type Target struct {
	SessionID    uuid.UUID
	AssessmentID *uuid.UUID
	UserID       string
}

func (t Target) EventOptions() []securityevent.Option {
	sessionID := t.SessionID
	opts := []securityevent.Option{
		securityevent.WithSession(&sessionID),
		securityevent.WithAssessment(t.AssessmentID),
	}
	if t.UserID != "" {
		opts = append(opts, securityevent.WithUser(t.UserID))
	}
	return opts
}

func TargetFor(s *assessment.Session) Target {
	assessmentID := s.AssessmentID
	return Target{SessionID: s.ID, AssessmentID: &assessmentID, UserID: s.UserID}
}
