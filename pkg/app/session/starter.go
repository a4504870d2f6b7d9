package session

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/ExamWatch/pkg/app/securitylog"
	"github.com/NeuralTrust/ExamWatch/pkg/app/violation"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/handlers/http/request"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/clock"
	"github.com/NeuralTrust/ExamWatch/pkg/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Starter --dir=. --output=./mocks --filename=session_starter_mock.go --case=underscore
type Starter interface {
	Start(ctx context.Context, req *request.StartSessionRequest) (*assessment.Session, error)
}

type starter struct {
	logger   *logrus.Logger
	sessions assessment.Repository
	events   securitylog.Logger
	clock    clock.Clock
}

func NewStarter(
	logger *logrus.Logger,
	sessions assessment.Repository,
	events securitylog.Logger,
	clk clock.Clock,
) Starter {
	return &starter{
		logger:   logger,
		sessions: sessions,
		events:   events,
		clock:    clk,
	}
}

// Start creates a fresh session and logs ASSESSMENT_STARTED with the
// client the student started it from.
func (s *starter) Start(ctx context.Context, req *request.StartSessionRequest) (*assessment.Session, error) {
	assessmentID, err := uuid.Parse(req.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse assessment id: %w", err)
	}

	now := s.clock.Now()
	session := assessment.NewSession(assessmentID, req.UserID, now)
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.WithError(err).Error("failed to create assessment session")
		return nil, fmt.Errorf("failed to create assessment session: %w", err)
	}

	client := utils.ParseUserAgent(req.UserAgent, req.AcceptLanguage)
	details := fmt.Sprintf("Assessment started from %s", client.String())
	evt := securityevent.New(securityevent.KindAssessmentStarted, details, now, violation.TargetFor(session).EventOptions()...)
	if err := s.events.Log(ctx, evt); err != nil {
		s.logger.WithError(err).Warn("failed to log assessment start")
	}

	s.logger.WithFields(logrus.Fields{
		"session_id":    session.ID,
		"assessment_id": assessmentID,
		"user_id":       req.UserID,
	}).Info("assessment session started")
	return session, nil
}
