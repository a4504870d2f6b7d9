package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/app/securitylog/securitylogtest"
	"github.com/NeuralTrust/ExamWatch/pkg/app/violation"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment/assessmenttest"
	assessmentmocks "github.com/NeuralTrust/ExamWatch/pkg/domain/assessment/mocks"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/handlers/http/request"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/clock/clocktest"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestStarter_Start(t *testing.T) {
	repo := assessmenttest.NewMemoryRepository()
	events := &securitylogtest.Recorder{}
	s := NewStarter(quietLogger(), repo, events, clocktest.NewFakeClock(t0))

	assessmentID := uuid.New()
	session, err := s.Start(context.Background(), &request.StartSessionRequest{
		AssessmentID:   assessmentID.String(),
		UserID:         "student-1",
		UserAgent:      chromeUA,
		AcceptLanguage: "en-GB,en;q=0.9",
	})
	require.NoError(t, err)
	assert.Equal(t, assessmentID, session.AssessmentID)
	assert.Equal(t, t0, session.StartedAt)
	assert.True(t, session.InProgress())

	stored, err := repo.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.WarningCount)

	started := events.OfKind(securityevent.KindAssessmentStarted)
	require.Len(t, started, 1)
	assert.Contains(t, started[0].Details, "Chrome")
	assert.Contains(t, started[0].Details, "locale en-GB")
	require.NotNil(t, started[0].SessionID)
	assert.Equal(t, session.ID, *started[0].SessionID)
}

func TestStarter_Start_CreateFails(t *testing.T) {
	repo := assessmentmocks.NewRepository(t)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
	events := &securitylogtest.Recorder{}
	s := NewStarter(quietLogger(), repo, events, clocktest.NewFakeClock(t0))

	_, err := s.Start(context.Background(), &request.StartSessionRequest{AssessmentID: uuid.NewString(), UserID: "u"})
	assert.Error(t, err)
	assert.Empty(t, events.Events())
}

func newCanceller(repo assessment.Repository, events *securitylogtest.Recorder) Canceller {
	terminator := violation.NewTerminator(quietLogger(), repo, events, nil, clocktest.NewFakeClock(t0))
	return NewCanceller(quietLogger(), repo, terminator)
}

func TestCanceller_Cancel(t *testing.T) {
	session := assessment.NewSession(uuid.New(), "student-1", t0)
	repo := assessmenttest.NewMemoryRepository(session)
	events := &securitylogtest.Recorder{}
	c := newCanceller(repo, events)

	performed, err := c.Cancel(context.Background(), session.ID, "student-1")
	require.NoError(t, err)
	assert.True(t, performed)

	again, err := c.Cancel(context.Background(), session.ID, "student-1")
	require.NoError(t, err)
	assert.False(t, again)

	cancelled := events.OfKind(securityevent.KindAssessmentCancelled)
	require.Len(t, cancelled, 1)
	assert.Equal(t, violation.ReasonCancelledByUser, cancelled[0].Details)
}

func TestCanceller_Cancel_OtherUser(t *testing.T) {
	session := assessment.NewSession(uuid.New(), "student-1", t0)
	repo := assessmenttest.NewMemoryRepository(session)
	c := newCanceller(repo, &securitylogtest.Recorder{})

	_, err := c.Cancel(context.Background(), session.ID, "student-2")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCanceller_Cancel_Anonymous(t *testing.T) {
	session := assessment.NewSession(uuid.New(), "student-1", t0)
	repo := assessmenttest.NewMemoryRepository(session)
	c := newCanceller(repo, &securitylogtest.Recorder{})

	performed, err := c.Cancel(context.Background(), session.ID, "")
	assert.ErrorIs(t, err, ErrAnonymous)
	assert.False(t, performed)

	stored, err := repo.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.True(t, stored.InProgress())
}
