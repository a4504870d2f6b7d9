package securitylog

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/domain"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type countingSink struct {
	name  string
	err   error
	mu    sync.Mutex
	calls int
}

func (s *countingSink) Name() string { return s.name }

func (s *countingSink) Write(context.Context, *securityevent.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *countingSink) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestService_DeliversToRepository(t *testing.T) {
	repo := mocks.NewRepository(t)
	evt := securityevent.New(securityevent.KindCopyAttempt, "Ctrl+C blocked", time.Now())
	repo.On("Save", mock.Anything, evt).Return(nil).Once()

	svc := NewService(quietLogger(), Config{QueueSize: 10}, NewRepositorySink(repo))
	svc.StartWorkers(1)

	require.NoError(t, svc.Log(context.Background(), evt))
	svc.Shutdown()
}

func TestService_RejectsInvalidEvents(t *testing.T) {
	svc := NewService(quietLogger(), Config{QueueSize: 10})

	err := svc.Log(context.Background(), &securityevent.Event{Kind: "NOPE", OccurredAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)

	err = svc.Log(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)
}

func TestService_QueueFullDropsWithoutBlocking(t *testing.T) {
	svc := NewService(quietLogger(), Config{QueueSize: 1})
	evt := securityevent.New(securityevent.KindPasteAttempt, "", time.Now())

	require.NoError(t, svc.Log(context.Background(), evt))
	assert.ErrorIs(t, svc.Log(context.Background(), evt), ErrQueueFull)
}

func TestService_LogAfterShutdown(t *testing.T) {
	svc := NewService(quietLogger(), Config{QueueSize: 1})
	svc.StartWorkers(1)
	svc.Shutdown()
	svc.Shutdown()

	err := svc.Log(context.Background(), securityevent.New(securityevent.KindCutAttempt, "", time.Now()))

	assert.ErrorIs(t, err, ErrClosed)
}

func TestService_FailingSinkDoesNotStopOthers(t *testing.T) {
	failing := &countingSink{name: "kafka", err: errors.New("broker down")}
	healthy := &countingSink{name: "postgres"}
	svc := NewService(quietLogger(), Config{QueueSize: 10, BreakerTimeout: time.Minute, BreakerMaxFailures: 2}, failing, healthy)
	svc.StartWorkers(1)

	for i := 0; i < 4; i++ {
		require.NoError(t, svc.Log(context.Background(), securityevent.New(securityevent.KindWindowBlur, "", time.Now())))
	}
	svc.Shutdown()

	assert.Equal(t, 4, healthy.Calls())
	assert.Equal(t, 2, failing.Calls(), "breaker opens after two consecutive failures")
}

func TestRepositorySink_Name(t *testing.T) {
	repo := mocks.NewRepository(t)
	assert.Equal(t, "postgres", NewRepositorySink(repo).Name())
}
