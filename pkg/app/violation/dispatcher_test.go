package violation_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/app/violation"
	"github.com/NeuralTrust/ExamWatch/pkg/app/violation/mocks"
	"github.com/google/uuid"
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

type outcomeLog struct {
	mu   sync.Mutex
	outs []violation.Outcome
}

func (l *outcomeLog) add(o violation.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outs = append(l.outs, o)
}

func (l *outcomeLog) all() []violation.Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]violation.Outcome(nil), l.outs...)
}

func TestDispatcher_RecordsInOrder(t *testing.T) {
	recorder := mocks.NewRecorder(t)
	target := violation.Target{SessionID: uuid.New()}
	var order []string
	recorder.On("RecordViolation", mock.Anything, target, mock.Anything).
		Run(func(args mock.Arguments) { order = append(order, args.String(2)) }).
		Return(violation.Outcome{Action: violation.ActionFirstWarning}, nil).Times(3)

	outcomes := &outcomeLog{}
	d := violation.NewDispatcher(quietLogger(), recorder, target, outcomes.add)
	d.Start(context.Background())

	require.True(t, d.Submit("a"))
	require.True(t, d.Submit("b"))
	require.True(t, d.Submit("c"))

	assert.Eventually(t, func() bool { return len(outcomes.all()) == 3 }, time.Second, 5*time.Millisecond)
	d.Close()
	<-d.Done()
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.False(t, d.Submit("d"))
}

func TestDispatcher_StopsAfterTermination(t *testing.T) {
	recorder := mocks.NewRecorder(t)
	target := violation.Target{SessionID: uuid.New()}
	recorder.On("RecordViolation", mock.Anything, target, "first").
		Return(violation.Outcome{Count: 3, Action: violation.ActionTerminate, Terminated: true}, nil).Once()

	outcomes := &outcomeLog{}
	block := make(chan struct{})
	d := violation.NewDispatcher(quietLogger(), recorder, target, func(o violation.Outcome) {
		<-block
		outcomes.add(o)
	})
	d.Start(context.Background())

	require.True(t, d.Submit("first"))
	d.Submit("second")
	close(block)
	<-d.Done()

	require.Len(t, outcomes.all(), 1)
	assert.True(t, outcomes.all()[0].Terminated)
}

func TestDispatcher_UnacknowledgedViolationIsNotReported(t *testing.T) {
	recorder := mocks.NewRecorder(t)
	target := violation.Target{SessionID: uuid.New()}
	recorder.On("RecordViolation", mock.Anything, target, "lost").Return(violation.Outcome{}, errors.New("timeout")).Once()
	recorder.On("RecordViolation", mock.Anything, target, "kept").Return(violation.Outcome{Count: 1, Action: violation.ActionFirstWarning}, nil).Once()

	outcomes := &outcomeLog{}
	d := violation.NewDispatcher(quietLogger(), recorder, target, outcomes.add)
	d.Start(context.Background())
	d.Submit("lost")
	d.Submit("kept")

	assert.Eventually(t, func() bool { return len(outcomes.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, outcomes.all()[0].Count)
	d.Close()
}

func TestDispatcher_ContextCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := violation.NewDispatcher(quietLogger(), mocks.NewRecorder(t), violation.Target{}, nil)
	d.Start(ctx)
	cancel()

	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
