package tabexit

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/app/securitylog/securitylogtest"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/clock/clocktest"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type harness struct {
	clock      *clocktest.FakeClock
	events     *securitylogtest.Recorder
	detector   *Detector
	mu         sync.Mutex
	violations []Violation
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := &harness{
		clock:  clocktest.NewFakeClock(t0),
		events: &securitylogtest.Recorder{},
	}
	h.detector = NewDetector(logger, h.events, h.clock, Config{Debounce: 5 * time.Second, Interval: 5 * time.Second}, nil, func(v Violation) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.violations = append(h.violations, v)
	})
	h.detector.SetEnabled(true)
	return h
}

func (h *harness) reported() []Violation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Violation(nil), h.violations...)
}

func TestDetector_ShortAbsenceIsIgnored(t *testing.T) {
	h := newHarness(t)

	require.True(t, h.detector.Leave(TriggerVisibility))
	h.clock.Advance(4900 * time.Millisecond)
	away, ok := h.detector.Return(context.Background(), TriggerVisibility)

	assert.True(t, ok)
	assert.Equal(t, 4900*time.Millisecond, away)
	h.clock.Advance(time.Minute)
	assert.Empty(t, h.reported())
	assert.Empty(t, h.events.Events())
	assert.Zero(t, h.clock.Pending())
}

func TestDetector_AwayTwelveSeconds(t *testing.T) {
	h := newHarness(t)

	h.detector.Leave(TriggerVisibility)
	h.clock.Advance(12 * time.Second)
	_, ok := h.detector.Return(context.Background(), TriggerFocus)
	require.True(t, ok)
	h.clock.Advance(time.Minute)

	violations := h.reported()
	require.Len(t, violations, 2)
	assert.Equal(t, t0.Add(5*time.Second), violations[0].At)
	assert.False(t, violations[0].Continuous)
	assert.Equal(t, t0.Add(10*time.Second), violations[1].At)
	assert.True(t, violations[1].Continuous)

	assert.Len(t, h.events.OfKind(securityevent.KindWindowBlur), 2)
	focus := h.events.OfKind(securityevent.KindWindowFocus)
	require.Len(t, focus, 1)
	assert.Contains(t, focus[0].Details, "12 seconds away")
	assert.Equal(t, t0.Add(12*time.Second), focus[0].OccurredAt)
}

func TestDetector_ContinuousTicksWhileAway(t *testing.T) {
	h := newHarness(t)

	h.detector.Leave(TriggerBlur)
	h.clock.Advance(5 * time.Second)
	assert.Len(t, h.reported(), 1)
	h.clock.Advance(5 * time.Second)
	assert.Len(t, h.reported(), 2)
	h.clock.Advance(10 * time.Second)
	assert.Len(t, h.reported(), 4)
	assert.Equal(t, Away, h.detector.State())
}

func TestDetector_SecondTriggerWhileAwayIsNoop(t *testing.T) {
	h := newHarness(t)

	assert.True(t, h.detector.Leave(TriggerVisibility))
	h.clock.Advance(3 * time.Second)
	assert.False(t, h.detector.Leave(TriggerBlur))
	h.clock.Advance(2 * time.Second)

	require.Len(t, h.reported(), 1, "debounce counts from the first trigger")
	since, away := h.detector.AwaySince()
	assert.True(t, away)
	assert.Equal(t, t0, since)
}

func TestDetector_ReturnWhenFocusedIsNoop(t *testing.T) {
	h := newHarness(t)

	_, ok := h.detector.Return(context.Background(), TriggerFocus)

	assert.False(t, ok)
	assert.Empty(t, h.events.Events())
}

func TestDetector_CloseCancelsTimers(t *testing.T) {
	h := newHarness(t)

	h.detector.Leave(TriggerVisibility)
	h.clock.Advance(6 * time.Second)
	h.detector.Close()
	h.detector.Close()
	h.clock.Advance(time.Minute)

	assert.Len(t, h.reported(), 1)
	assert.Zero(t, h.clock.Pending())
	assert.False(t, h.detector.Leave(TriggerBlur))
	assert.False(t, h.detector.Enabled())
}

func TestDetector_DisableAbandonsEpisode(t *testing.T) {
	h := newHarness(t)

	h.detector.Leave(TriggerVisibility)
	h.clock.Advance(2 * time.Second)
	h.detector.SetEnabled(false)
	h.clock.Advance(time.Minute)

	assert.Empty(t, h.reported())
	assert.Equal(t, Focused, h.detector.State())
	assert.False(t, h.detector.Leave(TriggerVisibility))

	h.detector.SetEnabled(true)
	assert.True(t, h.detector.Leave(TriggerVisibility))
}

func TestDetector_StaleTimerFromEarlierEpisodeIsDropped(t *testing.T) {
	h := newHarness(t)

	h.detector.Leave(TriggerVisibility)
	h.clock.Advance(4 * time.Second)
	h.detector.Return(context.Background(), TriggerVisibility)
	h.clock.Advance(500 * time.Millisecond)
	h.detector.Leave(TriggerVisibility)

	h.clock.Advance(4 * time.Second)
	assert.Empty(t, h.reported(), "first episode's T1 must not fire into the second")

	h.clock.Advance(time.Second)
	require.Len(t, h.reported(), 1)
	assert.Equal(t, t0.Add(9500*time.Millisecond), h.reported()[0].At)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "FOCUSED", Focused.String())
	assert.Equal(t, "AWAY", Away.String())
}
