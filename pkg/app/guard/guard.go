package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/app/securitylog"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/clock"
	"github.com/sirupsen/logrus"
)

// Notifier shows a user-facing warning in the monitored tab.
type Notifier interface {
	Warn(message string)
}

// Correlation supplies the identifiers attached to every emitted event.
type Correlation func() []securityevent.Option

// Decision tells the browser what to do with the intercepted event.
type Decision struct {
	Prevent  bool               `json:"prevent"`
	Kind     securityevent.Kind `json:"kind,omitempty"`
	Notified bool               `json:"notified"`
}

type base struct {
	logger      *logrus.Logger
	events      securitylog.Logger
	notifier    Notifier
	clock       clock.Clock
	correlation Correlation
	active      atomic.Bool
}

func (b *base) SetActive(active bool) {
	b.active.Store(active)
}

func (b *base) Active() bool {
	return b.active.Load()
}

func (b *base) emit(ctx context.Context, kind securityevent.Kind, details, warning string) {
	var opts []securityevent.Option
	if b.correlation != nil {
		opts = b.correlation()
	}
	evt := securityevent.New(kind, details, b.clock.Now(), opts...)
	if err := b.events.Log(ctx, evt); err != nil {
		b.logger.WithError(err).WithField("kind", kind).Warn("failed to log security event")
	}
	if warning != "" {
		b.notifier.Warn(warning)
	}
}

type KeyboardGuard struct {
	base
}

func NewKeyboardGuard(
	logger *logrus.Logger,
	events securitylog.Logger,
	notifier Notifier,
	clk clock.Clock,
	correlation Correlation,
) *KeyboardGuard {
	return &KeyboardGuard{base: base{
		logger:      logger,
		events:      events,
		notifier:    notifier,
		clock:       clk,
		correlation: correlation,
	}}
}

// HandleKeyDown classifies k. Every match is prevented, logged and
// warned about; there is no rate limiting.
func (g *KeyboardGuard) HandleKeyDown(ctx context.Context, k KeyStroke) Decision {
	if !g.Active() {
		return Decision{}
	}
	m, ok := Classify(k)
	if !ok {
		return Decision{}
	}
	g.emit(ctx, m.Kind, m.Details(), m.Warning)
	return Decision{Prevent: true, Kind: m.Kind, Notified: true}
}

const contextMenuWarning = "Right-click is disabled during the assessment."

type PointerGuard struct {
	base
	cooldown     time.Duration
	mu           sync.Mutex
	lastNotified time.Time
}

func NewPointerGuard(
	logger *logrus.Logger,
	events securitylog.Logger,
	notifier Notifier,
	clk clock.Clock,
	correlation Correlation,
	cooldown time.Duration,
) *PointerGuard {
	return &PointerGuard{
		base: base{
			logger:      logger,
			events:      events,
			notifier:    notifier,
			clock:       clk,
			correlation: correlation,
		},
		cooldown: cooldown,
	}
}

// HandleContextMenu always prevents the menu while active; the event and
// warning are emitted at most once per cool-down window.
func (g *PointerGuard) HandleContextMenu(ctx context.Context) Decision {
	if !g.Active() {
		return Decision{}
	}
	d := Decision{Prevent: true, Kind: securityevent.KindContextMenuAttempt}

	now := g.clock.Now()
	g.mu.Lock()
	notify := g.lastNotified.IsZero() || now.Sub(g.lastNotified) >= g.cooldown
	if notify {
		g.lastNotified = now
	}
	g.mu.Unlock()

	if notify {
		g.emit(ctx, securityevent.KindContextMenuAttempt, "Right-click context menu blocked", contextMenuWarning)
		d.Notified = true
	}
	return d
}
