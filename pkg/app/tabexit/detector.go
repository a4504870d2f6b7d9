package tabexit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/app/securitylog"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/clock"
	"github.com/sirupsen/logrus"
)

type State int

const (
	Focused State = iota
	Away
)

func (s State) String() string {
	if s == Away {
		return "AWAY"
	}
	return "FOCUSED"
}

// Trigger names the browser signal that moved the tab away or back.
type Trigger string

const (
	TriggerVisibility Trigger = "visibility"
	TriggerBlur       Trigger = "blur"
	TriggerFocus      Trigger = "focus"
)

// Violation is one debounced or continuous away report.
type Violation struct {
	Details    string
	At         time.Time
	Away       time.Duration
	Continuous bool
}

type Config struct {
	Debounce time.Duration
	Interval time.Duration
}

// Detector tracks one tab's blur episodes. A leave arms T1 after the
// debounce; when T1 fires the first violation is reported and T2 re-arms
// every interval until the tab returns. Callbacks from a previous episode
// or a closed detector are dropped.
type Detector struct {
	logger      *logrus.Logger
	events      securitylog.Logger
	clock       clock.Clock
	cfg         Config
	correlation func() []securityevent.Option
	report      func(Violation)

	mu        sync.Mutex
	state     State
	enabled   bool
	closed    bool
	episode   uint64
	startedAt time.Time
	t1        clock.Timer
	t2        clock.Timer
}

func NewDetector(
	logger *logrus.Logger,
	events securitylog.Logger,
	clk clock.Clock,
	cfg Config,
	correlation func() []securityevent.Option,
	report func(Violation),
) *Detector {
	return &Detector{
		logger:      logger,
		events:      events,
		clock:       clk,
		cfg:         cfg,
		correlation: correlation,
		report:      report,
		state:       Focused,
	}
}

func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// AwaySince returns the start of the current episode.
func (d *Detector) AwaySince() (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startedAt, d.state == Away
}

func (d *Detector) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled && !d.closed
}

// SetEnabled turns detection on or off. Disabling abandons the current
// episode without reporting a return.
func (d *Detector) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.enabled == enabled {
		return
	}
	d.enabled = enabled
	if !enabled {
		d.resetLocked()
	}
}

// Leave moves the tab to AWAY. It is a no-op when already away.
func (d *Detector) Leave(trigger Trigger) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || !d.enabled || d.state == Away {
		return false
	}
	d.state = Away
	d.startedAt = d.clock.Now()
	d.episode++
	episode := d.episode
	d.t1 = d.clock.AfterFunc(d.cfg.Debounce, func() { d.fireFirst(episode) })

	d.logger.WithFields(logrus.Fields{
		"trigger": trigger,
		"episode": episode,
	}).Debug("tab left")
	return true
}

// Return moves the tab back to FOCUSED and reports how long it was away.
// A WINDOW_FOCUS event is logged when the episode lasted at least the
// debounce.
func (d *Detector) Return(ctx context.Context, trigger Trigger) (time.Duration, bool) {
	d.mu.Lock()
	if d.closed || d.state != Away {
		d.mu.Unlock()
		return 0, false
	}
	away := d.clock.Now().Sub(d.startedAt)
	at := d.clock.Now()
	d.resetLocked()
	d.mu.Unlock()

	d.logger.WithFields(logrus.Fields{
		"trigger": trigger,
		"away":    away.String(),
	}).Debug("tab returned")

	if away >= d.cfg.Debounce {
		d.log(ctx, securityevent.KindWindowFocus, at,
			fmt.Sprintf("Returned to the assessment after %d seconds away", int(away.Round(time.Second)/time.Second)))
	}
	return away, true
}

// Close stops every armed timer. The detector cannot be reused.
func (d *Detector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.resetLocked()
}

func (d *Detector) resetLocked() {
	if d.t1 != nil {
		d.t1.Stop()
		d.t1 = nil
	}
	if d.t2 != nil {
		d.t2.Stop()
		d.t2 = nil
	}
	d.state = Focused
	d.startedAt = time.Time{}
	d.episode++
}

func (d *Detector) live(episode uint64) bool {
	return !d.closed && d.state == Away && d.episode == episode
}

func (d *Detector) fireFirst(episode uint64) {
	d.mu.Lock()
	if !d.live(episode) {
		d.mu.Unlock()
		return
	}
	d.t1 = nil
	d.t2 = d.clock.AfterFunc(d.cfg.Interval, func() { d.tick(episode) })
	now := d.clock.Now()
	away := now.Sub(d.startedAt)
	d.mu.Unlock()

	v := Violation{
		Details: fmt.Sprintf("Left the assessment for %d+ seconds", int(d.cfg.Debounce/time.Second)),
		At:      now,
		Away:    away,
	}
	d.emit(v)
}

func (d *Detector) tick(episode uint64) {
	d.mu.Lock()
	if !d.live(episode) {
		d.mu.Unlock()
		return
	}
	d.t2 = d.clock.AfterFunc(d.cfg.Interval, func() { d.tick(episode) })
	now := d.clock.Now()
	away := now.Sub(d.startedAt)
	d.mu.Unlock()

	v := Violation{
		Details:    fmt.Sprintf("Still away from the assessment after %d seconds", int(away/time.Second)),
		At:         now,
		Away:       away,
		Continuous: true,
	}
	d.emit(v)
}

func (d *Detector) emit(v Violation) {
	d.log(context.Background(), securityevent.KindWindowBlur, v.At, v.Details)
	if d.report != nil {
		d.report(v)
	}
}

func (d *Detector) log(ctx context.Context, kind securityevent.Kind, at time.Time, details string) {
	var opts []securityevent.Option
	if d.correlation != nil {
		opts = d.correlation()
	}
	if err := d.events.Log(ctx, securityevent.New(kind, details, at, opts...)); err != nil {
		d.logger.WithError(err).WithField("kind", kind).Warn("failed to log security event")
	}
}
