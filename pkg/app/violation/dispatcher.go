package violation

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

const dispatcherBuffer = 16

// Dispatcher is the single path from a monitor's detectors to the policy.
// Submissions are recorded one at a time in arrival order; after a
// terminal outcome the remaining queue is discarded.
type Dispatcher struct {
	logger    *logrus.Logger
	recorder  Recorder
	target    Target
	onOutcome func(Outcome)

	requests chan string
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewDispatcher(
	logger *logrus.Logger,
	recorder Recorder,
	target Target,
	onOutcome func(Outcome),
) *Dispatcher {
	return &Dispatcher{
		logger:    logger,
		recorder:  recorder,
		target:    target,
		onOutcome: onOutcome,
		requests:  make(chan string, dispatcherBuffer),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

// Submit queues one violation. It blocks while the queue is full and
// returns false once the dispatcher is closed.
func (d *Dispatcher) Submit(details string) bool {
	select {
	case <-d.stop:
		return false
	default:
	}
	select {
	case d.requests <- details:
		return true
	case <-d.stop:
		return false
	}
}

// Close stops the drain loop after the violation in flight. It is safe to
// call from onOutcome.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.stop) })
}

// Done is closed when the drain loop has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-d.stop:
			return
		case <-ctx.Done():
			return
		case details := <-d.requests:
			select {
			case <-d.stop:
				return
			default:
			}
			out, err := d.recorder.RecordViolation(ctx, d.target, details)
			if err != nil {
				d.logger.WithError(err).WithField("session_id", d.target.SessionID).Warn("violation not acknowledged")
				continue
			}
			if d.onOutcome != nil {
				d.onOutcome(out)
			}
			if out.Action == ActionTerminate {
				d.Close()
				return
			}
		}
	}
}
