package securitylog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/domain"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/breaker"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull = errors.New("security log queue is full")
	ErrClosed    = errors.New("security log is closed")
)

const sinkTimeout = 5 * time.Second

// Logger is the fire-and-forget entry point used by detectors. Log never
// blocks on storage; the returned error only reports that the event was
// not accepted.
//
//go:generate mockery --name=Logger --dir=. --output=./mocks --filename=logger_mock.go --case=underscore
type Logger interface {
	Log(ctx context.Context, evt *securityevent.Event) error
}

type Service interface {
	Logger
	StartWorkers(n int)
	Shutdown()
}

type Config struct {
	QueueSize          int
	BreakerTimeout     time.Duration
	BreakerMaxFailures uint32
}

type guardedSink struct {
	sink    Sink
	breaker breaker.CircuitBreaker
}

type service struct {
	logger *logrus.Logger
	sinks  []guardedSink
	queue  chan *securityevent.Event
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewService(logger *logrus.Logger, cfg Config, sinks ...Sink) Service {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	guarded := make([]guardedSink, 0, len(sinks))
	for _, s := range sinks {
		guarded = append(guarded, guardedSink{
			sink:    s,
			breaker: breaker.NewCircuitBreaker("security-log-"+s.Name(), cfg.BreakerTimeout, cfg.BreakerMaxFailures),
		})
	}
	return &service{
		logger: logger,
		sinks:  guarded,
		queue:  make(chan *securityevent.Event, cfg.QueueSize),
	}
}

func (s *service) Log(_ context.Context, evt *securityevent.Event) error {
	if evt == nil {
		return fmt.Errorf("%w: nil event", domain.ErrInvalidEvent)
	}
	if err := evt.Validate(); err != nil {
		prometheus.SecurityEventsDropped.WithLabelValues("invalid").Inc()
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		prometheus.SecurityEventsDropped.WithLabelValues("closed").Inc()
		return ErrClosed
	}
	select {
	case s.queue <- evt:
		prometheus.SecurityEventsTotal.WithLabelValues(evt.Kind.String()).Inc()
		return nil
	default:
		prometheus.SecurityEventsDropped.WithLabelValues("queue_full").Inc()
		s.logger.WithFields(logrus.Fields{
			"kind":       evt.Kind,
			"session_id": evt.SessionID,
		}).Warn("security log queue is full, dropping event")
		return ErrQueueFull
	}
}

func (s *service) StartWorkers(n int) {
	if n <= 0 {
		n = 1
	}
	s.logger.WithField("workers", n).Info("starting security log workers")
	for i := 0; i < n; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for evt := range s.queue {
				s.deliver(evt)
			}
		}()
	}
}

// Shutdown stops accepting events and waits for queued ones to be
// delivered.
func (s *service) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	s.logger.Info("shutting down security log workers")
	s.wg.Wait()
	s.logger.Info("security log workers stopped")
}

func (s *service) deliver(evt *securityevent.Event) {
	for _, gs := range s.sinks {
		err := gs.breaker.Execute(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			defer cancel()
			return gs.sink.Write(ctx, evt)
		})
		if err == nil {
			continue
		}
		prometheus.CollaboratorFailures.WithLabelValues("security_log:" + gs.sink.Name()).Inc()
		entry := s.logger.WithFields(logrus.Fields{
			"sink":       gs.sink.Name(),
			"kind":       evt.Kind,
			"event_id":   evt.ID,
			"session_id": evt.SessionID,
		}).WithError(err)
		if breaker.IsOpen(err) {
			entry.Warn("security log sink unavailable, event not delivered")
			continue
		}
		entry.Error("failed to persist security event")
	}
}
