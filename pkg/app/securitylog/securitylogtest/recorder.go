package securitylogtest

import (
	"context"
	"sync"

	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
)

// Recorder is an in-memory securitylog.Logger for tests.
type Recorder struct {
	mu     sync.Mutex
	events []*securityevent.Event
	Err    error
}

func (r *Recorder) Log(_ context.Context, evt *securityevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return r.Err
}

func (r *Recorder) Events() []*securityevent.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*securityevent.Event(nil), r.events...)
}

func (r *Recorder) OfKind(kind securityevent.Kind) []*securityevent.Event {
	var out []*securityevent.Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
