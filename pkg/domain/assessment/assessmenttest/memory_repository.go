package assessmenttest

import (
	"context"
	"sync"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/domain"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/google/uuid"
)

// MemoryRepository is a mutex-guarded assessment.Repository with the same
// atomicity as the SQL implementation.
type MemoryRepository struct {
	mu             sync.Mutex
	sessions       map[uuid.UUID]*assessment.Session
	terminateCalls int
}

func NewMemoryRepository(sessions ...*assessment.Session) *MemoryRepository {
	r := &MemoryRepository{sessions: make(map[uuid.UUID]*assessment.Session)}
	for _, s := range sessions {
		cp := *s
		r.sessions[s.ID] = &cp
	}
	return r
}

func (r *MemoryRepository) Create(_ context.Context, session *assessment.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*assessment.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.NewNotFoundError("assessment session", id)
	}
	cp := *s
	return &cp, nil
}

func (r *MemoryRepository) GetWarningCount(ctx context.Context, id uuid.UUID) (int, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.WarningCount, nil
}

func (r *MemoryRepository) IncrementWarningCount(_ context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return 0, domain.NewNotFoundError("assessment session", id)
	}
	if s.IsCompleted {
		return s.WarningCount, domain.ErrSessionTerminated
	}
	s.WarningCount++
	return s.WarningCount, nil
}

func (r *MemoryRepository) Terminate(_ context.Context, id uuid.UUID, reason string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terminateCalls++
	s, ok := r.sessions[id]
	if !ok || s.IsCompleted {
		return false, nil
	}
	score := 0
	s.IsCompleted = true
	s.IsCancelled = true
	s.CancellationReason = reason
	s.Score = &score
	s.CompletedAt = &at
	s.UpdatedAt = at
	return true, nil
}

func (r *MemoryRepository) TerminateCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.terminateCalls
}
