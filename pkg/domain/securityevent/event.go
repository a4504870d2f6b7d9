package securityevent

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/domain"
	"github.com/google/uuid"
)

// Event is one detected incident. It is created at the moment the browser
// signal is observed and never mutated afterwards.
type Event struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Kind         Kind       `json:"kind" gorm:"type:text;not null"`
	OccurredAt   time.Time  `json:"occurred_at" gorm:"not null"`
	Details      string     `json:"details" gorm:"type:text"`
	AssessmentID *uuid.UUID `json:"assessment_id,omitempty" gorm:"type:uuid"`
	SessionID    *uuid.UUID `json:"session_id,omitempty" gorm:"type:uuid;index"`
	UserID       string     `json:"user_id,omitempty" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (e *Event) TableName() string {
	return "security_events"
}

type Option func(*Event)

func WithAssessment(id *uuid.UUID) Option {
	return func(e *Event) {
		e.AssessmentID = id
	}
}

func WithSession(id *uuid.UUID) Option {
	return func(e *Event) {
		e.SessionID = id
	}
}

func WithUser(userID string) Option {
	return func(e *Event) {
		e.UserID = userID
	}
}

func New(kind Kind, details string, occurredAt time.Time, opts ...Option) *Event {
	e := &Event{
		ID:         uuid.New(),
		Kind:       kind,
		OccurredAt: occurredAt,
		Details:    details,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// General reports whether the event was raised outside of a session.
func (e *Event) General() bool {
	return e.SessionID == nil
}

func (e *Event) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidEvent, e.Kind)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurred_at is required", domain.ErrInvalidEvent)
	}
	return nil
}
