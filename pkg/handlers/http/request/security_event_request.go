package request

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/google/uuid"
)

// SecurityEventRequest is an event reported by the browser shim outside of
// the websocket, e.g. when the socket is not yet connected.
type SecurityEventRequest struct {
	Kind         string     `json:"kind"` // @required
	Details      string     `json:"details"`
	OccurredAt   *time.Time `json:"occurred_at,omitempty"`
	AssessmentID string     `json:"assessment_id,omitempty"`
	SessionID    string     `json:"session_id,omitempty"`
}

func (r *SecurityEventRequest) Validate() error {
	if !securityevent.Kind(r.Kind).Valid() {
		return fmt.Errorf("unknown kind %q", r.Kind)
	}
	if len(r.Details) > maxDetailsLength {
		return fmt.Errorf("details must be at most %d bytes", maxDetailsLength)
	}
	if r.AssessmentID != "" {
		if _, err := uuid.Parse(r.AssessmentID); err != nil {
			return fmt.Errorf("invalid assessment_id: %w", err)
		}
	}
	if r.SessionID != "" {
		if _, err := uuid.Parse(r.SessionID); err != nil {
			return fmt.Errorf("invalid session_id: %w", err)
		}
	}
	return nil
}

// ToEvent builds the event, stamping now when the client sent no time.
func (r *SecurityEventRequest) ToEvent(now time.Time, userID string) *securityevent.Event {
	at := now
	if r.OccurredAt != nil && !r.OccurredAt.IsZero() {
		at = *r.OccurredAt
	}
	var opts []securityevent.Option
	if r.AssessmentID != "" {
		id := uuid.MustParse(r.AssessmentID)
		opts = append(opts, securityevent.WithAssessment(&id))
	}
	if r.SessionID != "" {
		id := uuid.MustParse(r.SessionID)
		opts = append(opts, securityevent.WithSession(&id))
	}
	if userID != "" {
		opts = append(opts, securityevent.WithUser(userID))
	}
	return securityevent.New(securityevent.Kind(r.Kind), r.Details, at, opts...)
}
