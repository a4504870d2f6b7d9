package request

import (
	"fmt"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	AssessmentID string `json:"assessment_id"` // @required
	UserID       string `json:"user_id"`
	// Filled from the request headers, not the body.
	UserAgent      string `json:"-"`
	AcceptLanguage string `json:"-"`
}

func (r *StartSessionRequest) Validate() error {
	if r.AssessmentID == "" {
		return fmt.Errorf("assessment_id is required")
	}
	if _, err := uuid.Parse(r.AssessmentID); err != nil {
		return fmt.Errorf("invalid assessment_id: %w", err)
	}
	if r.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	return nil
}
