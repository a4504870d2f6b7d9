package assessment

import (
	"time"

	"github.com/google/uuid"
)

// Session is the record of one attempt at an assessment. WarningCount is
// only ever changed through Repository.IncrementWarningCount; once
// IsCompleted is set the record is terminal.
type Session struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	AssessmentID       uuid.UUID  `json:"assessment_id" gorm:"type:uuid;not null;index"`
	UserID             string     `json:"user_id" gorm:"type:text;not null"`
	WarningCount       int        `json:"warning_count" gorm:"not null;default:0"`
	IsCompleted        bool       `json:"is_completed" gorm:"not null;default:false"`
	IsCancelled        bool       `json:"is_cancelled" gorm:"not null;default:false"`
	CancellationReason string     `json:"cancellation_reason,omitempty" gorm:"type:text"`
	Score              *int       `json:"score,omitempty"`
	StartedAt          time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (s *Session) TableName() string {
	return "assessment_sessions"
}

func NewSession(assessmentID uuid.UUID, userID string, startedAt time.Time) *Session {
	return &Session{
		ID:           uuid.New(),
		AssessmentID: assessmentID,
		UserID:       userID,
		StartedAt:    startedAt,
	}
}

// InProgress reports whether violations can still be recorded.
func (s *Session) InProgress() bool {
	return !s.IsCompleted
}
