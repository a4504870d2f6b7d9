package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/domain"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) assessment.Repository {
	return &sessionRepository{
		db: db,
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *assessment.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*assessment.Session, error) {
	entity := new(assessment.Session)
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("assessment session", id)
		}
		return nil, fmt.Errorf("failed to get assessment session: %w", err)
	}
	return entity, nil
}

func (r *sessionRepository) GetWarningCount(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	res := r.db.WithContext(ctx).
		Model(&assessment.Session{}).
		Select("warning_count").
		Where("id = ?", id).
		Scan(&count)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to read warning count: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, domain.NewNotFoundError("assessment session", id)
	}
	return count, nil
}

func (r *sessionRepository) IncrementWarningCount(ctx context.Context, id uuid.UUID) (int, error) {
	var counts []int
	err := r.db.WithContext(ctx).Raw(`
		UPDATE assessment_sessions
		SET warning_count = warning_count + 1, updated_at = NOW()
		WHERE id = ? AND is_completed = FALSE
		RETURNING warning_count`, id).Scan(&counts).Error
	if err != nil {
		return 0, fmt.Errorf("failed to increment warning count: %w", err)
	}
	if len(counts) == 1 {
		return counts[0], nil
	}

	session, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if session.IsCompleted {
		return session.WarningCount, domain.ErrSessionTerminated
	}
	return 0, fmt.Errorf("failed to increment warning count for session %s", id)
}

func (r *sessionRepository) Terminate(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&assessment.Session{}).
		Where("id = ? AND is_completed = FALSE", id).
		Updates(map[string]interface{}{
			"is_completed":        true,
			"is_cancelled":        true,
			"cancellation_reason": reason,
			"score":               0,
			"completed_at":        at,
			"updated_at":          at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to terminate assessment session: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
