package repository

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type securityEventRepository struct {
	db *gorm.DB
}

func NewSecurityEventRepository(db *gorm.DB) securityevent.Repository {
	return &securityEventRepository{
		db: db,
	}
}

func (r *securityEventRepository) Save(ctx context.Context, event *securityevent.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to save security event: %w", err)
	}
	return nil
}

func (r *securityEventRepository) ListBySession(
	ctx context.Context,
	sessionID uuid.UUID,
	kinds ...securityevent.Kind,
) ([]*securityevent.Event, error) {
	query := r.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if len(kinds) > 0 {
		names := make([]string, 0, len(kinds))
		for _, k := range kinds {
			names = append(names, k.String())
		}
		query = query.Where("kind = ANY(?)", pq.Array(names))
	}

	var events []*securityevent.Event
	if err := query.Order("occurred_at ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list security events: %w", err)
	}
	return events, nil
}
