package subscriber

import (
	"context"

	infraCache "github.com/NeuralTrust/ExamWatch/pkg/infra/cache"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type RoleForgetter interface {
	Forget(userID string) int
}

type RoleInvalidatedEventSubscriber struct {
	logger *logrus.Logger
	roles  RoleForgetter
}

func NewRoleInvalidatedEventSubscriber(
	logger *logrus.Logger,
	roles RoleForgetter,
) infraCache.EventSubscriber[event.RoleInvalidatedEvent] {
	return &RoleInvalidatedEventSubscriber{
		logger: logger,
		roles:  roles,
	}
}

func (s RoleInvalidatedEventSubscriber) OnEvent(_ context.Context, evt event.RoleInvalidatedEvent) error {
	s.logger.WithFields(logrus.Fields{
		"user_id": evt.UserID,
	}).Debug("invalidating role cache")

	s.roles.Forget(evt.UserID)
	return nil
}
