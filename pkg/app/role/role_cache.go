package role

import (
	"context"
	"fmt"
	"sync"

	"github.com/NeuralTrust/ExamWatch/pkg/domain/identity"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/channel"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/event"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// RoleSource is the read-only capability the orchestrator gets.
//
//go:generate mockery --name=RoleSource --dir=. --output=./mocks --filename=role_source_mock.go --case=underscore
type RoleSource interface {
	Lookup(ctx context.Context, token string) (identity.Principal, error)
}

// Invalidator drops cached roles of a user on every instance.
//
//go:generate mockery --name=Invalidator --dir=. --output=./mocks --filename=invalidator_mock.go --case=underscore
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// RoleCache memoises resolved principals per bearer token. Concurrent
// lookups of the same token share one resolver call. Entries are dropped
// on TTL expiry or by Invalidate.
type RoleCache struct {
	logger    *logrus.Logger
	resolver  identity.Resolver
	entries   *cache.TTLMap
	publisher cache.EventPublisher
	group     singleflight.Group

	// mu orders cache writes against Forget. forgotten holds the sequence
	// at which each user was last forgotten while resolves were in flight.
	mu        sync.Mutex
	seq       uint64
	inflight  int
	forgotten map[string]uint64
}

func NewRoleCache(
	logger *logrus.Logger,
	resolver identity.Resolver,
	entries *cache.TTLMap,
	publisher cache.EventPublisher,
) *RoleCache {
	return &RoleCache{
		logger:    logger,
		resolver:  resolver,
		entries:   entries,
		publisher: publisher,
		forgotten: make(map[string]uint64),
	}
}

func (c *RoleCache) Lookup(ctx context.Context, token string) (identity.Principal, error) {
	if token == "" {
		return identity.Principal{}, fmt.Errorf("empty token")
	}
	if v, ok := c.entries.Get(token); ok {
		if p, ok := v.(identity.Principal); ok {
			return p, nil
		}
	}

	v, err, _ := c.group.Do(token, func() (interface{}, error) {
		start := c.begin()
		defer c.end()
		p, err := c.resolver.Resolve(ctx, token)
		if err != nil {
			return nil, err
		}
		c.store(token, p, start)
		return p, nil
	})
	if err != nil {
		prometheus.CollaboratorFailures.WithLabelValues("resolve_role").Inc()
		return identity.Principal{}, err
	}
	p, ok := v.(identity.Principal)
	if !ok {
		return identity.Principal{}, fmt.Errorf("unexpected principal type %T", v)
	}
	return p, nil
}

func (c *RoleCache) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
	return c.seq
}

func (c *RoleCache) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.inflight == 0 && len(c.forgotten) > 0 {
		c.forgotten = make(map[string]uint64)
	}
}

// store caches p unless its user was forgotten after the resolve began.
func (c *RoleCache) store(token string, p identity.Principal, start uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.forgotten[p.UserID] > start {
		c.logger.WithField("user_id", p.UserID).Debug("role invalidated during resolve, not caching")
		return
	}
	c.entries.Set(token, p)
}

// Forget drops every cached entry of userID on this instance. Resolves
// already in flight for userID do not repopulate the cache.
func (c *RoleCache) Forget(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if c.inflight > 0 {
		c.forgotten[userID] = c.seq
	}
	return c.entries.DeleteWhere(func(_ string, value interface{}) bool {
		p, ok := value.(identity.Principal)
		return ok && p.UserID == userID
	})
}

// Invalidate forgets userID locally and asks every other instance to do
// the same.
func (c *RoleCache) Invalidate(ctx context.Context, userID string) error {
	removed := c.Forget(userID)
	c.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"removed": removed,
	}).Info("role cache invalidated")

	if c.publisher == nil {
		return nil
	}
	if err := c.publisher.Publish(ctx, channel.IdentityEventsChannel, event.RoleInvalidatedEvent{UserID: userID}); err != nil {
		return fmt.Errorf("publish role invalidation: %w", err)
	}
	return nil
}
