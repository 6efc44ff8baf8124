package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/planmate/planmate-backend/internal/logger"
)

// NotificationEvent is the payload published for staff-facing camp events.
type NotificationEvent struct {
	Type         string     `json:"type"`
	AcademyID    uuid.UUID  `json:"academy_id"`
	StudentID    uuid.UUID  `json:"student_id"`
	InvitationID *uuid.UUID `json:"invitation_id,omitempty"`
	TemplateID   *uuid.UUID `json:"template_id,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// Notifier delivers best-effort notifications. Every caller wraps calls in
// log-and-swallow handling; delivery failure never reaches the end user.
type Notifier interface {
	Publish(ctx context.Context, event NotificationEvent) error
	Close() error
}

type redisNotifier struct {
	log     *logger.Logger
	rdb     *redis.Client
	channel string
}

func NewRedisNotifier(log *logger.Logger) (Notifier, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_CHANNEL"))
	if ch == "" {
		ch = "camp-events"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisNotifier{
		log:     log.With("service", "RedisNotifier"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (n *redisNotifier) Publish(ctx context.Context, event NotificationEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, n.channel, raw).Err()
}

func (n *redisNotifier) Close() error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Close()
}

// NoopNotifier stands in when redis is not configured so callers never need a
// nil check.
type NoopNotifier struct{}

func (NoopNotifier) Publish(ctx context.Context, event NotificationEvent) error { return nil }
func (NoopNotifier) Close() error                                               { return nil }
