package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/config"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/draft"
)

// Notification is one toast-style event pushed to the back-office UI.
type Notification struct {
	Level     string    `json:"level"` // "success" | "error"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier publishes UI feedback to a per-user Redis PubSub channel; the
// notification WebSocket fans it out to connected clients. Publishing is
// fire-and-forget: a failed publish is logged and dropped.
type Notifier struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewNotifier creates a new Notifier.
func NewNotifier(rdb *redis.Client, log zerolog.Logger) *Notifier {
	return &Notifier{
		rdb: rdb,
		log: log.With().Str("component", "notifier").Logger(),
	}
}

// For returns a draft.NotificationSink bound to one user's channel.
func (n *Notifier) For(userID string) draft.NotificationSink {
	return &UserSink{notifier: n, userID: userID}
}

func (n *Notifier) publish(userID, level, msg string) {
	raw, err := json.Marshal(Notification{
		Level:     level,
		Message:   msg,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		n.log.Error().Err(err).Msg("marshal notification")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	channel := config.CacheKey.NotificationChannel(userID)
	if err := n.rdb.Publish(ctx, channel, raw).Err(); err != nil {
		n.log.Warn().Err(err).Str("channel", channel).Msg("notification publish failed")
	}
}

// UserSink is a NotificationSink for a single back-office user.
type UserSink struct {
	notifier *Notifier
	userID   string
}

// Success publishes a success toast.
func (s *UserSink) Success(msg string) { s.notifier.publish(s.userID, "success", msg) }

// Error publishes an error toast.
func (s *UserSink) Error(msg string) { s.notifier.publish(s.userID, "error", msg) }
