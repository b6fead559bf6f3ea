package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
	"github.com/malihub/mali_ledger/internal/middleware"
)

// BalanceChangedChannel is the pub/sub channel balance-change events are
// published on. Marketplace consumers refresh their cached balances on it.
const BalanceChangedChannel = "mali.balance.changed"

// publishTimeout bounds the post-commit publish so a slow broker cannot
// stall the response.
const publishTimeout = 2 * time.Second

// balanceChangedEvent is the wire payload of one event.
type balanceChangedEvent struct {
	UserID     string    `json:"userID"`
	OccurredAt time.Time `json:"occurredAt"`
}

// RedisNotifier publishes balance-change events to Redis. Publishing is best
// effort: the balance mutation is already committed when the event fires, so
// failures are logged and dropped, never surfaced to the caller.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a new RedisNotifier.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Ensure RedisNotifier implements the portssvc.BalanceNotifier interface
var _ portssvc.BalanceNotifier = (*RedisNotifier)(nil)

// BalanceChanged publishes one event per affected user.
func (n *RedisNotifier) BalanceChanged(ctx context.Context, userIDs ...string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	now := time.Now().UTC()
	for _, userID := range userIDs {
		payload, err := json.Marshal(balanceChangedEvent{UserID: userID, OccurredAt: now})
		if err != nil {
			logger.Error("Failed to marshal balance event", slog.String("user_id", userID), slog.String("error", err.Error()))
			continue
		}
		if err := n.client.Publish(pubCtx, BalanceChangedChannel, string(payload)).Err(); err != nil {
			logger.Warn("Failed to publish balance event", slog.String("user_id", userID), slog.String("error", err.Error()))
		}
	}
}
