package notifier

import (
	"context"

	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
)

// NoopNotifier discards all events. Used when Redis is not configured.
type NoopNotifier struct{}

// NewNoopNotifier creates a new NoopNotifier.
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

// Ensure NoopNotifier implements the portssvc.BalanceNotifier interface
var _ portssvc.BalanceNotifier = (*NoopNotifier)(nil)

// BalanceChanged does nothing.
func (n *NoopNotifier) BalanceChanged(_ context.Context, _ ...string) {}
