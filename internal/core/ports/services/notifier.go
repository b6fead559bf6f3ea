package services

import "context"

// BalanceNotifier is the best-effort event hook fired after a committed
// operation changed one or more balances. Implementations must never fail
// the ledger operation: errors are logged and swallowed.
type BalanceNotifier interface {
	BalanceChanged(ctx context.Context, userIDs ...string)
}
