package notifier_test

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malihub/mali_ledger/internal/adapters/notifier"
)

func TestBalanceChangedPublishesPerUser(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.Regexp().ExpectPublish(notifier.BalanceChangedChannel, `.*"userID":"user-1".*`).SetVal(1)
	mock.Regexp().ExpectPublish(notifier.BalanceChangedChannel, `.*"userID":"user-2".*`).SetVal(1)

	n := notifier.NewRedisNotifier(client)
	n.BalanceChanged(context.Background(), "user-1", "user-2")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceChangedSwallowsPublishErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.Regexp().ExpectPublish(notifier.BalanceChangedChannel, `.*`).SetErr(assert.AnError)

	n := notifier.NewRedisNotifier(client)

	// Must not panic or propagate: the ledger mutation already committed.
	n.BalanceChanged(context.Background(), "user-1")

	require.NoError(t, mock.ExpectationsWereMet())
}
