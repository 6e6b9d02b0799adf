// internal/chain/retry.go
package chain

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryRead повторяет идемпотентный read-only вызов с экспоненциальной
// задержкой. Для подписи и отправки не использовать: отказ пользователя
// ретраить нельзя, а повторная отправка — забота Pipeline.
func RetryRead[T any](ctx context.Context, attempts uint, op func() (T, error)) (T, error) {
	if attempts == 0 {
		attempts = 3
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(attempts),
	)
}
