// Package errs collapses the protocol's heterogeneous failure signals
// (custom program error codes, Anchor error names, transport message
// strings) into one closed taxonomy for user display.
package errs

import (
	"errors"
	"fmt"
)

// Kind is a user-facing error category.
type Kind string

const (
	KindWalletNotConnected    Kind = "wallet_not_connected"
	KindInvalidAmount         Kind = "invalid_amount"
	KindInsufficientBalance   Kind = "insufficient_balance"
	KindInsufficientLiquidity Kind = "insufficient_liquidity"
	KindUnauthorized          Kind = "unauthorized"
	KindWalletRateLimit       Kind = "wallet_rate_limit_exceeded"
	KindGlobalRateLimit       Kind = "global_rate_limit_exceeded"
	KindStateConflict         Kind = "state_conflict"
	KindUserDeclined          Kind = "user_declined"
	KindNetworkTransient      Kind = "network_transient"
	KindUnknown               Kind = "unknown"
)

// Error is a normalized failure, safe to show to the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, for logs only
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a normalized error with an explicit kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of an already-normalized error, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Retryable reports whether an error kind is safe to retry automatically.
// Only transient network failures qualify; a user decline must never be
// retried.
func Retryable(err error) bool {
	return KindOf(err) == KindNetworkTransient
}
