package errs

import (
	"errors"
	"fmt"
	"strings"
)

// maxUserMessageLen bounds the text taken verbatim from a raw protocol
// error so RPC dumps never leak into the UI.
const maxUserMessageLen = 100

// customError describes one launchpad custom program error code.
type customError struct {
	code    uint32
	name    string
	kind    Kind
	message string
}

// Custom error table for the launchpad program (Anchor numbering starts
// at 6000 / 0x1770).
var customErrors = []customError{
	{6000, "InsufficientFunds", KindInsufficientBalance, "insufficient balance for this trade"},
	{6001, "InsufficientLiquidity", KindInsufficientLiquidity, "pool cannot satisfy the requested trade"},
	{6002, "Unauthorized", KindUnauthorized, "this wallet is not allowed to perform the action"},
	{6003, "WalletLimitExceeded", KindWalletRateLimit, "wallet trading limit reached, try a smaller amount"},
	{6004, "GlobalLimitExceeded", KindGlobalRateLimit, "global trading limit reached, try again later"},
	{6005, "PoolComplete", KindStateConflict, "pool has completed its bonding curve"},
	{6006, "PoolNotComplete", KindStateConflict, "pool has not completed its bonding curve yet"},
	{6007, "AlreadyFinalized", KindStateConflict, "pool is already finalized"},
	{6008, "BundleAlreadyExecuted", KindStateConflict, "bundle buy was already executed"},
	{6009, "InvalidAmount", KindInvalidAmount, "amount rejected by the program"},
	{6010, "NothingToClaim", KindStateConflict, "nothing to claim"},
}

// Normalize maps any failure from the on-chain call path to the closed
// taxonomy. Matching order: exact numeric code, exact error name, generic
// substring heuristics, then a truncated fallback.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	// Already normalized somewhere closer to the failure.
	var already *Error
	if errors.As(err, &already) {
		return already
	}

	msg := err.Error()

	// 1. Exact numeric custom-code lookup (both hex and decimal forms
	// appear in RPC payloads).
	for _, ce := range customErrors {
		if strings.Contains(msg, fmt.Sprintf("%#x", ce.code)) ||
			strings.Contains(msg, fmt.Sprintf("custom program error: %d", ce.code)) {
			return Wrap(ce.kind, ce.message, err)
		}
	}

	// 2. Exact named-error lookup (Anchor logs carry the name).
	for _, ce := range customErrors {
		if strings.Contains(msg, ce.name) {
			return Wrap(ce.kind, ce.message, err)
		}
	}

	// 3. Generic substring heuristics.
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "user rejected") || strings.Contains(lower, "user declined"):
		return Wrap(KindUserDeclined, "signing was declined", err)
	case strings.Contains(lower, "insufficient funds") || strings.Contains(lower, "insufficient lamports"):
		return Wrap(KindInsufficientBalance, "insufficient balance", err)
	case strings.Contains(lower, "blockhash not found") || strings.Contains(lower, "blockhashnotfound"):
		return Wrap(KindNetworkTransient, "block reference expired, please retry", err)
	case strings.Contains(lower, "transaction simulation failed"):
		return Wrap(KindNetworkTransient, "pre-flight simulation failed, please retry", err)
	case strings.Contains(lower, "node is behind") ||
		strings.Contains(lower, "timed out") ||
		strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "too many requests"):
		return Wrap(KindNetworkTransient, "network issue, please retry", err)
	}

	// 4. Fallback, with the raw message truncated.
	return Wrap(KindUnknown, truncate(msg), err)
}

func truncate(s string) string {
	if len(s) <= maxUserMessageLen {
		return s
	}
	return s[:maxUserMessageLen] + "…"
}
