package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "numeric code wins over text",
			err:  errors.New("something harmless looking: custom program error: 0x1771"),
			want: KindInsufficientLiquidity,
		},
		{
			name: "decimal form of custom code",
			err:  errors.New("Transaction failed: custom program error: 6003"),
			want: KindWalletRateLimit,
		},
		{
			name: "anchor name in logs",
			err:  errors.New("Program log: AnchorError occurred. Error Code: BundleAlreadyExecuted. Error Number: 6008."),
			want: KindStateConflict,
		},
		{
			name: "user rejected",
			err:  errors.New("User rejected the request"),
			want: KindUserDeclined,
		},
		{
			name: "insufficient lamports",
			err:  errors.New("Transfer: insufficient lamports 100, need 200"),
			want: KindInsufficientBalance,
		},
		{
			name: "stale blockhash",
			err:  errors.New("BlockhashNotFound"),
			want: KindNetworkTransient,
		},
		{
			name: "simulation infra failure",
			err:  errors.New("Transaction simulation failed: unknown"),
			want: KindNetworkTransient,
		},
		{
			name: "fallback",
			err:  errors.New("weird"),
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestNormalizeKeepsExistingKind(t *testing.T) {
	orig := New(KindUserDeclined, "signing was declined")
	wrapped := fmt.Errorf("op buy: %w", orig)
	assert.Equal(t, KindUserDeclined, Normalize(wrapped).Kind)
}

func TestNormalizeTruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := Normalize(errors.New(long))
	assert.Equal(t, KindUnknown, got.Kind)
	assert.LessOrEqual(t, len(got.Message), maxUserMessageLen+len("…"))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(New(KindNetworkTransient, "retry me")))
	assert.False(t, Retryable(New(KindUserDeclined, "never retry")))
	assert.False(t, Retryable(errors.New("opaque")))
}

func TestParseAnchorLogs(t *testing.T) {
	logs := []string{
		"Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P invoke [1]",
		"Program log: AnchorError occurred. Error Code: WalletLimitExceeded. Error Number: 6003. Error Message: Wallet limit exceeded.",
	}
	got := ParseAnchorLogs(logs)
	require.NotNil(t, got)
	assert.Equal(t, 6003, got.Code)
	assert.Equal(t, "WalletLimitExceeded", got.Name)
	assert.Equal(t, "Wallet limit exceeded", got.Msg)

	assert.Nil(t, ParseAnchorLogs([]string{"Program log: ok"}))
}
