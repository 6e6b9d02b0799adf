package numeric

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHuman(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		decimals uint8
		want     string
		wantErr  bool
	}{
		{name: "usdc", raw: "1000000000", decimals: 6, want: "1000"},
		{name: "token 9dp", raw: "1500000000", decimals: 9, want: "1.5"},
		{name: "zero", raw: "0", decimals: 9, want: "0"},
		{name: "reserve scale", raw: "1000000000000000", decimals: 9, want: "1000000"},
		{name: "negative", raw: "-1", decimals: 6, wantErr: true},
		{name: "fractional raw", raw: "1.5", decimals: 6, wantErr: true},
		{name: "garbage", raw: "abc", decimals: 6, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHuman(tt.raw, tt.decimals)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestToRaw(t *testing.T) {
	tests := []struct {
		name     string
		human    string
		decimals uint8
		want     uint64
		wantErr  bool
	}{
		{name: "usdc", human: "1000", decimals: 6, want: 1_000_000_000},
		{name: "floors fraction", human: "0.1234567899", decimals: 6, want: 123456},
		{name: "zero", human: "0", decimals: 9, want: 0},
		{name: "negative", human: "-0.5", decimals: 6, wantErr: true},
		{name: "not a number", human: "1e", decimals: 6, wantErr: true},
		{name: "overflow", human: "99999999999999999999", decimals: 9, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToRaw(tt.human, tt.decimals)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	raw, err := ToRaw("123.456789", 9)
	require.NoError(t, err)
	human := ToHumanUint(raw, 9)
	assert.True(t, human.Equal(decimal.RequireFromString("123.456789")), "got %s", human)
}
