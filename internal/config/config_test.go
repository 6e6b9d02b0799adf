package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
rpc_list:
  - https://api.mainnet-beta.solana.com
program_id: 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfirmTimeout, cfg.ConfirmTimeout)
	assert.Equal(t, DefaultSendRetries, cfg.SendRetries)
	assert.Equal(t, DefaultCommitment, cfg.Commitment)
	assert.Equal(t, DefaultComputeUnits, cfg.ComputeUnits)
	assert.False(t, cfg.Program().IsZero())
	assert.True(t, cfg.CpmmProgram().IsZero())
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing rpc list", "program_id: 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P\n"},
		{"bad rpc scheme", "rpc_list:\n  - ftp://example.com\nprogram_id: 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P\n"},
		{"missing program id", "rpc_list:\n  - https://api.mainnet-beta.solana.com\n"},
		{"bad program id", "rpc_list:\n  - https://api.mainnet-beta.solana.com\nprogram_id: not-base58!\n"},
		{"bad commitment", "rpc_list:\n  - https://api.mainnet-beta.solana.com\nprogram_id: 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P\ncommitment: eventually\n"},
		{"bad timeout", "rpc_list:\n  - https://api.mainnet-beta.solana.com\nprogram_id: 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P\nconfirm_timeout: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LAUNCHPAD_RPC_LIST", "https://rpc-one.example.com, https://rpc-two.example.com")
	t.Setenv("LAUNCHPAD_PROGRAM_ID", "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")

	path := writeConfig(t, `
rpc_list:
  - https://api.mainnet-beta.solana.com
program_id: 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://rpc-one.example.com", "https://rpc-two.example.com"}, cfg.RPCList)
	assert.Equal(t, "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C", cfg.ProgramID)
}
