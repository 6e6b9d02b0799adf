// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

type Config struct {
	RPCList        []string `mapstructure:"rpc_list"`
	ProgramID      string   `mapstructure:"program_id"`
	CpmmProgramID  string   `mapstructure:"cpmm_program_id"`
	Commitment     string   `mapstructure:"commitment"`
	ConfirmTimeout int      `mapstructure:"confirm_timeout"` // секунды
	SendRetries    int      `mapstructure:"send_retries"`
	ComputeUnits   int      `mapstructure:"compute_units"`
	PriorityFee    int      `mapstructure:"priority_fee"` // micro-lamports
	DebugLogging   bool     `mapstructure:"debug_logging"`
	LogFile        string   `mapstructure:"log_file"`
}

const (
	DefaultCommitment     = "confirmed"
	DefaultConfirmTimeout = 60
	DefaultSendRetries    = 3
	DefaultComputeUnits   = 200_000
	DefaultPriorityFee    = 5_000
	DefaultLogFile        = "launchpad.log"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"commitment":      DefaultCommitment,
		"confirm_timeout": DefaultConfirmTimeout,
		"send_retries":    DefaultSendRetries,
		"compute_units":   DefaultComputeUnits,
		"priority_fee":    DefaultPriorityFee,
		"log_file":        DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

// Program возвращает разобранный адрес программы launchpad.
func (c *Config) Program() solana.PublicKey {
	pk, _ := solana.PublicKeyFromBase58(c.ProgramID)
	return pk
}

// CpmmProgram возвращает адрес программы внешнего DEX; нулевой, если
// интеграция не настроена.
func (c *Config) CpmmProgram() solana.PublicKey {
	if c.CpmmProgramID == "" {
		return solana.PublicKey{}
	}
	pk, _ := solana.PublicKeyFromBase58(c.CpmmProgramID)
	return pk
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	if cfg.ProgramID == "" {
		return errors.New("missing program_id in configuration")
	}
	if _, err := solana.PublicKeyFromBase58(cfg.ProgramID); err != nil {
		return errors.New("invalid program_id")
	}
	if cfg.CpmmProgramID != "" {
		if _, err := solana.PublicKeyFromBase58(cfg.CpmmProgramID); err != nil {
			return errors.New("invalid cpmm_program_id")
		}
	}
	switch cfg.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return errors.New("invalid commitment level")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.ConfirmTimeout <= 0 {
		return errors.New("invalid confirm_timeout")
	}
	if cfg.SendRetries < 0 {
		return errors.New("invalid send_retries count")
	}
	if cfg.ComputeUnits <= 0 {
		return errors.New("invalid compute_units")
	}
	if cfg.PriorityFee < 0 {
		return errors.New("invalid priority_fee")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envProgram := v.GetString("PROGRAM_ID")
	if envProgram != "" {
		cfg.ProgramID = envProgram
	}

	envRPCList := v.GetString("RPC_LIST")
	if envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, rpc := range rpcs {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}
	return nil
}
