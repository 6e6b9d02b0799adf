// Package launchpadclient — публичный фасад библиотеки: собирает клиент
// протокола token-launchpad из конфигурационного файла и приватного ключа.
// Тонкая сборка поверх internal-пакетов; вся логика живёт там.
package launchpadclient

import (
	"time"

	"github.com/rovshanmuradov/launchpad-client/internal/chain"
	"github.com/rovshanmuradov/launchpad-client/internal/config"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/curve"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/errs"
	"github.com/rovshanmuradov/launchpad-client/internal/logger"
	"github.com/rovshanmuradov/launchpad-client/internal/wallet"
)

// Реэкспорт основных типов, чтобы потребителю не пришлось заглядывать в
// internal-пакеты.
type (
	Client           = launchpad.Client
	Params           = launchpad.Params
	CreatePoolParams = launchpad.CreatePoolParams
	LockedInfo       = launchpad.LockedInfo
	Quote            = curve.Quote
	ErrorKind        = errs.Kind
)

// Пользовательская таксономия ошибок.
const (
	ErrWalletNotConnected    = errs.KindWalletNotConnected
	ErrInvalidAmount         = errs.KindInvalidAmount
	ErrInsufficientBalance   = errs.KindInsufficientBalance
	ErrInsufficientLiquidity = errs.KindInsufficientLiquidity
	ErrUnauthorized          = errs.KindUnauthorized
	ErrWalletRateLimit       = errs.KindWalletRateLimit
	ErrGlobalRateLimit       = errs.KindGlobalRateLimit
	ErrStateConflict         = errs.KindStateConflict
	ErrUserDeclined          = errs.KindUserDeclined
	ErrNetworkTransient      = errs.KindNetworkTransient
	ErrUnknown               = errs.KindUnknown
)

// KindOf возвращает вид нормализованной ошибки.
func KindOf(err error) ErrorKind { return errs.KindOf(err) }

// Retryable сообщает, безопасно ли повторить операцию целиком.
func Retryable(err error) bool { return errs.Retryable(err) }

// New собирает готовый клиент: конфиг с диска (плюс LAUNCHPAD_* окружение),
// логгер с ротацией, кошелёк из base58-ключа, RPC-клиент и конвейер
// отправки. Возвращаемый cleanup сбрасывает буферы логгера.
func New(configPath, privateKeyBase58 string) (client *Client, cleanup func() error, err error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		return nil, nil, err
	}

	w, err := wallet.NewFromBase58(privateKeyBase58)
	if err != nil {
		return nil, nil, err
	}

	chainClient := chain.NewClient(cfg.RPCList[0], log.Logger)
	pipeline := chain.NewPipeline(chainClient, chain.PipelineConfig{
		ConfirmTimeout: time.Duration(cfg.ConfirmTimeout) * time.Second,
		SendRetries:    uint(cfg.SendRetries),
	}, log.Logger)

	client, err = launchpad.New(launchpad.Params{
		Chain:         chainClient,
		Sender:        pipeline,
		Signer:        w,
		ProgramID:     cfg.Program(),
		CpmmProgramID: cfg.CpmmProgram(),
		ComputeUnits:  uint32(cfg.ComputeUnits),
		PriorityPrice: uint64(cfg.PriorityFee),
		Logger:        log.Logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, log.Sync, nil
}
