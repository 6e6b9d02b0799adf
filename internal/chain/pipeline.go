// internal/chain/pipeline.go
package chain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/errs"
)

// State — фаза жизненного цикла отправленной транзакции.
type State string

const (
	StateBuilt        State = "built"
	StateSent         State = "sent"
	StateConfirmedOk  State = "confirmed_ok"
	StateConfirmedErr State = "confirmed_err"
	StateTimedOut     State = "timed_out"
	StateResolved     State = "resolved"
	StateFailed       State = "failed"
)

// Submitter — способности сети, нужные конвейеру отправки.
type Submitter interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	SignatureStatus(ctx context.Context, sig solana.Signature, searchHistory bool) (*rpc.SignatureStatusesResult, error)
}

// PipelineConfig — параметры конвейера.
type PipelineConfig struct {
	ConfirmTimeout time.Duration // окно ожидания подтверждения
	PollInterval   time.Duration // период опроса статуса
	SendRetries    uint          // попыток сырой отправки при транзиентных сбоях
}

// DefaultPipelineConfig возвращает значения по умолчанию.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ConfirmTimeout: 60 * time.Second,
		PollInterval:   500 * time.Millisecond,
		SendRetries:    3,
	}
}

// Pipeline отправляет подписанную транзакцию и доводит её до развязки:
// подтверждена, подтверждена с ошибкой программы, либо достоверно потеряна.
// Отозвать уже отправленную транзакцию нельзя — «отмена» существует только
// до вызова SendAndConfirm.
type Pipeline struct {
	submitter Submitter
	config    PipelineConfig
	logger    *zap.Logger
}

// NewPipeline создаёт конвейер.
func NewPipeline(submitter Submitter, config PipelineConfig, logger *zap.Logger) *Pipeline {
	if config.ConfirmTimeout <= 0 {
		config.ConfirmTimeout = DefaultPipelineConfig().ConfirmTimeout
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPipelineConfig().PollInterval
	}
	if config.SendRetries == 0 {
		config.SendRetries = DefaultPipelineConfig().SendRetries
	}
	return &Pipeline{
		submitter: submitter,
		config:    config,
		logger:    logger.Named("tx-pipeline"),
	}
}

// SendAndConfirm проводит транзакцию через весь state machine:
// Built → Sent → {ConfirmedOk, ConfirmedErr, TimedOut} → {Resolved, Failed}.
func (p *Pipeline) SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := p.send(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}
	p.logger.Info("Transaction sent",
		zap.String("signature", shortSig(sig)),
		zap.String("state", string(StateSent)))

	return p.confirm(ctx, sig)
}

// send отправляет сырые байты. Ретраятся только транзиентные сетевые сбои,
// с ограничением попыток; логические отказы помечаются Permanent и уходят
// наверх сразу.
func (p *Pipeline) send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	attempt := 0
	op := func() (solana.Signature, error) {
		attempt++
		sig, err := p.submitter.SendTransaction(ctx, tx)
		if err == nil {
			return sig, nil
		}
		if isTransientSendError(err) {
			p.logger.Warn("Transient send failure, will retry",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return solana.Signature{}, err
		}
		return solana.Signature{}, backoff.Permanent(err)
	}

	sig, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(p.config.SendRetries),
	)
	if err != nil {
		return solana.Signature{}, errs.Normalize(fmt.Errorf("send transaction: %w", err))
	}
	return sig, nil
}

// confirm опрашивает статус до подтверждения или истечения окна. По
// таймауту не считаем транзакцию провалившейся: доставка уведомления о
// подтверждении ненадёжна даже когда транзакция легла в блок, поэтому
// делаем прямой контрольный запрос статуса с поиском по истории.
func (p *Pipeline) confirm(ctx context.Context, sig solana.Signature) (solana.Signature, error) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()
	deadline := time.After(p.config.ConfirmTimeout)

	for {
		select {
		case <-ctx.Done():
			return sig, errs.Wrap(errs.KindNetworkTransient, "confirmation cancelled", ctx.Err())

		case <-deadline:
			p.logger.Warn("Confirmation window elapsed, checking status directly",
				zap.String("signature", shortSig(sig)),
				zap.String("state", string(StateTimedOut)))
			return p.resolveAfterTimeout(ctx, sig)

		case <-ticker.C:
			status, err := p.submitter.SignatureStatus(ctx, sig, false)
			if err != nil {
				p.logger.Warn("Status poll failed", zap.Error(err))
				continue
			}
			if status == nil {
				continue
			}
			if status.Err != nil {
				p.logger.Warn("Transaction confirmed with program error",
					zap.String("signature", shortSig(sig)),
					zap.String("state", string(StateConfirmedErr)),
					zap.Any("err", status.Err))
				return sig, errs.Normalize(fmt.Errorf("transaction failed on-chain: %v", status.Err))
			}
			if isConfirmed(status) {
				p.logger.Info("Transaction confirmed",
					zap.String("signature", shortSig(sig)),
					zap.String("state", string(StateConfirmedOk)))
				return sig, nil
			}
		}
	}
}

// resolveAfterTimeout различает «реально не прошла» и «подтверждение
// потерялось». Успешный статус после таймаута — это успех (Resolved).
func (p *Pipeline) resolveAfterTimeout(ctx context.Context, sig solana.Signature) (solana.Signature, error) {
	status, err := p.submitter.SignatureStatus(ctx, sig, true)
	if err != nil {
		return sig, errs.Wrap(errs.KindNetworkTransient,
			"confirmation timed out and status lookup failed", err)
	}
	if status != nil {
		if status.Err != nil {
			return sig, errs.Normalize(fmt.Errorf("transaction failed on-chain: %v", status.Err))
		}
		if isConfirmed(status) {
			p.logger.Info("Transaction landed despite confirmation timeout",
				zap.String("signature", shortSig(sig)),
				zap.String("state", string(StateResolved)))
			return sig, nil
		}
	}
	p.logger.Warn("No record of transaction after timeout",
		zap.String("signature", shortSig(sig)),
		zap.String("state", string(StateFailed)))
	return sig, errs.New(errs.KindNetworkTransient,
		"transaction was not confirmed in time, it is safe to retry")
}

func isConfirmed(status *rpc.SignatureStatusesResult) bool {
	return status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
		status.ConfirmationStatus == rpc.ConfirmationStatusFinalized
}

// isTransientSendError отделяет сетевые сбои от логических отказов.
func isTransientSendError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"timed out",
		"timeout",
		"too many requests",
		"node is behind",
		"service unavailable",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func shortSig(sig solana.Signature) string {
	s := sig.String()
	if len(s) > 8 {
		return s[:8] + "..."
	}
	return s
}
