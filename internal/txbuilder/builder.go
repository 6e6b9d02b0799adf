// internal/txbuilder/builder.go
package txbuilder

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad-client/internal/chain"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/errs"
)

// Параметры compute budget по умолчанию.
const (
	DefaultComputeUnits  = 200_000
	DefaultPriorityPrice = 5_000 // micro-lamports за единицу
)

// Signer — абстрактная подписывающая способность. Подписание может висеть
// неопределённо долго (человек думает) и может быть отклонено — это
// ожидаемый исход, не исключительный.
type Signer interface {
	Pubkey() solana.PublicKey
	SignTransaction(tx *solana.Transaction) error
	SignAllTransactions(txs []*solana.Transaction) error
}

// ChainClient — способности сети, нужные билдеру.
type ChainClient interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error)
	SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*chain.SimulationResult, error)
}

// Sender доводит собранную транзакцию до подтверждения (см. chain.Pipeline).
type Sender interface {
	SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Builder накапливает инструкции и дополнительные keypair-ы и собирает из
// них одну подписанную транзакцию. Экземпляр живёт в рамках одной операции
// и не переиспользуется.
type Builder struct {
	client ChainClient
	sender Sender
	signer Signer
	logger *zap.Logger

	computeUnits  uint32
	priorityPrice uint64

	instructions []solana.Instruction
	extraSigners []solana.PrivateKey
	ensured      map[solana.PublicKey]bool
}

// New создаёт билдер для одной операции.
func New(client ChainClient, sender Sender, signer Signer, logger *zap.Logger) *Builder {
	return &Builder{
		client:        client,
		sender:        sender,
		signer:        signer,
		logger:        logger.Named("txbuilder"),
		computeUnits:  DefaultComputeUnits,
		priorityPrice: DefaultPriorityPrice,
		ensured:       make(map[solana.PublicKey]bool),
	}
}

// SetComputeBudget переопределяет лимит и цену вычислительных единиц.
// Директивы compute budget всегда вставляются в начало списка инструкций.
func (b *Builder) SetComputeBudget(units uint32, microLamports uint64) *Builder {
	b.computeUnits = units
	b.priorityPrice = microLamports
	return b
}

// AddInstruction добавляет инструкцию в конец списка.
func (b *Builder) AddInstruction(ix solana.Instruction) *Builder {
	b.instructions = append(b.instructions, ix)
	return b
}

// AddSigner добавляет дополнительный keypair (например, минт нового токена),
// чья подпись будет наложена поверх подписи основного подписанта.
func (b *Builder) AddSigner(key solana.PrivateKey) *Builder {
	b.extraSigners = append(b.extraSigners, key)
	return b
}

// EnsureTokenAccount проверяет существование токен-аккаунта и, если его
// нет, добавляет идемпотентную инструкцию создания. Повторные вызовы для
// того же аккаунта внутри одной сборки ничего не добавляют.
func (b *Builder) EnsureTokenAccount(ctx context.Context, account, owner, mint solana.PublicKey) error {
	if b.ensured[account] {
		return nil
	}
	b.ensured[account] = true

	exists, err := b.client.AccountExists(ctx, account)
	if err != nil {
		return fmt.Errorf("check token account %s: %w", account, err)
	}
	if exists {
		return nil
	}

	b.logger.Debug("Token account missing, scheduling creation",
		zap.String("account", account.String()),
		zap.String("mint", mint.String()))
	b.instructions = append(b.instructions,
		createATAIdempotentInstruction(b.signer.Pubkey(), owner, mint))
	return nil
}

// Build собирает и подписывает транзакцию: свежий blockhash, плательщик —
// основной подписант, затем частичные подписи дополнительных keypair-ов.
func (b *Builder) Build(ctx context.Context) (*solana.Transaction, error) {
	if len(b.instructions) == 0 {
		return nil, fmt.Errorf("no instructions to build")
	}

	blockhash, err := b.client.LatestBlockhash(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.KindNetworkTransient, "failed to fetch block reference", err)
	}

	instructions := make([]solana.Instruction, 0, len(b.instructions)+2)
	if b.computeUnits > 0 {
		instructions = append(instructions,
			computebudget.NewSetComputeUnitLimitInstruction(b.computeUnits).Build())
	}
	if b.priorityPrice > 0 {
		instructions = append(instructions,
			computebudget.NewSetComputeUnitPriceInstruction(b.priorityPrice).Build())
	}
	instructions = append(instructions, b.instructions...)

	tx, err := solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(b.signer.Pubkey()),
	)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if err := b.signer.SignTransaction(tx); err != nil {
		return nil, errs.Wrap(errs.KindUserDeclined, "signing was declined", err)
	}

	if len(b.extraSigners) > 0 {
		_, err = tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
			for i := range b.extraSigners {
				if b.extraSigners[i].PublicKey().Equals(key) {
					return &b.extraSigners[i]
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("apply partial signatures: %w", err)
		}
	}

	return tx, nil
}

// SimulationReport — итог dry-run. Неуспех симуляции не ошибка вызова:
// решение, продолжать ли, остаётся за вызывающим кодом.
type SimulationReport struct {
	Ok            bool
	Logs          []string
	UnitsConsumed uint64
	FailureReason string
}

// Simulate собирает транзакцию и выполняет dry-run без отправки.
func (b *Builder) Simulate(ctx context.Context) (*SimulationReport, error) {
	tx, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	result, err := b.client.SimulateTransaction(ctx, tx)
	if err != nil {
		return nil, errs.Wrap(errs.KindNetworkTransient, "simulation request failed", err)
	}

	report := &SimulationReport{
		Ok:            result.Err == nil,
		Logs:          result.Logs,
		UnitsConsumed: result.UnitsConsumed,
	}
	if !report.Ok {
		report.FailureReason = fmt.Sprintf("%v", result.Err)
		if anchorErr := errs.ParseAnchorLogs(result.Logs); anchorErr != nil {
			report.FailureReason = anchorErr.Error()
		}
		b.logger.Warn("Simulation reported failure",
			zap.String("reason", report.FailureReason),
			zap.Uint64("units_consumed", report.UnitsConsumed))
	}
	return report, nil
}

// BuildAndSend собирает, подписывает и проводит транзакцию через конвейер
// отправки до подтверждения.
func (b *Builder) BuildAndSend(ctx context.Context) (solana.Signature, error) {
	tx, err := b.Build(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	return b.sender.SendAndConfirm(ctx, tx)
}

// createATAIdempotentInstruction строит идемпотентную инструкцию создания
// ассоциированного токен-аккаунта (instruction 1 у ATA-программы).
func createATAIdempotentInstruction(payer, owner, mint solana.PublicKey) solana.Instruction {
	ata, _, _ := solana.FindAssociatedTokenAddress(owner, mint)

	return solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		[]*solana.AccountMeta{
			{PublicKey: payer, IsWritable: true, IsSigner: true},
			{PublicKey: ata, IsWritable: true, IsSigner: false},
			{PublicKey: owner, IsWritable: false, IsSigner: false},
			{PublicKey: mint, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		},
		[]byte{1}, // CreateIdempotent
	)
}
