// =============================
// File: internal/launchpad/client.go
// =============================

// Package launchpad — встраиваемая клиентская библиотека протокола
// token-launchpad: котировки по bonding curve, сборка и проведение
// транзакций, нормализация ошибок. Библиотека не хранит авторитетного
// состояния: всё состояние живёт в on-chain программе, клиент работает
// со свежими снимками.
package launchpad

import (
	"context"
	"math/bits"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad-client/internal/chain"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/addrs"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/errs"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/state"
	"github.com/rovshanmuradov/launchpad-client/internal/txbuilder"
)

// ChainAPI — сетевые возможности, которые нужны клиенту. Реализуется
// chain.Client; в тестах подменяется фейком.
type ChainAPI interface {
	AccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, bool, error)
	AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error)
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*chain.SimulationResult, error)
	TokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
}

// Signer — абстрактный кошелёк. Ready()==false означает «кошелёк не
// подключён»: все мутирующие операции отклоняются без паники.
type Signer interface {
	Pubkey() solana.PublicKey
	SignTransaction(tx *solana.Transaction) error
	SignAllTransactions(txs []*solana.Transaction) error
	Ready() bool
}

// Params — явные зависимости клиента. Никаких глобальных провайдеров:
// всё, что нужно операции, передаётся сюда.
type Params struct {
	Chain         ChainAPI
	Sender        txbuilder.Sender
	Signer        Signer
	ProgramID     solana.PublicKey
	CpmmProgramID solana.PublicKey

	// Ноль — значения по умолчанию из txbuilder.
	ComputeUnits  uint32
	PriorityPrice uint64

	Logger *zap.Logger
}

// Client — фасад всех операций протокола. Состояния между вызовами не
// хранит, безопасен для конкурентного использования.
type Client struct {
	chain    ChainAPI
	sender   txbuilder.Sender
	signer   Signer
	resolver *addrs.Resolver
	fetcher  *state.Fetcher
	logger   *zap.Logger

	computeUnits  uint32
	priorityPrice uint64
}

// New создаёт клиент. ProgramID обязателен; CpmmProgramID нужен только
// операциям внешнего DEX.
func New(p Params) (*Client, error) {
	if p.Chain == nil || p.Sender == nil || p.Signer == nil {
		return nil, errs.New(errs.KindUnknown, "chain, sender and signer are required")
	}
	if p.ProgramID.IsZero() {
		return nil, errs.New(errs.KindUnknown, "launchpad program id is required")
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.ComputeUnits == 0 {
		p.ComputeUnits = txbuilder.DefaultComputeUnits
	}
	if p.PriorityPrice == 0 {
		p.PriorityPrice = txbuilder.DefaultPriorityPrice
	}

	resolver := addrs.New(p.ProgramID, p.CpmmProgramID)
	logger := p.Logger.Named("launchpad")

	return &Client{
		chain:         p.Chain,
		sender:        p.Sender,
		signer:        p.Signer,
		resolver:      resolver,
		fetcher:       state.NewFetcher(p.Chain, resolver, logger),
		logger:        logger,
		computeUnits:  p.ComputeUnits,
		priorityPrice: p.PriorityPrice,
	}, nil
}

// opLogger возвращает логгер операции с корреляционным идентификатором.
func (c *Client) opLogger(operation string) *zap.Logger {
	return c.logger.With(
		zap.String("operation", operation),
		zap.String("operation_id", uuid.NewString()),
	)
}

// checkReady отклоняет операцию, если кошелёк не подключён.
func (c *Client) checkReady() error {
	if c.signer == nil || !c.signer.Ready() {
		return errs.New(errs.KindWalletNotConnected, "wallet is not connected")
	}
	return nil
}

// newBuilder собирает txbuilder для одной операции.
func (c *Client) newBuilder(logger *zap.Logger) *txbuilder.Builder {
	b := txbuilder.New(c.chain, c.sender, c.signer, logger)
	b.SetComputeBudget(c.computeUnits, c.priorityPrice)
	return b
}

// tokenBalance возвращает баланс ATA владельца в raw-единицах; отсутствие
// счёта — нулевой баланс, не ошибка.
func (c *Client) tokenBalance(ctx context.Context, owner, mint solana.PublicKey) (uint64, error) {
	ata, err := addrs.ATA(owner, mint)
	if err != nil {
		return 0, err
	}
	exists, err := c.chain.AccountExists(ctx, ata)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	return c.chain.TokenAccountBalance(ctx, ata)
}

// Balances возвращает балансы подписанта в стейблкоине и токене пула.
func (c *Client) Balances(ctx context.Context, tokenMint, stableMint solana.PublicKey) (token, stable uint64, err error) {
	if err := c.checkReady(); err != nil {
		return 0, 0, err
	}
	owner := c.signer.Pubkey()
	if token, err = c.tokenBalance(ctx, owner, tokenMint); err != nil {
		return 0, 0, errs.Normalize(err)
	}
	if stable, err = c.tokenBalance(ctx, owner, stableMint); err != nil {
		return 0, 0, errs.Normalize(err)
	}
	return token, stable, nil
}

// mulBps возвращает v*bps/10000 без переполнения; bps <= 10000.
func mulBps(v uint64, bps uint16) uint64 {
	hi, lo := bits.Mul64(v, uint64(bps))
	q, _ := bits.Div64(hi, lo, 10_000)
	return q
}

// addSlippage — верхняя граница затрат при данном допуске.
func addSlippage(v uint64, slippageBps uint16) uint64 {
	extra := mulBps(v, slippageBps)
	if v+extra < v {
		return ^uint64(0)
	}
	return v + extra
}

// subSlippage — нижняя граница выручки при данном допуске.
func subSlippage(v uint64, slippageBps uint16) uint64 {
	return v - mulBps(v, slippageBps)
}

// validSlippage проверяет допуск: больше 100% не имеет смысла.
func validSlippage(slippageBps uint16) error {
	if slippageBps > 10_000 {
		return errs.New(errs.KindInvalidAmount, "slippage tolerance above 100%")
	}
	return nil
}
