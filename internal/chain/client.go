// internal/chain/client.go
package chain

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Client – тонкий адаптер над solana-go RPC. Никакого состояния, кроме
// соединения и логгера: все методы re-entrant.
type Client struct {
	rpc    *rpc.Client
	logger *zap.Logger
}

// NewClient создаёт клиент для заданного RPC URL.
func NewClient(rpcURL string, logger *zap.Logger) *Client {
	return &Client{
		rpc:    rpc.New(rpcURL),
		logger: logger.Named("chain"),
	}
}

// LatestBlockhash получает свежий blockhash (финализированный).
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		c.logger.Error("GetLatestBlockhash error", zap.Error(err))
		return solana.Hash{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	return result.Value.Blockhash, nil
}

type accountSnapshot struct {
	data []byte
	ok   bool
}

// AccountData возвращает сырые байты аккаунта; ok=false — аккаунта нет.
// Отсутствие аккаунта — нормальный типизированный исход, не ошибка.
// Транзиентные сбои RPC ретраятся: чтение идемпотентно.
func (c *Client) AccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, bool, error) {
	snap, err := RetryRead(ctx, 3, func() (accountSnapshot, error) {
		result, err := c.rpc.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
			Commitment: rpc.CommitmentConfirmed,
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			if errors.Is(err, rpc.ErrNotFound) {
				return accountSnapshot{}, nil
			}
			c.logger.Debug("GetAccountInfo error",
				zap.String("pubkey", pubkey.String()),
				zap.Error(err))
			return accountSnapshot{}, err
		}
		if result == nil || result.Value == nil {
			return accountSnapshot{}, nil
		}
		return accountSnapshot{data: result.Value.Data.GetBinary(), ok: true}, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("get account info: %w", err)
	}
	return snap.data, snap.ok, nil
}

// AccountExists проверяет существование аккаунта (например, ATA).
func (c *Client) AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error) {
	_, ok, err := c.AccountData(ctx, pubkey)
	return ok, err
}

// TokenAccountBalance возвращает баланс токен-аккаунта в raw-единицах.
// Сначала пробуем быстрый Processed, при неудаче — Confirmed.
func (c *Client) TokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	result, err := c.rpc.GetTokenAccountBalance(ctx, account, rpc.CommitmentProcessed)
	if err != nil {
		c.logger.Debug("Token balance with Processed failed, trying Confirmed",
			zap.String("account", account.String()),
			zap.Error(err))
		result, err = c.rpc.GetTokenAccountBalance(ctx, account, rpc.CommitmentConfirmed)
	}
	if err != nil {
		return 0, fmt.Errorf("get token account balance: %w", err)
	}
	if result == nil || result.Value == nil || result.Value.Amount == "" {
		return 0, fmt.Errorf("no token balance found for %s", account)
	}
	balance, err := strconv.ParseUint(result.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse token balance: %w", err)
	}
	return balance, nil
}

// SendTransaction отправляет подписанную транзакцию. Preflight-симуляция
// включена: логические ошибки отлавливаются до попадания в блок.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		c.logger.Error("SendTransaction error", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

// SimulationResult — исход dry-run транзакции.
type SimulationResult struct {
	Err           interface{}
	Logs          []string
	UnitsConsumed uint64
}

// SimulateTransaction выполняет dry-run без отправки.
func (c *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*SimulationResult, error) {
	result, err := c.rpc.SimulateTransaction(ctx, tx)
	if err != nil {
		c.logger.Error("SimulateTransaction error", zap.Error(err))
		return nil, fmt.Errorf("simulate transaction: %w", err)
	}
	units := uint64(0)
	if result.Value.UnitsConsumed != nil {
		units = *result.Value.UnitsConsumed
	}
	return &SimulationResult{
		Err:           result.Value.Err,
		Logs:          result.Value.Logs,
		UnitsConsumed: units,
	}, nil
}

// SignatureStatus возвращает статус подписи или nil, если записи нет.
// searchHistory=true заглядывает за пределы недавнего кеша статусов —
// именно так различается «потерялось подтверждение» и «не попало в блок».
func (c *Client) SignatureStatus(ctx context.Context, sig solana.Signature, searchHistory bool) (*rpc.SignatureStatusesResult, error) {
	result, err := c.rpc.GetSignatureStatuses(ctx, searchHistory, sig)
	if err != nil {
		return nil, fmt.Errorf("get signature statuses: %w", err)
	}
	if result == nil || len(result.Value) == 0 || result.Value[0] == nil {
		return nil, nil
	}
	return result.Value[0], nil
}
