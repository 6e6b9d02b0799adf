// =============================
// File: internal/launchpad/quotes.go
// =============================
package launchpad

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/curve"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/state"
)

// Котировки никогда не возвращают ошибку: сломанная котировка не должна
// блокировать интерфейс, программа всё равно перепроверит сделку on-chain.
// Любая неудача деградирует до нулевого результата.

// QuoteBuy котирует покупку за stableIn стейблкоина по свежему снимку пула.
func (c *Client) QuoteBuy(ctx context.Context, tokenMint solana.PublicKey, stableIn uint64) curve.Quote {
	pool, ok := c.quotePool(ctx, tokenMint)
	if !ok {
		return curve.Quote{PriceImpact: decimal.Zero}
	}
	return curve.BuyQuote(pool, stableIn)
}

// QuoteSell котирует продажу tokenIn токенов.
func (c *Client) QuoteSell(ctx context.Context, tokenMint solana.PublicKey, tokenIn uint64) curve.Quote {
	pool, ok := c.quotePool(ctx, tokenMint)
	if !ok {
		return curve.Quote{PriceImpact: decimal.Zero}
	}
	return curve.SellQuote(pool, tokenIn)
}

// Price возвращает текущую цену токена в стейблкоине за целый токен.
func (c *Client) Price(ctx context.Context, tokenMint solana.PublicKey) decimal.Decimal {
	pool, ok := c.quotePool(ctx, tokenMint)
	if !ok {
		return decimal.Zero
	}
	return curve.CurrentPrice(pool)
}

// Progress возвращает прогресс пула в процентах [0, 100].
func (c *Client) Progress(ctx context.Context, tokenMint solana.PublicKey) decimal.Decimal {
	pool, ok := c.quotePool(ctx, tokenMint)
	if !ok {
		return decimal.Zero
	}
	return curve.Progress(pool)
}

func (c *Client) quotePool(ctx context.Context, tokenMint solana.PublicKey) (*state.Pool, bool) {
	pool, ok, err := c.fetcher.TryPool(ctx, tokenMint)
	if err != nil {
		c.logger.Debug("Quote degraded to zero, pool fetch failed",
			zap.String("token_mint", tokenMint.String()),
			zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return pool, true
}

// ClaimPreview возвращает pro-rata долю подписанта в исполненной
// коллективной покупке; 0, если делить нечего.
func (c *Client) ClaimPreview(ctx context.Context, tokenMint solana.PublicKey) uint64 {
	if c.signer == nil || !c.signer.Ready() {
		return 0
	}
	bundle, ok, err := c.fetcher.TryBundleBuyPool(ctx, tokenMint)
	if err != nil || !ok {
		return 0
	}
	deposit, ok, err := c.fetcher.TryBundleDeposit(ctx, tokenMint, c.signer.Pubkey())
	if err != nil || !ok {
		return 0
	}
	return deposit.Share(bundle)
}

// LockedInfo — снимок заблокированных токенов подписанта для отображения.
type LockedInfo struct {
	Locked  uint64
	Claimed uint64
}

// Locked возвращает, сколько токенов ещё удержано лимитами и сколько уже
// разблокировано.
func (c *Client) Locked(ctx context.Context, tokenMint solana.PublicKey) LockedInfo {
	if c.signer == nil || !c.signer.Ready() {
		return LockedInfo{}
	}
	locked, ok, err := c.fetcher.TryLockedTokens(ctx, tokenMint, c.signer.Pubkey())
	if err != nil || !ok {
		return LockedInfo{}
	}
	return LockedInfo{Locked: locked.Amount, Claimed: locked.Claimed()}
}
