// =============================
// File: internal/launchpad/trade.go
// =============================
package launchpad

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/addrs"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/curve"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/errs"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/instructions"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/state"
	"github.com/rovshanmuradov/launchpad-client/internal/numeric"
)

// CreatePoolParams — параметры нового пула bonding curve.
type CreatePoolParams struct {
	StableMint           solana.PublicKey
	TotalSellAmount      uint64
	VirtualTokenReserve  uint64
	VirtualStableReserve uint64
	BuyTaxBps            uint16
	SellTaxBps           uint16
}

// CreatePool создаёт новый пул с новым токен-минтом. Минт генерируется
// здесь и со-подписывает транзакцию; его адрес возвращается вызывающему.
func (c *Client) CreatePool(ctx context.Context, params CreatePoolParams) (solana.PublicKey, solana.Signature, error) {
	if err := c.checkReady(); err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}
	log := c.opLogger("create_pool")

	if params.TotalSellAmount == 0 {
		return solana.PublicKey{}, solana.Signature{}, errs.New(errs.KindInvalidAmount, "total sell amount must be positive")
	}

	cfg, err := c.fetcher.GlobalConfig(ctx)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, errs.Normalize(err)
	}
	if !cfg.AllowsStable(params.StableMint) {
		return solana.PublicKey{}, solana.Signature{}, errs.New(errs.KindInvalidAmount, "stable coin is not accepted by the protocol")
	}

	mint := solana.NewWallet()
	log.Info("Creating pool",
		zap.String("token_mint", mint.PublicKey().String()),
		zap.String("stable_mint", params.StableMint.String()),
		zap.Uint64("total_sell_amount", params.TotalSellAmount))

	ix, err := instructions.CreatePool(c.resolver, c.signer.Pubkey(), mint.PublicKey(), params.StableMint,
		instructions.CreatePoolParams{
			TotalSellAmount:      params.TotalSellAmount,
			VirtualTokenReserve:  params.VirtualTokenReserve,
			VirtualStableReserve: params.VirtualStableReserve,
			BuyTaxBps:            params.BuyTaxBps,
			SellTaxBps:           params.SellTaxBps,
		})
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, errs.Normalize(err)
	}

	b := c.newBuilder(log)
	b.AddInstruction(ix)
	b.AddSigner(mint.PrivateKey)

	sig, err := b.BuildAndSend(ctx)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, errs.Normalize(err)
	}
	log.Info("Pool created", zap.String("signature", sig.String()))
	return mint.PublicKey(), sig, nil
}

// Buy покупает токены за стейблкоин. stableIn — raw-сумма затрат,
// slippageBps — допустимое удорожание между котировкой и исполнением.
func (c *Client) Buy(ctx context.Context, tokenMint solana.PublicKey, stableIn uint64, slippageBps uint16) (solana.Signature, error) {
	if err := c.checkReady(); err != nil {
		return solana.Signature{}, err
	}
	if stableIn == 0 {
		return solana.Signature{}, errs.New(errs.KindInvalidAmount, "amount must be positive")
	}
	if err := validSlippage(slippageBps); err != nil {
		return solana.Signature{}, err
	}
	log := c.opLogger("buy")

	// Свежий снимок прямо перед сборкой: резервы меняются каждым трейдом.
	tc, err := c.fetcher.FetchTradeContext(ctx, tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if tc.Pool.Complete {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "pool has completed its bonding curve, trade on the external DEX")
	}

	quote := curve.BuyQuote(tc.Pool, stableIn)
	if quote.AmountOut == 0 {
		return solana.Signature{}, errs.New(errs.KindInsufficientLiquidity, "pool cannot satisfy the requested trade")
	}

	balance, err := c.tokenBalance(ctx, c.signer.Pubkey(), tc.Pool.StableMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	maxStableCost := addSlippage(stableIn, slippageBps)
	if balance < stableIn {
		return solana.Signature{}, errs.New(errs.KindInsufficientBalance, "insufficient stable coin balance")
	}

	log.Info("Buying",
		zap.String("token_mint", tokenMint.String()),
		zap.Uint64("stable_in", stableIn),
		zap.Uint64("tokens_out", quote.AmountOut),
		zap.Uint64("max_stable_cost", maxStableCost),
		zap.String("price_impact", quote.PriceImpact.StringFixed(2)))

	userTokenAccount, err := addrs.ATA(c.signer.Pubkey(), tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	b := c.newBuilder(log)
	if err := b.EnsureTokenAccount(ctx, userTokenAccount, c.signer.Pubkey(), tokenMint); err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	ix, err := instructions.Buy(c.resolver, c.signer.Pubkey(), tokenMint, tc.Pool.StableMint,
		tc.Config.FeeReceiver, tc.Pool.TaxReceiver, quote.AmountOut, maxStableCost)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	b.AddInstruction(ix)

	sig, err := b.BuildAndSend(ctx)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	log.Info("Buy confirmed", zap.String("signature", sig.String()))
	return sig, nil
}

// Sell продаёт токены за стейблкоин. tokenIn — raw-количество токенов,
// slippageBps — допустимое снижение выручки.
func (c *Client) Sell(ctx context.Context, tokenMint solana.PublicKey, tokenIn uint64, slippageBps uint16) (solana.Signature, error) {
	if err := c.checkReady(); err != nil {
		return solana.Signature{}, err
	}
	if tokenIn == 0 {
		return solana.Signature{}, errs.New(errs.KindInvalidAmount, "amount must be positive")
	}
	if err := validSlippage(slippageBps); err != nil {
		return solana.Signature{}, err
	}
	log := c.opLogger("sell")

	tc, err := c.fetcher.FetchTradeContext(ctx, tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if tc.Pool.Complete {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "pool has completed its bonding curve, trade on the external DEX")
	}

	quote := curve.SellQuote(tc.Pool, tokenIn)
	if quote.AmountOut == 0 {
		return solana.Signature{}, errs.New(errs.KindInsufficientLiquidity, "pool cannot satisfy the requested trade")
	}
	minStableOut := subSlippage(quote.AmountOut, slippageBps)

	balance, err := c.tokenBalance(ctx, c.signer.Pubkey(), tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if balance < tokenIn {
		return solana.Signature{}, errs.New(errs.KindInsufficientBalance, "insufficient token balance")
	}

	log.Info("Selling",
		zap.String("token_mint", tokenMint.String()),
		zap.Uint64("token_in", tokenIn),
		zap.Uint64("stable_out", quote.AmountOut),
		zap.Uint64("min_stable_out", minStableOut),
		zap.String("price_impact", quote.PriceImpact.StringFixed(2)))

	userStableAccount, err := addrs.ATA(c.signer.Pubkey(), tc.Pool.StableMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	b := c.newBuilder(log)
	if err := b.EnsureTokenAccount(ctx, userStableAccount, c.signer.Pubkey(), tc.Pool.StableMint); err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	ix, err := instructions.Sell(c.resolver, c.signer.Pubkey(), tokenMint, tc.Pool.StableMint,
		tc.Config.FeeReceiver, tc.Pool.TaxReceiver, tokenIn, minStableOut)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	b.AddInstruction(ix)

	sig, err := b.BuildAndSend(ctx)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	log.Info("Sell confirmed", zap.String("signature", sig.String()))
	return sig, nil
}

// BuyHuman — как Buy, но принимает сумму стейблкоина в человеко-читаемом
// виде ("12.5" вместо raw-единиц).
func (c *Client) BuyHuman(ctx context.Context, tokenMint solana.PublicKey, stableIn string, slippageBps uint16) (solana.Signature, error) {
	raw, err := numeric.ToRaw(stableIn, state.StableDecimals)
	if err != nil {
		return solana.Signature{}, errs.Wrap(errs.KindInvalidAmount, "invalid stable amount", err)
	}
	return c.Buy(ctx, tokenMint, raw, slippageBps)
}

// SellHuman — как Sell, но принимает количество токенов в человеко-читаемом
// виде.
func (c *Client) SellHuman(ctx context.Context, tokenMint solana.PublicKey, tokenIn string, slippageBps uint16) (solana.Signature, error) {
	raw, err := numeric.ToRaw(tokenIn, state.TokenDecimals)
	if err != nil {
		return solana.Signature{}, errs.Wrap(errs.KindInvalidAmount, "invalid token amount", err)
	}
	return c.Sell(ctx, tokenMint, raw, slippageBps)
}

// ClaimLocked забирает токены, удержанные лимитами кошелька на момент
// покупки.
func (c *Client) ClaimLocked(ctx context.Context, tokenMint solana.PublicKey) (solana.Signature, error) {
	if err := c.checkReady(); err != nil {
		return solana.Signature{}, err
	}
	log := c.opLogger("claim_locked")

	locked, ok, err := c.fetcher.TryLockedTokens(ctx, tokenMint, c.signer.Pubkey())
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if !ok || locked.Amount == 0 {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "nothing to claim")
	}

	log.Info("Claiming locked tokens",
		zap.String("token_mint", tokenMint.String()),
		zap.Uint64("amount", locked.Amount))

	userTokenAccount, err := addrs.ATA(c.signer.Pubkey(), tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	b := c.newBuilder(log)
	if err := b.EnsureTokenAccount(ctx, userTokenAccount, c.signer.Pubkey(), tokenMint); err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	ix, err := instructions.ClaimLocked(c.resolver, c.signer.Pubkey(), tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	b.AddInstruction(ix)

	sig, err := b.BuildAndSend(ctx)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	log.Info("Locked tokens claimed", zap.String("signature", sig.String()))
	return sig, nil
}
