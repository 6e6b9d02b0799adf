// =============================
// File: internal/launchpad/bundle.go
// =============================
package launchpad

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/addrs"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/errs"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/instructions"
)

// DepositBundle вносит стейблкоин в коллективную покупку пула. Запись
// коллективной покупки создаётся программой при первом депозите.
func (c *Client) DepositBundle(ctx context.Context, tokenMint solana.PublicKey, amount uint64) (solana.Signature, error) {
	if err := c.checkReady(); err != nil {
		return solana.Signature{}, err
	}
	if amount == 0 {
		return solana.Signature{}, errs.New(errs.KindInvalidAmount, "amount must be positive")
	}
	log := c.opLogger("deposit_bundle")

	tc, err := c.fetcher.FetchTradeContext(ctx, tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if tc.Pool.Complete {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "pool has completed its bonding curve")
	}
	bundle, ok, err := c.fetcher.TryBundleBuyPool(ctx, tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if ok && bundle.Executed {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "bundle buy was already executed")
	}

	balance, err := c.tokenBalance(ctx, c.signer.Pubkey(), tc.Pool.StableMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if balance < amount {
		return solana.Signature{}, errs.New(errs.KindInsufficientBalance, "insufficient stable coin balance")
	}

	log.Info("Depositing into bundle",
		zap.String("token_mint", tokenMint.String()),
		zap.Uint64("amount", amount))

	ix, err := instructions.DepositBundle(c.resolver, c.signer.Pubkey(), tokenMint, tc.Pool.StableMint, amount)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	b := c.newBuilder(log)
	b.AddInstruction(ix)

	sig, err := b.BuildAndSend(ctx)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	log.Info("Bundle deposit confirmed", zap.String("signature", sig.String()))
	return sig, nil
}

// WithdrawBundle забирает часть вклада обратно. Возможно только до
// исполнения коллективной покупки.
func (c *Client) WithdrawBundle(ctx context.Context, tokenMint solana.PublicKey, amount uint64) (solana.Signature, error) {
	if err := c.checkReady(); err != nil {
		return solana.Signature{}, err
	}
	if amount == 0 {
		return solana.Signature{}, errs.New(errs.KindInvalidAmount, "amount must be positive")
	}
	log := c.opLogger("withdraw_bundle")

	bundle, ok, err := c.fetcher.TryBundleBuyPool(ctx, tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if !ok {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "no bundle deposits for this pool")
	}
	if bundle.Executed {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "bundle buy was already executed, claim your share instead")
	}

	deposit, ok, err := c.fetcher.TryBundleDeposit(ctx, tokenMint, c.signer.Pubkey())
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if !ok || deposit.Amount == 0 {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "no deposit to withdraw")
	}
	if deposit.Amount < amount {
		return solana.Signature{}, errs.New(errs.KindInsufficientBalance, "withdrawal exceeds the deposited amount")
	}

	pool, ok, err := c.fetcher.TryPool(ctx, tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if !ok {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "pool not found")
	}

	log.Info("Withdrawing from bundle",
		zap.String("token_mint", tokenMint.String()),
		zap.Uint64("amount", amount),
		zap.Uint64("deposited", deposit.Amount))

	ix, err := instructions.WithdrawBundle(c.resolver, c.signer.Pubkey(), tokenMint, pool.StableMint, amount)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	b := c.newBuilder(log)
	b.AddInstruction(ix)

	sig, err := b.BuildAndSend(ctx)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	log.Info("Bundle withdrawal confirmed", zap.String("signature", sig.String()))
	return sig, nil
}

// ExecuteBundleBuy проводит единственную коллективную покупку: весь
// внесённый стейблкоин обменивается на токены одним трейдом. Переход
// необратим.
func (c *Client) ExecuteBundleBuy(ctx context.Context, tokenMint solana.PublicKey) (solana.Signature, error) {
	if err := c.checkReady(); err != nil {
		return solana.Signature{}, err
	}
	log := c.opLogger("execute_bundle_buy")

	tc, err := c.fetcher.FetchTradeContext(ctx, tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	bundle, ok, err := c.fetcher.TryBundleBuyPool(ctx, tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if !ok || bundle.TotalDeposited == 0 {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "bundle has no deposits to execute")
	}
	if bundle.Executed {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "bundle buy was already executed")
	}

	log.Info("Executing bundle buy",
		zap.String("token_mint", tokenMint.String()),
		zap.Uint64("total_deposited", bundle.TotalDeposited))

	ix, err := instructions.ExecuteBundleBuy(c.resolver, c.signer.Pubkey(), tokenMint,
		tc.Pool.StableMint, tc.Config.FeeReceiver)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	b := c.newBuilder(log)
	b.AddInstruction(ix)

	sig, err := b.BuildAndSend(ctx)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	log.Info("Bundle buy executed", zap.String("signature", sig.String()))
	return sig, nil
}

// Claim забирает pro-rata долю подписанта из исполненной коллективной
// покупки.
func (c *Client) Claim(ctx context.Context, tokenMint solana.PublicKey) (solana.Signature, error) {
	if err := c.checkReady(); err != nil {
		return solana.Signature{}, err
	}
	log := c.opLogger("claim")

	bundle, ok, err := c.fetcher.TryBundleBuyPool(ctx, tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if !ok || !bundle.Executed {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "bundle buy has not been executed yet")
	}
	deposit, ok, err := c.fetcher.TryBundleDeposit(ctx, tokenMint, c.signer.Pubkey())
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if !ok || deposit.Amount == 0 {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "nothing to claim")
	}

	log.Info("Claiming bundle share",
		zap.String("token_mint", tokenMint.String()),
		zap.Uint64("deposit", deposit.Amount),
		zap.Uint64("share", deposit.Share(bundle)))

	userTokenAccount, err := addrs.ATA(c.signer.Pubkey(), tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	b := c.newBuilder(log)
	if err := b.EnsureTokenAccount(ctx, userTokenAccount, c.signer.Pubkey(), tokenMint); err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	ix, err := instructions.Claim(c.resolver, c.signer.Pubkey(), tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	b.AddInstruction(ix)

	sig, err := b.BuildAndSend(ctx)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	log.Info("Bundle share claimed", zap.String("signature", sig.String()))
	return sig, nil
}
