// =============================
// File: internal/launchpad/finalize.go
// =============================
package launchpad

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/errs"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/instructions"
)

// Finalize — одноразовый переход завершённого пула: торговля по кривой
// останавливается, резервы готовятся к переносу во внешний DEX. Доступно
// только создателю пула.
func (c *Client) Finalize(ctx context.Context, tokenMint solana.PublicKey) (solana.Signature, error) {
	if err := c.checkReady(); err != nil {
		return solana.Signature{}, err
	}
	log := c.opLogger("finalize")

	tc, err := c.fetcher.FetchTradeContext(ctx, tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if !tc.Pool.Creator.Equals(c.signer.Pubkey()) {
		return solana.Signature{}, errs.New(errs.KindUnauthorized, "only the pool creator can finalize")
	}
	if !tc.Pool.Complete {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "pool has not completed its bonding curve yet")
	}
	if tc.Pool.Finalized {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "pool is already finalized")
	}

	log.Info("Finalizing pool", zap.String("token_mint", tokenMint.String()))

	ix, err := instructions.Finalize(c.resolver, c.signer.Pubkey(), tokenMint,
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
	log.Info("Pool finalized", zap.String("signature", sig.String()))
	return sig, nil
}

// CreateExternalPool — второй шаг перехода: создание пула во внешнем CPMM
// DEX из резервов финализированного пула. Отдельная операция от Finalize:
// если этот шаг упал после успешной финализации, компенсирующего отката
// нет — его просто повторяют.
func (c *Client) CreateExternalPool(ctx context.Context, tokenMint, ammConfig solana.PublicKey) (solana.Signature, error) {
	if err := c.checkReady(); err != nil {
		return solana.Signature{}, err
	}
	if c.resolver.CpmmProgramID.IsZero() {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "external DEX program is not configured")
	}
	log := c.opLogger("create_external_pool")

	tc, err := c.fetcher.FetchTradeContext(ctx, tokenMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	if !tc.Pool.Creator.Equals(c.signer.Pubkey()) {
		return solana.Signature{}, errs.New(errs.KindUnauthorized, "only the pool creator can create the external pool")
	}
	if !tc.Pool.Finalized {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "pool must be finalized first")
	}
	if tc.Pool.CpmmInitialized {
		return solana.Signature{}, errs.New(errs.KindStateConflict, "external pool already exists")
	}
	if !tc.Config.AllowsRouter(c.resolver.CpmmProgramID) {
		return solana.Signature{}, errs.New(errs.KindUnauthorized, "external DEX program is not on the protocol allow-list")
	}

	cpmm, err := c.resolver.DeriveCpmmSet(ammConfig, tokenMint, tc.Pool.StableMint)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	log.Info("Creating external pool",
		zap.String("token_mint", tokenMint.String()),
		zap.String("cpmm_pool_state", cpmm.PoolState.String()),
		zap.Bool("token_is_first", cpmm.Order.BaseIsFirst))

	ix, err := instructions.CreateExternalPool(c.resolver, c.signer.Pubkey(), tokenMint,
		tc.Pool.StableMint, ammConfig, cpmm)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}

	b := c.newBuilder(log)
	b.AddInstruction(ix)

	sig, err := b.BuildAndSend(ctx)
	if err != nil {
		return solana.Signature{}, errs.Normalize(err)
	}
	log.Info("External pool created", zap.String("signature", sig.String()))
	return sig, nil
}
