// ==============================================
// File: internal/launchpad/instructions/instructions.go
// ==============================================

// Package instructions encodes calls to the launchpad program: an 8-byte
// discriminator followed by borsh-encoded arguments, with accounts listed in
// the exact order the program declares them.
package instructions

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/addrs"
)

// Instruction discriminators of the launchpad program.
var (
	createPoolDiscriminator         = []byte{0xe9, 0x92, 0x3c, 0x1d, 0x66, 0x2a, 0xcf, 0x55}
	buyDiscriminator                = []byte{0x66, 0x06, 0x3d, 0x12, 0x01, 0xda, 0xeb, 0xea}
	sellDiscriminator               = []byte{0x33, 0xe6, 0x85, 0xa4, 0x01, 0x7f, 0x83, 0xad}
	depositBundleDiscriminator      = []byte{0x54, 0xf1, 0x27, 0x9e, 0x2b, 0x8c, 0x10, 0x43}
	withdrawBundleDiscriminator     = []byte{0xb7, 0x12, 0x46, 0x9c, 0x94, 0x6d, 0xa1, 0x22}
	executeBundleBuyDiscriminator   = []byte{0x27, 0x3c, 0xbf, 0x0e, 0x61, 0x55, 0x8d, 0xd0}
	claimDiscriminator              = []byte{0x3e, 0xc6, 0xd6, 0xc1, 0xd5, 0x9f, 0x6c, 0xd2}
	claimLockedDiscriminator        = []byte{0x8d, 0xa5, 0x9f, 0x62, 0x31, 0x5c, 0x2b, 0x7a}
	finalizeDiscriminator           = []byte{0xaa, 0x7e, 0x14, 0xc9, 0x5e, 0x0c, 0x44, 0xd1}
	createExternalPoolDiscriminator = []byte{0x4f, 0x23, 0x9b, 0x1a, 0xd7, 0x7d, 0x02, 0x96}
)

// encodeData сериализует discriminator + аргументы. Для args == nil
// записывается только discriminator.
func encodeData(discriminator []byte, args interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(discriminator)
	if args != nil {
		if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
			return nil, fmt.Errorf("encode instruction args: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// CreatePoolParams — аргументы создания пула.
type CreatePoolParams struct {
	TotalSellAmount      uint64
	VirtualTokenReserve  uint64
	VirtualStableReserve uint64
	BuyTaxBps            uint16
	SellTaxBps           uint16
}

// CreatePool builds the pool-creation instruction. The token mint is a fresh
// keypair and co-signs the transaction.
func CreatePool(
	r *addrs.Resolver,
	creator, tokenMint, stableMint solana.PublicKey,
	params CreatePoolParams,
) (solana.Instruction, error) {
	data, err := encodeData(createPoolDiscriminator, params)
	if err != nil {
		return nil, err
	}

	globalState, err := r.GlobalState()
	if err != nil {
		return nil, err
	}
	pool, err := r.Pool(tokenMint)
	if err != nil {
		return nil, err
	}
	poolAuthority, err := r.PoolAuthority(tokenMint)
	if err != nil {
		return nil, err
	}
	eventAuthority, err := r.EventAuthority()
	if err != nil {
		return nil, err
	}
	poolTokenVault, err := addrs.ATA(poolAuthority, tokenMint)
	if err != nil {
		return nil, err
	}
	poolStableVault, err := addrs.ATA(poolAuthority, stableMint)
	if err != nil {
		return nil, err
	}

	// Account list must be in the exact order expected by the program.
	insAccounts := []*solana.AccountMeta{
		{PublicKey: globalState, IsSigner: false, IsWritable: true},
		{PublicKey: pool, IsSigner: false, IsWritable: true},
		{PublicKey: poolAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: tokenMint, IsSigner: true, IsWritable: true},
		{PublicKey: stableMint, IsSigner: false, IsWritable: false},
		{PublicKey: poolTokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: poolStableVault, IsSigner: false, IsWritable: true},
		{PublicKey: creator, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		{PublicKey: eventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: r.ProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(r.ProgramID, insAccounts, data), nil
}

// tradeAccounts — общая часть списков аккаунтов buy и sell. Отличается
// только ATA получателя налога: при покупке налог берётся в токенах, при
// продаже — тоже в токенах, но со входа, поэтому счёт один и тот же.
func tradeAccounts(
	r *addrs.Resolver,
	user, tokenMint, stableMint, feeReceiver, taxReceiver solana.PublicKey,
) ([]*solana.AccountMeta, error) {
	globalState, err := r.GlobalState()
	if err != nil {
		return nil, err
	}
	pool, err := r.Pool(tokenMint)
	if err != nil {
		return nil, err
	}
	poolAuthority, err := r.PoolAuthority(tokenMint)
	if err != nil {
		return nil, err
	}
	walletLimit, err := r.WalletLimit(tokenMint, user)
	if err != nil {
		return nil, err
	}
	lockedTokens, err := r.LockedTokens(tokenMint, user)
	if err != nil {
		return nil, err
	}
	eventAuthority, err := r.EventAuthority()
	if err != nil {
		return nil, err
	}
	poolTokenVault, err := addrs.ATA(poolAuthority, tokenMint)
	if err != nil {
		return nil, err
	}
	poolStableVault, err := addrs.ATA(poolAuthority, stableMint)
	if err != nil {
		return nil, err
	}
	userTokenAccount, err := addrs.ATA(user, tokenMint)
	if err != nil {
		return nil, err
	}
	userStableAccount, err := addrs.ATA(user, stableMint)
	if err != nil {
		return nil, err
	}
	feeReceiverAccount, err := addrs.ATA(feeReceiver, stableMint)
	if err != nil {
		return nil, err
	}
	taxReceiverAccount, err := addrs.ATA(taxReceiver, tokenMint)
	if err != nil {
		return nil, err
	}

	// Account list must be in the exact order expected by the program.
	return []*solana.AccountMeta{
		{PublicKey: globalState, IsSigner: false, IsWritable: false},
		{PublicKey: feeReceiverAccount, IsSigner: false, IsWritable: true},
		{PublicKey: taxReceiverAccount, IsSigner: false, IsWritable: true},
		{PublicKey: pool, IsSigner: false, IsWritable: true},
		{PublicKey: poolAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: tokenMint, IsSigner: false, IsWritable: false},
		{PublicKey: stableMint, IsSigner: false, IsWritable: false},
		{PublicKey: poolTokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: poolStableVault, IsSigner: false, IsWritable: true},
		{PublicKey: userTokenAccount, IsSigner: false, IsWritable: true},
		{PublicKey: userStableAccount, IsSigner: false, IsWritable: true},
		{PublicKey: walletLimit, IsSigner: false, IsWritable: true},
		{PublicKey: lockedTokens, IsSigner: false, IsWritable: true},
		{PublicKey: user, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: eventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: r.ProgramID, IsSigner: false, IsWritable: false},
	}, nil
}

type buyArgs struct {
	TokenAmount   uint64
	MaxStableCost uint64
}

// Buy builds a buy instruction: the user pays at most maxStableCost of the
// stable coin for tokenAmount of the project token.
func Buy(
	r *addrs.Resolver,
	user, tokenMint, stableMint, feeReceiver, taxReceiver solana.PublicKey,
	tokenAmount, maxStableCost uint64,
) (solana.Instruction, error) {
	data, err := encodeData(buyDiscriminator, buyArgs{
		TokenAmount:   tokenAmount,
		MaxStableCost: maxStableCost,
	})
	if err != nil {
		return nil, err
	}
	accounts, err := tradeAccounts(r, user, tokenMint, stableMint, feeReceiver, taxReceiver)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(r.ProgramID, accounts, data), nil
}

type sellArgs struct {
	TokenAmount  uint64
	MinStableOut uint64
}

// Sell builds a sell instruction: the user sells tokenAmount of the project
// token and receives at least minStableOut of the stable coin.
func Sell(
	r *addrs.Resolver,
	user, tokenMint, stableMint, feeReceiver, taxReceiver solana.PublicKey,
	tokenAmount, minStableOut uint64,
) (solana.Instruction, error) {
	data, err := encodeData(sellDiscriminator, sellArgs{
		TokenAmount:  tokenAmount,
		MinStableOut: minStableOut,
	})
	if err != nil {
		return nil, err
	}
	accounts, err := tradeAccounts(r, user, tokenMint, stableMint, feeReceiver, taxReceiver)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(r.ProgramID, accounts, data), nil
}

// bundleAccounts — общая часть deposit/withdraw. Вклад хранится в
// stable-ATA записи коллективной покупки.
func bundleAccounts(
	r *addrs.Resolver,
	user, tokenMint, stableMint solana.PublicKey,
) ([]*solana.AccountMeta, error) {
	pool, err := r.Pool(tokenMint)
	if err != nil {
		return nil, err
	}
	bundlePool, err := r.BundleBuyPool(tokenMint)
	if err != nil {
		return nil, err
	}
	bundleDeposit, err := r.BundleDeposit(tokenMint, user)
	if err != nil {
		return nil, err
	}
	eventAuthority, err := r.EventAuthority()
	if err != nil {
		return nil, err
	}
	bundleVault, err := addrs.ATA(bundlePool, stableMint)
	if err != nil {
		return nil, err
	}
	userStableAccount, err := addrs.ATA(user, stableMint)
	if err != nil {
		return nil, err
	}

	return []*solana.AccountMeta{
		{PublicKey: pool, IsSigner: false, IsWritable: false},
		{PublicKey: bundlePool, IsSigner: false, IsWritable: true},
		{PublicKey: bundleDeposit, IsSigner: false, IsWritable: true},
		{PublicKey: stableMint, IsSigner: false, IsWritable: false},
		{PublicKey: bundleVault, IsSigner: false, IsWritable: true},
		{PublicKey: userStableAccount, IsSigner: false, IsWritable: true},
		{PublicKey: user, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: eventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: r.ProgramID, IsSigner: false, IsWritable: false},
	}, nil
}

type bundleAmountArgs struct {
	Amount uint64
}

// DepositBundle builds a deposit into the pooled buy of the given pool.
func DepositBundle(
	r *addrs.Resolver,
	user, tokenMint, stableMint solana.PublicKey,
	amount uint64,
) (solana.Instruction, error) {
	data, err := encodeData(depositBundleDiscriminator, bundleAmountArgs{Amount: amount})
	if err != nil {
		return nil, err
	}
	accounts, err := bundleAccounts(r, user, tokenMint, stableMint)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(r.ProgramID, accounts, data), nil
}

// WithdrawBundle builds a withdrawal from the pooled buy. Only valid before
// the bundle is executed.
func WithdrawBundle(
	r *addrs.Resolver,
	user, tokenMint, stableMint solana.PublicKey,
	amount uint64,
) (solana.Instruction, error) {
	data, err := encodeData(withdrawBundleDiscriminator, bundleAmountArgs{Amount: amount})
	if err != nil {
		return nil, err
	}
	accounts, err := bundleAccounts(r, user, tokenMint, stableMint)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(r.ProgramID, accounts, data), nil
}

// ExecuteBundleBuy builds the one-shot pooled purchase: all deposited stable
// coin is swapped against the curve in a single trade.
func ExecuteBundleBuy(
	r *addrs.Resolver,
	executor, tokenMint, stableMint, feeReceiver solana.PublicKey,
) (solana.Instruction, error) {
	data, err := encodeData(executeBundleBuyDiscriminator, nil)
	if err != nil {
		return nil, err
	}

	globalState, err := r.GlobalState()
	if err != nil {
		return nil, err
	}
	pool, err := r.Pool(tokenMint)
	if err != nil {
		return nil, err
	}
	poolAuthority, err := r.PoolAuthority(tokenMint)
	if err != nil {
		return nil, err
	}
	bundlePool, err := r.BundleBuyPool(tokenMint)
	if err != nil {
		return nil, err
	}
	eventAuthority, err := r.EventAuthority()
	if err != nil {
		return nil, err
	}
	poolTokenVault, err := addrs.ATA(poolAuthority, tokenMint)
	if err != nil {
		return nil, err
	}
	poolStableVault, err := addrs.ATA(poolAuthority, stableMint)
	if err != nil {
		return nil, err
	}
	bundleStableVault, err := addrs.ATA(bundlePool, stableMint)
	if err != nil {
		return nil, err
	}
	bundleTokenVault, err := addrs.ATA(bundlePool, tokenMint)
	if err != nil {
		return nil, err
	}
	feeReceiverAccount, err := addrs.ATA(feeReceiver, stableMint)
	if err != nil {
		return nil, err
	}

	insAccounts := []*solana.AccountMeta{
		{PublicKey: globalState, IsSigner: false, IsWritable: false},
		{PublicKey: feeReceiverAccount, IsSigner: false, IsWritable: true},
		{PublicKey: pool, IsSigner: false, IsWritable: true},
		{PublicKey: poolAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: bundlePool, IsSigner: false, IsWritable: true},
		{PublicKey: tokenMint, IsSigner: false, IsWritable: false},
		{PublicKey: stableMint, IsSigner: false, IsWritable: false},
		{PublicKey: poolTokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: poolStableVault, IsSigner: false, IsWritable: true},
		{PublicKey: bundleStableVault, IsSigner: false, IsWritable: true},
		{PublicKey: bundleTokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: executor, IsSigner: true, IsWritable: true},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: eventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: r.ProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(r.ProgramID, insAccounts, data), nil
}

// Claim builds the pro-rata payout of an executed pooled buy to one
// depositor. The payout is in project tokens; the share itself is computed
// on-chain.
func Claim(
	r *addrs.Resolver,
	user, tokenMint solana.PublicKey,
) (solana.Instruction, error) {
	data, err := encodeData(claimDiscriminator, nil)
	if err != nil {
		return nil, err
	}

	pool, err := r.Pool(tokenMint)
	if err != nil {
		return nil, err
	}
	bundlePool, err := r.BundleBuyPool(tokenMint)
	if err != nil {
		return nil, err
	}
	bundleDeposit, err := r.BundleDeposit(tokenMint, user)
	if err != nil {
		return nil, err
	}
	eventAuthority, err := r.EventAuthority()
	if err != nil {
		return nil, err
	}
	bundleTokenVault, err := addrs.ATA(bundlePool, tokenMint)
	if err != nil {
		return nil, err
	}
	userTokenAccount, err := addrs.ATA(user, tokenMint)
	if err != nil {
		return nil, err
	}

	insAccounts := []*solana.AccountMeta{
		{PublicKey: pool, IsSigner: false, IsWritable: false},
		{PublicKey: bundlePool, IsSigner: false, IsWritable: true},
		{PublicKey: bundleDeposit, IsSigner: false, IsWritable: true},
		{PublicKey: tokenMint, IsSigner: false, IsWritable: false},
		{PublicKey: bundleTokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: userTokenAccount, IsSigner: false, IsWritable: true},
		{PublicKey: user, IsSigner: true, IsWritable: true},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: eventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: r.ProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(r.ProgramID, insAccounts, data), nil
}

// ClaimLocked builds the release of rate-limit-locked tokens to their owner.
func ClaimLocked(
	r *addrs.Resolver,
	user, tokenMint solana.PublicKey,
) (solana.Instruction, error) {
	data, err := encodeData(claimLockedDiscriminator, nil)
	if err != nil {
		return nil, err
	}

	pool, err := r.Pool(tokenMint)
	if err != nil {
		return nil, err
	}
	poolAuthority, err := r.PoolAuthority(tokenMint)
	if err != nil {
		return nil, err
	}
	lockedTokens, err := r.LockedTokens(tokenMint, user)
	if err != nil {
		return nil, err
	}
	eventAuthority, err := r.EventAuthority()
	if err != nil {
		return nil, err
	}
	poolTokenVault, err := addrs.ATA(poolAuthority, tokenMint)
	if err != nil {
		return nil, err
	}
	userTokenAccount, err := addrs.ATA(user, tokenMint)
	if err != nil {
		return nil, err
	}

	insAccounts := []*solana.AccountMeta{
		{PublicKey: pool, IsSigner: false, IsWritable: false},
		{PublicKey: poolAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: lockedTokens, IsSigner: false, IsWritable: true},
		{PublicKey: tokenMint, IsSigner: false, IsWritable: false},
		{PublicKey: poolTokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: userTokenAccount, IsSigner: false, IsWritable: true},
		{PublicKey: user, IsSigner: true, IsWritable: true},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: eventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: r.ProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(r.ProgramID, insAccounts, data), nil
}

// Finalize builds the creator-only transition of a completed pool: trading
// stops and the reserves are prepared for the external DEX.
func Finalize(
	r *addrs.Resolver,
	creator, tokenMint, stableMint, feeReceiver solana.PublicKey,
) (solana.Instruction, error) {
	data, err := encodeData(finalizeDiscriminator, nil)
	if err != nil {
		return nil, err
	}

	globalState, err := r.GlobalState()
	if err != nil {
		return nil, err
	}
	pool, err := r.Pool(tokenMint)
	if err != nil {
		return nil, err
	}
	poolAuthority, err := r.PoolAuthority(tokenMint)
	if err != nil {
		return nil, err
	}
	eventAuthority, err := r.EventAuthority()
	if err != nil {
		return nil, err
	}
	poolTokenVault, err := addrs.ATA(poolAuthority, tokenMint)
	if err != nil {
		return nil, err
	}
	poolStableVault, err := addrs.ATA(poolAuthority, stableMint)
	if err != nil {
		return nil, err
	}
	feeReceiverAccount, err := addrs.ATA(feeReceiver, stableMint)
	if err != nil {
		return nil, err
	}

	insAccounts := []*solana.AccountMeta{
		{PublicKey: globalState, IsSigner: false, IsWritable: false},
		{PublicKey: pool, IsSigner: false, IsWritable: true},
		{PublicKey: poolAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: tokenMint, IsSigner: false, IsWritable: false},
		{PublicKey: stableMint, IsSigner: false, IsWritable: false},
		{PublicKey: poolTokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: poolStableVault, IsSigner: false, IsWritable: true},
		{PublicKey: feeReceiverAccount, IsSigner: false, IsWritable: true},
		{PublicKey: creator, IsSigner: true, IsWritable: true},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: eventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: r.ProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(r.ProgramID, insAccounts, data), nil
}

// CreateExternalPool builds the cross-program call that moves a finalized
// pool's liquidity into the external CPMM DEX. The vault accounts follow the
// canonical mint order of the CPMM set, not the pool's own base/quote order.
func CreateExternalPool(
	r *addrs.Resolver,
	creator, tokenMint, stableMint, ammConfig solana.PublicKey,
	cpmm *addrs.CpmmSet,
) (solana.Instruction, error) {
	data, err := encodeData(createExternalPoolDiscriminator, nil)
	if err != nil {
		return nil, err
	}

	globalState, err := r.GlobalState()
	if err != nil {
		return nil, err
	}
	pool, err := r.Pool(tokenMint)
	if err != nil {
		return nil, err
	}
	poolAuthority, err := r.PoolAuthority(tokenMint)
	if err != nil {
		return nil, err
	}
	eventAuthority, err := r.EventAuthority()
	if err != nil {
		return nil, err
	}
	poolTokenVault, err := addrs.ATA(poolAuthority, tokenMint)
	if err != nil {
		return nil, err
	}
	poolStableVault, err := addrs.ATA(poolAuthority, stableMint)
	if err != nil {
		return nil, err
	}
	creatorLpAccount, err := addrs.ATA(creator, cpmm.LpMint)
	if err != nil {
		return nil, err
	}

	insAccounts := []*solana.AccountMeta{
		{PublicKey: globalState, IsSigner: false, IsWritable: false},
		{PublicKey: pool, IsSigner: false, IsWritable: true},
		{PublicKey: poolAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: tokenMint, IsSigner: false, IsWritable: false},
		{PublicKey: stableMint, IsSigner: false, IsWritable: false},
		{PublicKey: poolTokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: poolStableVault, IsSigner: false, IsWritable: true},
		{PublicKey: r.CpmmProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: ammConfig, IsSigner: false, IsWritable: false},
		{PublicKey: cpmm.Authority, IsSigner: false, IsWritable: false},
		{PublicKey: cpmm.PoolState, IsSigner: false, IsWritable: true},
		{PublicKey: cpmm.Order.First, IsSigner: false, IsWritable: false},
		{PublicKey: cpmm.Order.Second, IsSigner: false, IsWritable: false},
		{PublicKey: cpmm.FirstVault, IsSigner: false, IsWritable: true},
		{PublicKey: cpmm.SecondVault, IsSigner: false, IsWritable: true},
		{PublicKey: cpmm.LpMint, IsSigner: false, IsWritable: true},
		{PublicKey: cpmm.Observation, IsSigner: false, IsWritable: true},
		{PublicKey: creatorLpAccount, IsSigner: false, IsWritable: true},
		{PublicKey: creator, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		{PublicKey: eventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: r.ProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(r.ProgramID, insAccounts, data), nil
}
