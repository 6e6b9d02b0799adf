// =============================
// File: internal/launchpad/addrs/addrs.go
// =============================

// Package addrs centralises every account-address derivation the client
// needs. All derivations are pure: identical seeds always produce identical
// addresses, so no other package is allowed to call FindProgramAddress
// directly.
package addrs

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// PDA seeds of the launchpad program.
const (
	seedGlobalState    = "global_state"
	seedPool           = "pool"
	seedPoolAuthority  = "pool_authority"
	seedBundlePool     = "bundle_pool"
	seedBundleDeposit  = "bundle_deposit"
	seedWalletLimit    = "wallet_limit"
	seedLockedTokens   = "locked_tokens"
	seedEventAuthority = "__event_authority"
)

// CPMM (external DEX) seeds, per the Raydium-CPMM layout.
const (
	seedCpmmAuthority   = "vault_and_lp_mint_auth_seed"
	seedCpmmPool        = "pool"
	seedCpmmVault       = "pool_vault"
	seedCpmmLpMint      = "pool_lp_mint"
	seedCpmmObservation = "observation"
)

// Resolver derives every PDA from the two program identities. It keeps no
// other state and is safe to share across goroutines.
type Resolver struct {
	ProgramID     solana.PublicKey
	CpmmProgramID solana.PublicKey
}

// New создаёт Resolver для заданных программ.
func New(programID, cpmmProgramID solana.PublicKey) *Resolver {
	return &Resolver{ProgramID: programID, CpmmProgramID: cpmmProgramID}
}

func (r *Resolver) derive(seeds ...[]byte) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(seeds, r.ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive pda: %w", err)
	}
	return addr, nil
}

// GlobalState — синглтон конфигурации протокола.
func (r *Resolver) GlobalState() (solana.PublicKey, error) {
	return r.derive([]byte(seedGlobalState))
}

// EventAuthority — учётная запись событий Anchor-программы.
func (r *Resolver) EventAuthority() (solana.PublicKey, error) {
	return r.derive([]byte(seedEventAuthority))
}

// Pool — запись пула bonding curve для данного минта.
func (r *Resolver) Pool(mint solana.PublicKey) (solana.PublicKey, error) {
	return r.derive([]byte(seedPool), mint.Bytes())
}

// PoolAuthority — кастодиальный authority пула (владеет его токен-аккаунтами).
func (r *Resolver) PoolAuthority(mint solana.PublicKey) (solana.PublicKey, error) {
	return r.derive([]byte(seedPoolAuthority), mint.Bytes())
}

// BundleBuyPool — запись коллективной покупки пула.
func (r *Resolver) BundleBuyPool(mint solana.PublicKey) (solana.PublicKey, error) {
	return r.derive([]byte(seedBundlePool), mint.Bytes())
}

// BundleDeposit — вклад пользователя в коллективную покупку.
func (r *Resolver) BundleDeposit(mint, user solana.PublicKey) (solana.PublicKey, error) {
	return r.derive([]byte(seedBundleDeposit), mint.Bytes(), user.Bytes())
}

// WalletLimit — запись лимита кошелька для пары (пул, пользователь).
func (r *Resolver) WalletLimit(mint, user solana.PublicKey) (solana.PublicKey, error) {
	return r.derive([]byte(seedWalletLimit), mint.Bytes(), user.Bytes())
}

// LockedTokens — запись заблокированных токенов пользователя.
func (r *Resolver) LockedTokens(mint, user solana.PublicKey) (solana.PublicKey, error) {
	return r.derive([]byte(seedLockedTokens), mint.Bytes(), user.Bytes())
}

// ATA возвращает ассоциированный токен-аккаунт владельца для минта.
func ATA(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive ata: %w", err)
	}
	return ata, nil
}

// MintOrder — каноничный порядок пары минтов для CPMM-адресов.
// Порядок вычисляется один раз и передаётся дальше; повторное вычисление с
// переставленными аргументами дало бы другой (неверный) набор адресов.
type MintOrder struct {
	First       solana.PublicKey
	Second      solana.PublicKey
	BaseIsFirst bool // true, если base (первый аргумент) оказался First
}

// OrderMints сортирует пару минтов по байтовому сравнению, меньший первым.
func OrderMints(base, quote solana.PublicKey) MintOrder {
	if bytes.Compare(base.Bytes(), quote.Bytes()) < 0 {
		return MintOrder{First: base, Second: quote, BaseIsFirst: true}
	}
	return MintOrder{First: quote, Second: base, BaseIsFirst: false}
}

func (r *Resolver) deriveCpmm(seeds ...[]byte) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(seeds, r.CpmmProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive cpmm pda: %w", err)
	}
	return addr, nil
}

// CpmmAuthority — общий authority всех CPMM-хранилищ.
func (r *Resolver) CpmmAuthority() (solana.PublicKey, error) {
	return r.deriveCpmm([]byte(seedCpmmAuthority))
}

// CpmmPoolState — состояние пула внешнего DEX для конфигурации комиссий и
// упорядоченной пары минтов.
func (r *Resolver) CpmmPoolState(ammConfig solana.PublicKey, order MintOrder) (solana.PublicKey, error) {
	return r.deriveCpmm([]byte(seedCpmmPool), ammConfig.Bytes(), order.First.Bytes(), order.Second.Bytes())
}

// CpmmVault — хранилище одного из токенов пула внешнего DEX.
func (r *Resolver) CpmmVault(poolState, mint solana.PublicKey) (solana.PublicKey, error) {
	return r.deriveCpmm([]byte(seedCpmmVault), poolState.Bytes(), mint.Bytes())
}

// CpmmLpMint — минт LP-токена пула внешнего DEX.
func (r *Resolver) CpmmLpMint(poolState solana.PublicKey) (solana.PublicKey, error) {
	return r.deriveCpmm([]byte(seedCpmmLpMint), poolState.Bytes())
}

// CpmmObservation — аккаунт ценовых наблюдений пула внешнего DEX.
func (r *Resolver) CpmmObservation(poolState solana.PublicKey) (solana.PublicKey, error) {
	return r.deriveCpmm([]byte(seedCpmmObservation), poolState.Bytes())
}

// CpmmSet — полный набор адресов внешнего DEX, выведенный из одного
// MintOrder, чтобы вызывающий код не собирал их по частям.
type CpmmSet struct {
	Order       MintOrder
	Authority   solana.PublicKey
	PoolState   solana.PublicKey
	FirstVault  solana.PublicKey
	SecondVault solana.PublicKey
	LpMint      solana.PublicKey
	Observation solana.PublicKey
}

// DeriveCpmmSet выводит все CPMM-адреса за один проход.
func (r *Resolver) DeriveCpmmSet(ammConfig, baseMint, quoteMint solana.PublicKey) (*CpmmSet, error) {
	order := OrderMints(baseMint, quoteMint)

	authority, err := r.CpmmAuthority()
	if err != nil {
		return nil, err
	}
	poolState, err := r.CpmmPoolState(ammConfig, order)
	if err != nil {
		return nil, err
	}
	firstVault, err := r.CpmmVault(poolState, order.First)
	if err != nil {
		return nil, err
	}
	secondVault, err := r.CpmmVault(poolState, order.Second)
	if err != nil {
		return nil, err
	}
	lpMint, err := r.CpmmLpMint(poolState)
	if err != nil {
		return nil, err
	}
	observation, err := r.CpmmObservation(poolState)
	if err != nil {
		return nil, err
	}

	return &CpmmSet{
		Order:       order,
		Authority:   authority,
		PoolState:   poolState,
		FirstVault:  firstVault,
		SecondVault: secondVault,
		LpMint:      lpMint,
		Observation: observation,
	}, nil
}
