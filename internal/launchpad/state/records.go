// =============================
// File: internal/launchpad/state/records.go
// =============================
package state

import (
	"fmt"
	"math/bits"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Дискриминаторы аккаунтов программы (первые 8 байт каждой записи).
// Порядок и типы полей ниже — wire-контракт программы, менять нельзя.
var (
	PoolDiscriminator          = [8]byte{0xf1, 0x9a, 0x6d, 0x04, 0x11, 0xb1, 0x6d, 0xbc}
	GlobalConfigDiscriminator  = [8]byte{0x95, 0x08, 0x9c, 0xca, 0xa0, 0xfc, 0xb0, 0xd9}
	BundleBuyPoolDiscriminator = [8]byte{0x1e, 0x5c, 0x24, 0xc2, 0x63, 0x0b, 0xd4, 0x3a}
	BundleDepositDiscriminator = [8]byte{0x6b, 0xf4, 0x7a, 0x55, 0x91, 0xc0, 0x18, 0xe2}
	LockedTokensDiscriminator  = [8]byte{0xc3, 0x2e, 0x70, 0x1d, 0x8f, 0x44, 0xa9, 0x07}
)

// Стандартные десятичные знаки пары: стейблкоин 6, токен проекта 9.
const (
	StableDecimals = 6
	TokenDecimals  = 9
)

// Pool — снимок состояния одного рынка bonding curve.
type Pool struct {
	TokenMint   solana.PublicKey
	StableMint  solana.PublicKey
	Creator     solana.PublicKey
	TaxReceiver solana.PublicKey

	RealTokenReserve     uint64
	RealStableReserve    uint64
	VirtualTokenReserve  uint64
	VirtualStableReserve uint64
	TotalSellAmount      uint64

	BuyTaxBps     uint16
	SellTaxBps    uint16
	TradingFeeBps uint16

	Complete        bool
	Finalized       bool
	CpmmInitialized bool
	CpmmPool        solana.PublicKey // нулевой, пока внешний пул не создан

	WalletLimit uint64 // максимум токенов на кошелёк за окно; 0 = выключено
	GlobalLimit uint64 // максимум токенов на пул за окно; 0 = выключено
}

// GlobalConfig — общая конфигурация протокола. Запрашивается заново на
// каждую операцию: между сессиями она может измениться.
type GlobalConfig struct {
	FeeReceiver    solana.PublicKey
	ProtocolFeeBps uint16
	TradingFeeBps  uint16
	BundleFeeBps   uint16
	StableMints    []solana.PublicKey
	AllowedRouters []solana.PublicKey
	CreationCount  uint64
}

// AllowsRouter проверяет, входит ли программа внешнего DEX в allow-list.
func (c *GlobalConfig) AllowsRouter(router solana.PublicKey) bool {
	for _, r := range c.AllowedRouters {
		if r.Equals(router) {
			return true
		}
	}
	return false
}

// AllowsStable проверяет, принят ли стейблкоин протоколом.
func (c *GlobalConfig) AllowsStable(mint solana.PublicKey) bool {
	for _, m := range c.StableMints {
		if m.Equals(mint) {
			return true
		}
	}
	return false
}

// BundleBuyPool — агрегированные депозиты одной коллективной покупки.
type BundleBuyPool struct {
	TotalDeposited uint64
	Executed       bool
	TokensBought   uint64 // заполняется программой после исполнения
}

// BundleDeposit — вклад одного пользователя в коллективную покупку.
type BundleDeposit struct {
	Depositor solana.PublicKey
	Amount    uint64
}

// Share возвращает pro-rata долю вкладчика из купленных токенов.
func (d *BundleDeposit) Share(pool *BundleBuyPool) uint64 {
	if pool == nil || pool.TotalDeposited == 0 || !pool.Executed {
		return 0
	}
	// Произведение amount*bought может переполнить uint64, поэтому
	// умножаем и делим в 128 битах.
	hi, lo := bits.Mul64(d.Amount, pool.TokensBought)
	if hi >= pool.TotalDeposited {
		// Математически невозможно при amount <= total, но Div64
		// паникует на таком входе, так что защищаемся.
		return pool.TokensBought
	}
	q, _ := bits.Div64(hi, lo, pool.TotalDeposited)
	return q
}

// LockedTokens — токены, удержанные из-за лимитов кошелька на момент покупки.
type LockedTokens struct {
	Amount        uint64 // сколько ещё заблокировано
	InitialAmount uint64 // исходный размер блокировки (для отображения)
}

// Claimed возвращает уже разблокированное количество.
func (l *LockedTokens) Claimed() uint64 {
	if l.InitialAmount < l.Amount {
		return 0
	}
	return l.InitialAmount - l.Amount
}

// decodeRecord проверяет дискриминатор и декодирует тело записи borsh-ом.
func decodeRecord(data []byte, disc [8]byte, dst interface{}) error {
	if len(data) < 8 {
		return fmt.Errorf("account data too short: %d bytes", len(data))
	}
	for i := 0; i < 8; i++ {
		if data[i] != disc[i] {
			return fmt.Errorf("discriminator mismatch: got % x", data[:8])
		}
	}
	if err := bin.NewBorshDecoder(data[8:]).Decode(dst); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
