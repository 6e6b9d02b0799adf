// =============================
// File: internal/launchpad/curve/curve.go
// =============================

// Package curve воспроизводит constant-product формулу он-чейн программы
// на стороне клиента, чтобы показывать котировку до отправки транзакции.
// Все функции чистые и детерминированные; резервы перемножаются в big.Int
// (произведение двух резервов не помещается в uint64), float/decimal
// появляется только на последнем шаге — при переводе в человеческие единицы.
//
// Ошибочный или вырожденный вход даёт нулевой результат, а не панику:
// сломанная котировка не должна блокировать UI, программа в любом случае
// перепроверит сделку он-чейн.
package curve

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/state"
)

const bpsDenominator = 10_000

// Quote — результат расчёта котировки. Суммы в raw-единицах
// соответствующего актива, PriceImpact — проценты.
type Quote struct {
	AmountOut   uint64
	PriceImpact decimal.Decimal
	Fee         uint64
	Tax         uint64
}

var zeroQuote = Quote{PriceImpact: decimal.Zero}

// CurrentPrice возвращает спотовую цену токена в стейблкоинах за целый
// токен: (realStable+virtStable)/(realToken+virtToken) с поправкой на
// разные десятичные знаки активов. Ноль — если токен-сторона пуста.
func CurrentPrice(p *state.Pool) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	tokenTotal := totalToken(p)
	if tokenTotal.Sign() == 0 {
		return decimal.Zero
	}
	stable := decimal.NewFromBigInt(totalStable(p), -state.StableDecimals)
	token := decimal.NewFromBigInt(tokenTotal, -state.TokenDecimals)
	return stable.Div(token)
}

// BuyQuote считает покупку токена за stableIn. Порядок шагов задан
// протоколом и несимметричен продаже: комиссия берётся со входа,
// налог на покупку — с выхода.
func BuyQuote(p *state.Pool, stableIn uint64) Quote {
	if p == nil || stableIn == 0 {
		return zeroQuote
	}
	stableTotal := totalStable(p)
	tokenTotal := totalToken(p)
	if stableTotal.Sign() == 0 || tokenTotal.Sign() == 0 {
		return zeroQuote
	}

	// (a) торговая комиссия со входа
	in := new(big.Int).SetUint64(stableIn)
	fee := mulBps(in, p.TradingFeeBps)
	netIn := new(big.Int).Sub(in, fee)

	// (b)–(c) constant product на тотальных (real+virtual) резервах
	k := new(big.Int).Mul(stableTotal, tokenTotal)
	newStable := new(big.Int).Add(stableTotal, netIn)
	newToken := new(big.Int).Quo(k, newStable)
	rawOut := new(big.Int).Sub(tokenTotal, newToken)
	if rawOut.Sign() <= 0 {
		return zeroQuote
	}

	// (d) налог на покупку с выхода
	tax := mulBps(rawOut, p.BuyTaxBps)
	out := new(big.Int).Sub(rawOut, tax)

	return Quote{
		AmountOut:   toUint64(out),
		PriceImpact: priceImpact(stableTotal, tokenTotal, newStable, newToken),
		Fee:         toUint64(fee),
		Tax:         toUint64(tax),
	}
}

// SellQuote считает продажу tokenIn токенов. Зеркало BuyQuote с протокольной
// асимметрией: налог на продажу снимается со входа (в токенах), торговая
// комиссия — с выхода (в стейблкоинах). Упрощать до симметричной формулы
// нельзя.
func SellQuote(p *state.Pool, tokenIn uint64) Quote {
	if p == nil || tokenIn == 0 {
		return zeroQuote
	}
	stableTotal := totalStable(p)
	tokenTotal := totalToken(p)
	if stableTotal.Sign() == 0 || tokenTotal.Sign() == 0 {
		return zeroQuote
	}

	// (a) налог на продажу со входа
	in := new(big.Int).SetUint64(tokenIn)
	tax := mulBps(in, p.SellTaxBps)
	netIn := new(big.Int).Sub(in, tax)
	if netIn.Sign() <= 0 {
		return zeroQuote
	}

	// (b) constant product
	k := new(big.Int).Mul(stableTotal, tokenTotal)
	newToken := new(big.Int).Add(tokenTotal, netIn)
	newStable := new(big.Int).Quo(k, newToken)
	rawOut := new(big.Int).Sub(stableTotal, newStable)
	if rawOut.Sign() <= 0 {
		return zeroQuote
	}

	// (c) торговая комиссия с выхода
	fee := mulBps(rawOut, p.TradingFeeBps)
	out := new(big.Int).Sub(rawOut, fee)

	return Quote{
		AmountOut:   toUint64(out),
		PriceImpact: priceImpact(stableTotal, tokenTotal, newStable, newToken),
		Fee:         toUint64(fee),
		Tax:         toUint64(tax),
	}
}

// Progress возвращает процент распроданности пула в [0,100].
// TotalSellAmount == 0 трактуется как «продано всё» — ровно 100.
func Progress(p *state.Pool) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	if p == nil || p.TotalSellAmount == 0 {
		return hundred
	}
	if p.RealTokenReserve >= p.TotalSellAmount {
		return decimal.Zero
	}
	sold := decimal.NewFromUint64(p.TotalSellAmount - p.RealTokenReserve)
	total := decimal.NewFromUint64(p.TotalSellAmount)
	progress := sold.Div(total).Mul(hundred)
	if progress.GreaterThan(hundred) {
		return hundred
	}
	return progress
}

func totalStable(p *state.Pool) *big.Int {
	total := new(big.Int).SetUint64(p.RealStableReserve)
	return total.Add(total, new(big.Int).SetUint64(p.VirtualStableReserve))
}

func totalToken(p *state.Pool) *big.Int {
	total := new(big.Int).SetUint64(p.RealTokenReserve)
	return total.Add(total, new(big.Int).SetUint64(p.VirtualTokenReserve))
}

// mulBps возвращает floor(v * bps / 10000).
func mulBps(v *big.Int, bps uint16) *big.Int {
	out := new(big.Int).Mul(v, big.NewInt(int64(bps)))
	return out.Quo(out, big.NewInt(bpsDenominator))
}

// priceImpact = |(after - before) / before| * 100, где before и after —
// мгновенные цены stable/token до и после сделки.
func priceImpact(stableBefore, tokenBefore, stableAfter, tokenAfter *big.Int) decimal.Decimal {
	if tokenBefore.Sign() == 0 || tokenAfter.Sign() == 0 || stableBefore.Sign() == 0 {
		return decimal.Zero
	}
	before := decimal.NewFromBigInt(stableBefore, 0).Div(decimal.NewFromBigInt(tokenBefore, 0))
	after := decimal.NewFromBigInt(stableAfter, 0).Div(decimal.NewFromBigInt(tokenAfter, 0))
	if before.IsZero() {
		return decimal.Zero
	}
	return after.Sub(before).Div(before).Mul(decimal.NewFromInt(100)).Abs()
}

func toUint64(v *big.Int) uint64 {
	if v.Sign() <= 0 || !v.IsUint64() {
		return 0
	}
	return v.Uint64()
}
