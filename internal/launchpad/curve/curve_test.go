package curve

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/state"
)

// referencePool — пул из спецификации протокола: 30000 USDC виртуального
// резерва против 1e6 токенов реального, комиссия 1%, налогов нет.
func referencePool() *state.Pool {
	return &state.Pool{
		RealStableReserve:    0,
		VirtualStableReserve: 30_000_000_000,         // 30000 USDC, 6dp
		RealTokenReserve:     1_000_000_000_000_000,  // 1e6 токенов, 9dp
		VirtualTokenReserve:  0,
		TotalSellAmount:      1_000_000_000_000_000,
		TradingFeeBps:        100,
		BuyTaxBps:            0,
		SellTaxBps:           0,
	}
}

func TestBuyQuoteReferenceScenario(t *testing.T) {
	p := referencePool()
	stableIn := uint64(1_000_000_000) // 1000 USDC

	q := BuyQuote(p, stableIn)

	// netIn = 990 USDC после комиссии 100bps
	assert.Equal(t, uint64(10_000_000), q.Fee)
	assert.Equal(t, uint64(0), q.Tax)

	// Эталон той же целочисленной формулой: k/(S+netIn), out = T - newToken.
	k := new(big.Int).Mul(big.NewInt(30_000_000_000), big.NewInt(1_000_000_000_000_000))
	newStable := big.NewInt(30_000_000_000 + 990_000_000)
	newToken := new(big.Int).Quo(k, newStable)
	expected := new(big.Int).Sub(big.NewInt(1_000_000_000_000_000), newToken)
	assert.Equal(t, expected.Uint64(), q.AmountOut)

	// В человеческих единицах ≈ 32591.2 токена.
	human := decimal.NewFromUint64(q.AmountOut).Shift(-state.TokenDecimals)
	assert.InDelta(t, 32_591.2, human.InexactFloat64(), 0.1)

	// Импакт положителен и соразмерен сделке (~6.8% на 990/30000).
	assert.True(t, q.PriceImpact.GreaterThan(decimal.Zero))
	assert.InDelta(t, 6.8, q.PriceImpact.InexactFloat64(), 0.5)
}

func TestBuyQuoteInvariants(t *testing.T) {
	p := referencePool()
	p.BuyTaxBps = 250

	totalToken := p.RealTokenReserve + p.VirtualTokenReserve

	prevOut := uint64(0)
	prevImpact := decimal.Zero
	for _, stableIn := range []uint64{1, 1_000_000, 100_000_000, 1_000_000_000, 50_000_000_000} {
		q := BuyQuote(p, stableIn)

		// Кривая не может выдать больше, чем существует.
		assert.Less(t, q.AmountOut, totalToken, "stableIn=%d", stableIn)

		// Выход не убывает, импакт строго растёт.
		assert.GreaterOrEqual(t, q.AmountOut, prevOut, "stableIn=%d", stableIn)
		assert.True(t, q.PriceImpact.GreaterThan(prevImpact),
			"impact must strictly grow: stableIn=%d, impact=%s", stableIn, q.PriceImpact)

		prevOut = q.AmountOut
		prevImpact = q.PriceImpact
	}
}

func TestRoundTripIsLossy(t *testing.T) {
	p := referencePool()
	p.BuyTaxBps = 100
	p.SellTaxBps = 100

	stableIn := uint64(1_000_000_000)
	buy := BuyQuote(p, stableIn)
	require.NotZero(t, buy.AmountOut)

	// Продаём на том же (неизменённом) состоянии пула: даже без сдвига
	// резервов комиссии и налоги делают круг строго убыточным.
	sell := SellQuote(p, buy.AmountOut)
	require.NotZero(t, sell.AmountOut)
	assert.Less(t, sell.AmountOut, stableIn)
}

func TestSellQuoteTaxBeforeCurve(t *testing.T) {
	p := referencePool()
	p.SellTaxBps = 5_000 // 50%, чтобы асимметрия была заметна

	tokenIn := uint64(100_000_000_000_000) // 100k токенов
	q := SellQuote(p, tokenIn)

	// Налог снят со входа: ровно половина токенов.
	assert.Equal(t, tokenIn/2, q.Tax)

	// Эталонный расчёт: в кривую заходит только netIn.
	netIn := tokenIn - tokenIn/2
	k := new(big.Int).Mul(big.NewInt(30_000_000_000), big.NewInt(1_000_000_000_000_000))
	newToken := new(big.Int).Add(big.NewInt(1_000_000_000_000_000), new(big.Int).SetUint64(netIn))
	newStable := new(big.Int).Quo(k, newToken)
	rawOut := new(big.Int).Sub(big.NewInt(30_000_000_000), newStable)
	fee := new(big.Int).Quo(new(big.Int).Mul(rawOut, big.NewInt(100)), big.NewInt(10_000))
	expected := new(big.Int).Sub(rawOut, fee)

	assert.Equal(t, expected.Uint64(), q.AmountOut)
	assert.Equal(t, fee.Uint64(), q.Fee)
}

func TestDegenerateInputsReturnZeroQuote(t *testing.T) {
	p := referencePool()

	assert.Equal(t, zeroQuote, BuyQuote(nil, 1_000_000))
	assert.Equal(t, zeroQuote, BuyQuote(p, 0))
	assert.Equal(t, zeroQuote, SellQuote(nil, 1_000_000))
	assert.Equal(t, zeroQuote, SellQuote(p, 0))

	empty := &state.Pool{}
	assert.Equal(t, zeroQuote, BuyQuote(empty, 1_000_000))
	assert.Equal(t, zeroQuote, SellQuote(empty, 1_000_000))
}

func TestCurrentPrice(t *testing.T) {
	p := referencePool()

	// 30000 USDC / 1e6 токенов = 0.03 USDC за токен.
	price := CurrentPrice(p)
	assert.True(t, price.Equal(decimal.RequireFromString("0.03")), "got %s", price)

	// Пустая токен-сторона — цена ноль, без паники.
	assert.True(t, CurrentPrice(&state.Pool{RealStableReserve: 10}).IsZero())
	assert.True(t, CurrentPrice(nil).IsZero())
}

func TestCurrentPriceNonNegative(t *testing.T) {
	pools := []*state.Pool{
		referencePool(),
		{},
		{RealTokenReserve: 1},
		{VirtualStableReserve: 1, VirtualTokenReserve: 1},
	}
	for _, p := range pools {
		assert.False(t, CurrentPrice(p).IsNegative())
	}
}

func TestProgress(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	// totalSellAmount == 0 — ровно 100.
	assert.True(t, Progress(&state.Pool{}).Equal(hundred))
	assert.True(t, Progress(nil).Equal(hundred))

	// Половина распродана.
	half := Progress(&state.Pool{TotalSellAmount: 1000, RealTokenReserve: 500})
	assert.True(t, half.Equal(decimal.NewFromInt(50)), "got %s", half)

	// Резерв временно превысил план продажи — прогресс не уходит ниже нуля.
	p := Progress(&state.Pool{TotalSellAmount: 1000, RealTokenReserve: 1500})
	assert.True(t, p.Equal(decimal.Zero), "got %s", p)

	// Всё распродано — ровно 100, не больше.
	done := Progress(&state.Pool{TotalSellAmount: 1000, RealTokenReserve: 0})
	assert.True(t, done.Equal(hundred), "got %s", done)
}
