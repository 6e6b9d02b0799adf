// =============================
// File: internal/numeric/numeric.go
// =============================
package numeric

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount возвращается при любом некорректном числовом вводе:
// отрицательное значение, нецелое raw-значение, NaN/Inf, переполнение uint64.
var ErrInvalidAmount = errors.New("invalid amount")

var maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ToHuman переводит raw-количество (минимальные единицы токена) в человеко-читаемое
// десятичное число, деля на 10^decimals. Вся арифметика выполняется в decimal,
// без потери точности на больших резервах.
func ToHuman(raw string, decimals uint8) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative raw amount %q", ErrInvalidAmount, raw)
	}
	if !d.IsInteger() {
		return decimal.Zero, fmt.Errorf("%w: raw amount %q must be an integer", ErrInvalidAmount, raw)
	}
	return d.Shift(-int32(decimals)), nil
}

// ToHumanUint — вариант ToHuman для значений, уже декодированных из аккаунта.
func ToHumanUint(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromUint64(raw).Shift(-int32(decimals))
}

// ToRaw переводит человеко-читаемое количество в raw-единицы, умножая на
// 10^decimals и отбрасывая дробную часть (floor). Отрицательные и
// не-конечные значения отклоняются.
func ToRaw(human string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(human)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, human)
	}
	return ToRawDecimal(d, decimals)
}

// ToRawDecimal — как ToRaw, но принимает уже разобранный decimal.
func ToRawDecimal(d decimal.Decimal, decimals uint8) (uint64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, d.String())
	}
	scaled := d.Shift(int32(decimals)).Floor()
	if scaled.Cmp(maxUint64) > 0 {
		return 0, fmt.Errorf("%w: amount %s overflows uint64", ErrInvalidAmount, d.String())
	}
	// BigInt() отбрасывает дробную часть; после Floor её уже нет.
	return scaled.BigInt().Uint64(), nil
}
