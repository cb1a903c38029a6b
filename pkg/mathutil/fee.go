package mathutil

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// TenThousands is the basis points denominator.
var TenThousands = uint64(10000)

// ErrOverflow is returned when a checked operation would wrap around.
var ErrOverflow = errors.New("arithmetic overflow")

// CheckedMul returns x * y, or ErrOverflow if the product does not fit in
// 64 bits.
func CheckedMul(x, y uint64) (uint64, error) {
	product, overflow := new(uint256.Int).MulOverflow(
		uint256.NewInt(x), uint256.NewInt(y),
	)
	if overflow || !product.IsUint64() {
		return 0, ErrOverflow
	}
	return product.Uint64(), nil
}

// CheckedSub returns x - y, or ErrOverflow if y is greater than x.
func CheckedSub(x, y uint64) (uint64, error) {
	diff, underflow := new(uint256.Int).SubOverflow(
		uint256.NewInt(x), uint256.NewInt(y),
	)
	if underflow {
		return 0, ErrOverflow
	}
	return diff.Uint64(), nil
}

// CheckedAdd returns x + y, or ErrOverflow if the sum does not fit in 64 bits.
func CheckedAdd(x, y uint64) (uint64, error) {
	sum, overflow := new(uint256.Int).AddOverflow(
		uint256.NewInt(x), uint256.NewInt(y),
	)
	if overflow || !sum.IsUint64() {
		return 0, ErrOverflow
	}
	return sum.Uint64(), nil
}

// Fee calculates the fee for the given amount and basis points, rounding down.
// The product amount*bps is computed in 64 bits and fails with ErrOverflow
// when it does not fit, even though the final quotient would.
func Fee(amount, feeAsBasisPoint uint64) (uint64, error) {
	product, err := CheckedMul(amount, feeAsBasisPoint)
	if err != nil {
		return 0, err
	}
	return product / TenThousands, nil
}

// LessFee calculates the amount left after subtracting the fee expressed in
// basis points (ie. 0.20% = 20), along with the fee itself.
func LessFee(amount, feeAsBasisPoint uint64) (lessFee, calculatedFee uint64, err error) {
	calculatedFee, err = Fee(amount, feeAsBasisPoint)
	if err != nil {
		return 0, 0, err
	}
	lessFee, err = CheckedSub(amount, calculatedFee)
	if err != nil {
		return 0, 0, err
	}
	return lessFee, calculatedFee, nil
}

// BasisPointToPercentage returns the given basis points as a percentage
// decimal, ie. 20 -> 0.2.
func BasisPointToPercentage(bps uint64) decimal.Decimal {
	return decimal.NewFromInt(int64(bps)).Div(decimal.NewFromInt(100))
}

// FormatBasisPoint renders the given basis points as a percentage string with
// two decimals, ie. 20 -> "0.20%".
func FormatBasisPoint(bps uint64) string {
	return BasisPointToPercentage(bps).StringFixed(2) + "%"
}
