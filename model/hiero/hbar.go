package hiero

import (
	"fmt"
)

// Hbar is an amount of the native currency, counted in tinybars.
type Hbar int64

const (
	Tinybar Hbar = 1
	OneHbar Hbar = 100_000_000
)

// DefaultMaxTransactionFee is used when neither the transaction nor the
// client configure a maximum fee.
const DefaultMaxTransactionFee = 2 * OneHbar

// HbarFromTinybars converts a raw tinybar amount.
func HbarFromTinybars(tinybars int64) Hbar {
	return Hbar(tinybars)
}

// Tinybars returns the amount in tinybars.
func (h Hbar) Tinybars() int64 {
	return int64(h)
}

// Negated returns the amount with the opposite sign.
func (h Hbar) Negated() Hbar {
	return -h
}

func (h Hbar) String() string {
	sign := ""
	v := int64(h)
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole, frac := v/int64(OneHbar), v%int64(OneHbar)
	if frac == 0 {
		return fmt.Sprintf("%s%d ℏ", sign, whole)
	}
	return fmt.Sprintf("%s%d.%08d ℏ", sign, whole, frac)
}
