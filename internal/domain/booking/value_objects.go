package booking

import (
	"fmt"
	"math"

	"rental-booking/internal/pkg/errs"
)

// Money is an amount in cents. Arithmetic stays in integers.
type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func NewMoneyFromInt(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

// Times multiplies a non-negative amount by n, refusing results that do not
// fit in int64.
func (m Money) Times(n int) (Money, error) {
	if m.cents < 0 || n < 0 {
		return Money{}, ErrNegativePrice
	}
	if n != 0 && m.cents > math.MaxInt64/int64(n) {
		return Money{}, errs.Wrapf(ErrPriceOverflow, "%s x %d", m, n)
	}
	return Money{cents: m.cents * int64(n)}, nil
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) IsNegative() bool {
	return m.cents < 0
}

// String renders the amount with two decimals, e.g. "320.00".
func (m Money) String() string {
	sign := ""
	c := m.cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
