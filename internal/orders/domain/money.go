package domain

import (
	"fmt"

	"github.com/stonegrove/herald/internal/kernel"
	apperrors "github.com/stonegrove/herald/internal/platform/errors"
)

// ErrCurrencyMismatch indicates arithmetic across two different currencies.
var ErrCurrencyMismatch = apperrors.New(apperrors.CodeValidation, "money currencies do not match")

// Money represents an amount in minor units of a single currency.
type Money struct {
	// Amount is the value in minor units (cents for USD).
	Amount int64
	// Currency is the ISO 4217 alphabetic code, uppercase.
	Currency string
}

// MaxAmount bounds a single Money value. Together with MaxQuantity it keeps
// any line extension within int64 range.
const MaxAmount int64 = 1_000_000_000_000

// NewMoney creates a validated Money value. Amounts are non-negative and at
// most MaxAmount; currency must be a three-letter uppercase ISO 4217 code.
func NewMoney(amount int64, currency string) (Money, error) {
	var v kernel.Violations
	if amount < 0 {
		v.Addf("amount", "must not be negative, got %d", amount)
	}
	if amount > MaxAmount {
		v.Addf("amount", "must not exceed %d, got %d", MaxAmount, amount)
	}
	if !validCurrency(currency) {
		v.Addf("currency", "must be a three-letter uppercase ISO 4217 code, got %q", currency)
	}
	if err := v.Err(); err != nil {
		return Money{}, err
	}
	return Money{Amount: amount, Currency: currency}, nil
}

func validCurrency(currency string) bool {
	if len(currency) != 3 {
		return false
	}
	for _, c := range currency {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// Equals reports whether other is a Money with identical parts.
func (m Money) Equals(other kernel.ValueObject) bool {
	o, ok := other.(Money)
	if !ok {
		return false
	}
	return m.Amount == o.Amount && m.Currency == o.Currency
}

// Add returns the sum of two amounts in the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Mul returns the amount multiplied by a non-negative quantity.
func (m Money) Mul(quantity int) Money {
	return Money{Amount: m.Amount * int64(quantity), Currency: m.Currency}
}

// IsZero reports whether the value was never constructed through NewMoney.
func (m Money) IsZero() bool {
	return m.Amount == 0 && m.Currency == ""
}

// String formats the amount for logs, e.g. "1299 USD".
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}
