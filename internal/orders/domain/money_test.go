package domain

import (
	"errors"
	"testing"

	"github.com/stonegrove/herald/internal/kernel"
)

func TestNewMoneyValidation(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		currency string
		fields   []string
	}{
		{name: "negative amount", amount: -1, currency: "USD", fields: []string{"amount"}},
		{name: "amount too large", amount: MaxAmount + 1, currency: "USD", fields: []string{"amount"}},
		{name: "lowercase currency", amount: 100, currency: "usd", fields: []string{"currency"}},
		{name: "short currency", amount: 100, currency: "US", fields: []string{"currency"}},
		{name: "both invalid", amount: -5, currency: "", fields: []string{"amount", "currency"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMoney(tt.amount, tt.currency)
			verr, ok := kernel.AsValidation(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(verr.Violations) != len(tt.fields) {
				t.Fatalf("expected %d violations, got %d (%v)", len(tt.fields), len(verr.Violations), verr)
			}
			for i, field := range tt.fields {
				if verr.Violations[i].Field != field {
					t.Fatalf("violation %d field = %q, want %q", i, verr.Violations[i].Field, field)
				}
			}
		})
	}
}

func TestNewMoneyValidResultRevalidates(t *testing.T) {
	money, err := NewMoney(1299, "USD")
	if err != nil {
		t.Fatalf("new money: %v", err)
	}
	if _, err := NewMoney(money.Amount, money.Currency); err != nil {
		t.Fatalf("expected valid result to revalidate, got %v", err)
	}
}

func TestMoneyEquality(t *testing.T) {
	a, _ := NewMoney(500, "EUR")
	b, _ := NewMoney(500, "EUR")
	c, _ := NewMoney(501, "EUR")
	d, _ := NewMoney(500, "USD")

	if !a.Equals(b) {
		t.Fatal("expected equal constituents to compare equal")
	}
	if a.Equals(c) || a.Equals(d) {
		t.Fatal("expected unequal constituents to compare unequal")
	}
	line, _ := NewLine(LineInput{SKU: "X", Quantity: 1, UnitAmount: 500, Currency: "EUR"})
	if a.Equals(line) {
		t.Fatal("expected different value object types to compare unequal")
	}
}

func TestMoneyAddRejectsCurrencyMismatch(t *testing.T) {
	usd, _ := NewMoney(100, "USD")
	eur, _ := NewMoney(100, "EUR")

	if _, err := usd.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected currency mismatch, got %v", err)
	}

	sum, err := usd.Add(usd)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if sum.Amount != 200 {
		t.Fatalf("sum = %d, want 200", sum.Amount)
	}
}

func TestMoneyMul(t *testing.T) {
	unit, _ := NewMoney(250, "USD")
	if got := unit.Mul(4); got.Amount != 1000 || got.Currency != "USD" {
		t.Fatalf("mul = %v, want 1000 USD", got)
	}
}
