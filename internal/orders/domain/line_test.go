package domain

import (
	"testing"

	"github.com/stonegrove/herald/internal/kernel"
)

func TestNewLineValidation(t *testing.T) {
	tests := []struct {
		name   string
		input  LineInput
		fields []string
	}{
		{
			name:   "missing sku",
			input:  LineInput{SKU: "  ", Quantity: 1, UnitAmount: 100, Currency: "USD"},
			fields: []string{"sku"},
		},
		{
			name:   "zero quantity",
			input:  LineInput{SKU: "SKU-1", Quantity: 0, UnitAmount: 100, Currency: "USD"},
			fields: []string{"quantity"},
		},
		{
			name:   "negative quantity",
			input:  LineInput{SKU: "SKU-1", Quantity: -3, UnitAmount: 100, Currency: "USD"},
			fields: []string{"quantity"},
		},
		{
			name:   "quantity too large",
			input:  LineInput{SKU: "SKU-1", Quantity: MaxQuantity + 1, UnitAmount: 100, Currency: "USD"},
			fields: []string{"quantity"},
		},
		{
			name:   "invalid unit price",
			input:  LineInput{SKU: "SKU-1", Quantity: 1, UnitAmount: -100, Currency: "USD"},
			fields: []string{"unit.amount"},
		},
		{
			name:   "everything wrong",
			input:  LineInput{SKU: "", Quantity: -1, UnitAmount: -1, Currency: "x"},
			fields: []string{"sku", "quantity", "unit.amount", "unit.currency"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLine(tt.input)
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

func TestNewLineTrimsSKU(t *testing.T) {
	line, err := NewLine(LineInput{SKU: " SKU-9 ", Quantity: 2, UnitAmount: 450, Currency: "USD"})
	if err != nil {
		t.Fatalf("new line: %v", err)
	}
	if line.SKU != "SKU-9" {
		t.Fatalf("sku = %q, want trimmed", line.SKU)
	}
}

func TestLineEquality(t *testing.T) {
	a, _ := NewLine(LineInput{SKU: "SKU-1", Quantity: 2, UnitAmount: 100, Currency: "USD"})
	b, _ := NewLine(LineInput{SKU: "SKU-1", Quantity: 2, UnitAmount: 100, Currency: "USD"})
	c, _ := NewLine(LineInput{SKU: "SKU-1", Quantity: 3, UnitAmount: 100, Currency: "USD"})

	if !a.Equals(b) {
		t.Fatal("expected equal constituents to compare equal")
	}
	if a.Equals(c) {
		t.Fatal("expected different quantity to compare unequal")
	}
}

func TestLineExtension(t *testing.T) {
	line, _ := NewLine(LineInput{SKU: "SKU-1", Quantity: 3, UnitAmount: 250, Currency: "USD"})
	if got := line.Extension(); got.Amount != 750 || got.Currency != "USD" {
		t.Fatalf("extension = %v, want 750 USD", got)
	}
}

func TestLineExtensionAtBoundsStaysPositive(t *testing.T) {
	line, err := NewLine(LineInput{SKU: "SKU-1", Quantity: MaxQuantity, UnitAmount: MaxAmount, Currency: "USD"})
	if err != nil {
		t.Fatalf("new line at bounds: %v", err)
	}
	got := line.Extension()
	if got.Amount != int64(MaxQuantity)*MaxAmount {
		t.Fatalf("extension = %d, want %d", got.Amount, int64(MaxQuantity)*MaxAmount)
	}
	if got.Amount < 0 {
		t.Fatal("extension overflowed")
	}
}
