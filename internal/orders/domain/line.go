package domain

import (
	"strings"

	"github.com/stonegrove/herald/internal/kernel"
)

// Line represents one order line: a SKU, a quantity, and a unit price.
type Line struct {
	SKU      string
	Quantity int
	Unit     Money
}

// LineInput describes the raw data for constructing a Line.
type LineInput struct {
	SKU        string
	Quantity   int
	UnitAmount int64
	Currency   string
}

// MaxQuantity bounds a single line's quantity. MaxQuantity * MaxAmount stays
// within int64 range, so Extension cannot overflow on validated input.
const MaxQuantity = 1_000_000

// NewLine creates a validated order line. The SKU is trimmed; quantity must
// be positive and at most MaxQuantity; the unit price is validated as Money.
func NewLine(input LineInput) (Line, error) {
	var v kernel.Violations
	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		v.Add("sku", "is required")
	}
	if input.Quantity <= 0 {
		v.Addf("quantity", "must be positive, got %d", input.Quantity)
	}
	if input.Quantity > MaxQuantity {
		v.Addf("quantity", "must not exceed %d, got %d", MaxQuantity, input.Quantity)
	}
	unit, err := NewMoney(input.UnitAmount, input.Currency)
	if err != nil {
		if verr, ok := kernel.AsValidation(err); ok {
			for _, violation := range verr.Violations {
				v.Add("unit."+violation.Field, violation.Description)
			}
		} else {
			return Line{}, err
		}
	}
	if err := v.Err(); err != nil {
		return Line{}, err
	}
	return Line{SKU: sku, Quantity: input.Quantity, Unit: unit}, nil
}

// Equals reports whether other is a Line with identical parts.
func (l Line) Equals(other kernel.ValueObject) bool {
	o, ok := other.(Line)
	if !ok {
		return false
	}
	return l.SKU == o.SKU && l.Quantity == o.Quantity && l.Unit.Equals(o.Unit)
}

// Extension returns the line total: unit price times quantity.
func (l Line) Extension() Money {
	return l.Unit.Mul(l.Quantity)
}
