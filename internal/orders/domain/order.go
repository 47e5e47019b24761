package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/stonegrove/herald/internal/kernel"
	apperrors "github.com/stonegrove/herald/internal/platform/errors"
)

// Status describes the lifecycle state of an order.
type Status int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusDraft indicates an order still being assembled.
	StatusDraft
	// StatusSubmitted indicates an order handed off for fulfillment.
	StatusSubmitted
	// StatusCancelled indicates an order withdrawn before fulfillment.
	StatusCancelled
	// StatusDeleted is the terminal state. A deleted order is still a live
	// value so the transition itself can be persisted.
	StatusDeleted
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusSubmitted:
		return "submitted"
	case StatusCancelled:
		return "cancelled"
	case StatusDeleted:
		return "deleted"
	default:
		return "unspecified"
	}
}

var (
	// ErrInvalidStatusTransition indicates a disallowed status change.
	ErrInvalidStatusTransition = apperrors.New(apperrors.CodeOrderInvalidStatusTransition, "order status transition is not allowed")
	// ErrStatusDisallowsOp indicates the current status forbids the operation.
	ErrStatusDisallowsOp = apperrors.New(apperrors.CodeOrderStatusDisallowsOp, "order status disallows this operation")
	// ErrLineMissing indicates the referenced line does not exist on the order.
	ErrLineMissing = apperrors.New(apperrors.CodeOrderLineMissing, "order line does not exist")
)

// canTransition reports whether an order may move from one status to another.
func canTransition(from, to Status) bool {
	switch from {
	case StatusDraft:
		return to == StatusSubmitted || to == StatusCancelled || to == StatusDeleted
	case StatusSubmitted:
		return to == StatusCancelled || to == StatusDeleted
	case StatusCancelled:
		return to == StatusDeleted
	default:
		return false
	}
}

// Order is the aggregate root for a customer's purchase.
type Order struct {
	ID         string
	CustomerID string
	Lines      []Line
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

var _ kernel.Aggregate = Order{}

// AggregateID returns the order's unique identity.
func (o Order) AggregateID() string {
	return o.ID
}

// Deleted reports whether the order has reached its terminal state.
func (o Order) Deleted() bool {
	return o.Status == StatusDeleted
}

// Total sums every line extension. Orders without lines have no currency
// yet, so the zero Money value is returned.
func (o Order) Total() (Money, error) {
	if len(o.Lines) == 0 {
		return Money{}, nil
	}
	total := o.Lines[0].Extension()
	for _, line := range o.Lines[1:] {
		next, err := total.Add(line.Extension())
		if err != nil {
			return Money{}, fmt.Errorf("order %s total: %w", o.ID, err)
		}
		total = next
	}
	return total, nil
}

// lineIndex returns the position of the line with the given SKU, or -1.
func (o Order) lineIndex(sku string) int {
	for i, line := range o.Lines {
		if line.SKU == sku {
			return i
		}
	}
	return -1
}

// CreateOrderInput describes the data needed to create an order.
type CreateOrderInput struct {
	ID         string
	CustomerID string
	Lines      []LineInput
}

// CreateOrder creates a new draft order after validating every input field.
// When input.ID is empty an identity is generated via idGenerator.
func CreateOrder(input CreateOrderInput, now func() time.Time, idGenerator func() (string, error)) (Order, error) {
	if now == nil {
		now = time.Now
	}

	var v kernel.Violations
	customerID := strings.TrimSpace(input.CustomerID)
	if customerID == "" {
		v.Add("customer_id", "is required")
	}

	lines := make([]Line, 0, len(input.Lines))
	seen := make(map[string]bool, len(input.Lines))
	for i, lineInput := range input.Lines {
		line, err := NewLine(lineInput)
		if err != nil {
			verr, ok := kernel.AsValidation(err)
			if !ok {
				return Order{}, err
			}
			for _, violation := range verr.Violations {
				v.Add(fmt.Sprintf("lines[%d].%s", i, violation.Field), violation.Description)
			}
			continue
		}
		if seen[line.SKU] {
			v.Addf(fmt.Sprintf("lines[%d].sku", i), "duplicate sku %q", line.SKU)
			continue
		}
		seen[line.SKU] = true
		lines = append(lines, line)
	}
	if err := v.Err(); err != nil {
		return Order{}, err
	}

	orderID := strings.TrimSpace(input.ID)
	if orderID == "" {
		if idGenerator == nil {
			return Order{}, fmt.Errorf("id generator is required")
		}
		generated, err := idGenerator()
		if err != nil {
			return Order{}, fmt.Errorf("generate order id: %w", err)
		}
		orderID = generated
	}

	createdAt := now().UTC()
	return Order{
		ID:         orderID,
		CustomerID: customerID,
		Lines:      lines,
		Status:     StatusDraft,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}, nil
}

// AddLine appends a validated line to a draft order, returning a new order
// value. The existing value is never modified.
func AddLine(existing Order, input LineInput, now func() time.Time) (Order, error) {
	if now == nil {
		now = time.Now
	}
	if existing.Status != StatusDraft {
		return Order{}, fmt.Errorf("%w: add line on %s order %s", ErrStatusDisallowsOp, existing.Status, existing.ID)
	}

	line, err := NewLine(input)
	if err != nil {
		return Order{}, err
	}
	if existing.lineIndex(line.SKU) >= 0 {
		var v kernel.Violations
		v.Addf("sku", "duplicate sku %q", line.SKU)
		return Order{}, v.Err()
	}

	result := existing
	result.Lines = append(slices.Clone(existing.Lines), line)
	result.UpdatedAt = now().UTC()
	return result, nil
}

// RemoveLine removes the line with the given SKU from a draft order.
func RemoveLine(existing Order, sku string, now func() time.Time) (Order, error) {
	if now == nil {
		now = time.Now
	}
	if existing.Status != StatusDraft {
		return Order{}, fmt.Errorf("%w: remove line on %s order %s", ErrStatusDisallowsOp, existing.Status, existing.ID)
	}

	idx := existing.lineIndex(strings.TrimSpace(sku))
	if idx < 0 {
		return Order{}, fmt.Errorf("%w: sku %q on order %s", ErrLineMissing, sku, existing.ID)
	}

	result := existing
	result.Lines = slices.Delete(slices.Clone(existing.Lines), idx, idx+1)
	result.UpdatedAt = now().UTC()
	return result, nil
}

// Submit hands a draft order off for fulfillment. Submitting requires at
// least one line.
func Submit(existing Order, now func() time.Time) (Order, error) {
	if now == nil {
		now = time.Now
	}
	if !canTransition(existing.Status, StatusSubmitted) {
		return Order{}, transitionError(existing, StatusSubmitted)
	}
	if len(existing.Lines) == 0 {
		var v kernel.Violations
		v.Add("lines", "order must have at least one line to submit")
		return Order{}, v.Err()
	}

	result := existing
	result.Status = StatusSubmitted
	result.UpdatedAt = now().UTC()
	return result, nil
}

// Cancel withdraws an order before fulfillment.
func Cancel(existing Order, now func() time.Time) (Order, error) {
	if now == nil {
		now = time.Now
	}
	if !canTransition(existing.Status, StatusCancelled) {
		return Order{}, transitionError(existing, StatusCancelled)
	}

	result := existing
	result.Status = StatusCancelled
	result.UpdatedAt = now().UTC()
	return result, nil
}

// Delete transitions an order to its terminal state. The returned value is
// live so callers can persist the transition.
func Delete(existing Order, now func() time.Time) (Order, error) {
	if now == nil {
		now = time.Now
	}
	if !canTransition(existing.Status, StatusDeleted) {
		return Order{}, transitionError(existing, StatusDeleted)
	}

	result := existing
	result.Status = StatusDeleted
	result.UpdatedAt = now().UTC()
	return result, nil
}

func transitionError(existing Order, to Status) error {
	return fmt.Errorf("%w: %s -> %s on order %s", ErrInvalidStatusTransition, existing.Status, to, existing.ID)
}
