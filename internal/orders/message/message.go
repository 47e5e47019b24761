// Package message defines the commands, queries, and notifications the
// orders service routes through the dispatcher.
package message

import (
	"time"

	"github.com/stonegrove/herald/internal/orders/domain"
)

// Message names, stable across releases. Handlers register against these.
const (
	CommandCreateOrder      = "orders.create"
	CommandAddOrderLine     = "orders.add_line"
	CommandRemoveOrderLine  = "orders.remove_line"
	CommandSubmitOrder      = "orders.submit"
	CommandCancelOrder      = "orders.cancel"
	CommandDeleteOrder      = "orders.delete"
	CommandRecordAuditEntry = "orders.record_audit_entry"

	QueryGetOrder         = "orders.get"
	QueryListOrders       = "orders.list"
	QueryListAuditEntries = "orders.list_audit_entries"

	NotificationOrderPlaced  = "orders.placed"
	NotificationOrderDeleted = "orders.deleted"
)

// CreateOrder opens a new draft order for a customer. ID is optional; when
// empty the handler generates one.
type CreateOrder struct {
	ID         string
	CustomerID string
	Lines      []domain.LineInput
}

// CommandName implements dispatch.Command.
func (CreateOrder) CommandName() string { return CommandCreateOrder }

// AddOrderLine adds a line to a draft order.
type AddOrderLine struct {
	OrderID string
	Line    domain.LineInput
}

// CommandName implements dispatch.Command.
func (AddOrderLine) CommandName() string { return CommandAddOrderLine }

// RemoveOrderLine removes the line with the given SKU from a draft order.
type RemoveOrderLine struct {
	OrderID string
	SKU     string
}

// CommandName implements dispatch.Command.
func (RemoveOrderLine) CommandName() string { return CommandRemoveOrderLine }

// SubmitOrder places a draft order.
type SubmitOrder struct {
	OrderID string
}

// CommandName implements dispatch.Command.
func (SubmitOrder) CommandName() string { return CommandSubmitOrder }

// CancelOrder cancels a draft or submitted order.
type CancelOrder struct {
	OrderID string
}

// CommandName implements dispatch.Command.
func (CancelOrder) CommandName() string { return CommandCancelOrder }

// DeleteOrder moves an order to its terminal state.
type DeleteOrder struct {
	OrderID string
}

// CommandName implements dispatch.Command.
func (DeleteOrder) CommandName() string { return CommandDeleteOrder }

// RecordAuditEntry appends one entry to an order's audit trail.
type RecordAuditEntry struct {
	OrderID string
	Action  string
	Detail  string
}

// CommandName implements dispatch.Command.
func (RecordAuditEntry) CommandName() string { return CommandRecordAuditEntry }

// GetOrder fetches one order by ID.
type GetOrder struct {
	OrderID string
}

// QueryName implements dispatch.Query.
func (GetOrder) QueryName() string { return QueryGetOrder }

// ListOrders fetches one page of orders.
type ListOrders struct {
	PageSize  int
	PageToken string
}

// QueryName implements dispatch.Query.
func (ListOrders) QueryName() string { return QueryListOrders }

// ListAuditEntries fetches the audit trail for one order.
type ListAuditEntries struct {
	OrderID string
}

// QueryName implements dispatch.Query.
func (ListAuditEntries) QueryName() string { return QueryListAuditEntries }

// OrderPlaced announces that an order was submitted.
type OrderPlaced struct {
	OrderID    string
	CustomerID string
	Lines      int
	PlacedAt   time.Time
}

// NotificationName implements dispatch.Notification.
func (OrderPlaced) NotificationName() string { return NotificationOrderPlaced }

// OrderDeleted announces that an order reached its terminal state.
type OrderDeleted struct {
	OrderID   string
	DeletedAt time.Time
}

// NotificationName implements dispatch.Notification.
func (OrderDeleted) NotificationName() string { return NotificationOrderDeleted }
