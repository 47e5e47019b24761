package service

import (
	"context"
	"fmt"

	"github.com/stonegrove/herald/internal/dispatch"
	"github.com/stonegrove/herald/internal/orders/message"
)

// AuditRecorder reacts to order lifecycle notifications by recording audit
// entries. It holds no storage capability; it submits RecordAuditEntry
// commands back through the dispatcher.
type AuditRecorder struct {
	dispatcher *dispatch.Dispatcher
}

// NewAuditRecorder creates an audit recorder bound to the dispatcher.
func NewAuditRecorder(dispatcher *dispatch.Dispatcher) *AuditRecorder {
	return &AuditRecorder{dispatcher: dispatcher}
}

// HandleNotification implements dispatch.NotificationHandler.
func (r *AuditRecorder) HandleNotification(ctx context.Context, n dispatch.Notification) error {
	var cmd message.RecordAuditEntry
	switch v := n.(type) {
	case message.OrderPlaced:
		cmd = message.RecordAuditEntry{
			OrderID: v.OrderID,
			Action:  "order.placed",
			Detail:  fmt.Sprintf("customer %s, %d lines", v.CustomerID, v.Lines),
		}
	case message.OrderDeleted:
		cmd = message.RecordAuditEntry{
			OrderID: v.OrderID,
			Action:  "order.deleted",
		}
	default:
		return fmt.Errorf("unexpected notification %q", n.NotificationName())
	}

	if _, err := r.dispatcher.Dispatch(ctx, cmd); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}
