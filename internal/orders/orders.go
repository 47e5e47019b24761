// Package orders wires the orders service handlers into a dispatcher.
package orders

import (
	"context"
	"fmt"

	"github.com/stonegrove/herald/internal/dispatch"
	"github.com/stonegrove/herald/internal/orders/message"
	"github.com/stonegrove/herald/internal/orders/service"
	"github.com/stonegrove/herald/internal/orders/storage"
)

// Register creates the orders service, registers every command, query, and
// notification handler on d, and returns the service. The caller seals the
// dispatcher once all registrations across the process are complete.
func Register(d *dispatch.Dispatcher, store storage.Store, opts ...service.Option) (*service.Service, error) {
	if d == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	svc := service.New(store, d, opts...)

	commands := []struct {
		prototype dispatch.Command
		handler   dispatch.CommandHandlerFunc
	}{
		{message.CreateOrder{}, func(ctx context.Context, cmd dispatch.Command) (any, error) {
			return svc.CreateOrder(ctx, cmd.(message.CreateOrder))
		}},
		{message.AddOrderLine{}, func(ctx context.Context, cmd dispatch.Command) (any, error) {
			return svc.AddOrderLine(ctx, cmd.(message.AddOrderLine))
		}},
		{message.RemoveOrderLine{}, func(ctx context.Context, cmd dispatch.Command) (any, error) {
			return svc.RemoveOrderLine(ctx, cmd.(message.RemoveOrderLine))
		}},
		{message.SubmitOrder{}, func(ctx context.Context, cmd dispatch.Command) (any, error) {
			return svc.SubmitOrder(ctx, cmd.(message.SubmitOrder))
		}},
		{message.CancelOrder{}, func(ctx context.Context, cmd dispatch.Command) (any, error) {
			return svc.CancelOrder(ctx, cmd.(message.CancelOrder))
		}},
		{message.DeleteOrder{}, func(ctx context.Context, cmd dispatch.Command) (any, error) {
			return svc.DeleteOrder(ctx, cmd.(message.DeleteOrder))
		}},
		{message.RecordAuditEntry{}, func(ctx context.Context, cmd dispatch.Command) (any, error) {
			return svc.RecordAuditEntry(ctx, cmd.(message.RecordAuditEntry))
		}},
	}
	for _, c := range commands {
		if err := d.RegisterCommand(c.prototype, c.handler); err != nil {
			return nil, fmt.Errorf("register command %q: %w", c.prototype.CommandName(), err)
		}
	}

	queries := []struct {
		prototype dispatch.Query
		handler   dispatch.QueryHandlerFunc
	}{
		{message.GetOrder{}, func(ctx context.Context, q dispatch.Query) (any, error) {
			return svc.GetOrder(ctx, q.(message.GetOrder))
		}},
		{message.ListOrders{}, func(ctx context.Context, q dispatch.Query) (any, error) {
			return svc.ListOrders(ctx, q.(message.ListOrders))
		}},
		{message.ListAuditEntries{}, func(ctx context.Context, q dispatch.Query) (any, error) {
			return svc.ListAuditEntries(ctx, q.(message.ListAuditEntries))
		}},
	}
	for _, q := range queries {
		if err := d.RegisterQuery(q.prototype, q.handler); err != nil {
			return nil, fmt.Errorf("register query %q: %w", q.prototype.QueryName(), err)
		}
	}

	recorder := service.NewAuditRecorder(d)
	if err := d.RegisterNotification(message.OrderPlaced{}, recorder); err != nil {
		return nil, fmt.Errorf("register notification %q: %w", message.NotificationOrderPlaced, err)
	}
	if err := d.RegisterNotification(message.OrderDeleted{}, recorder); err != nil {
		return nil, fmt.Errorf("register notification %q: %w", message.NotificationOrderDeleted, err)
	}

	return svc, nil
}
