// Package service implements the orders command and query handlers.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stonegrove/herald/internal/dispatch"
	"github.com/stonegrove/herald/internal/orders/domain"
	"github.com/stonegrove/herald/internal/orders/message"
	"github.com/stonegrove/herald/internal/orders/storage"
	"github.com/stonegrove/herald/internal/platform/id"
)

// Service coordinates order aggregates, persistence, and the notifications
// that follow successful state changes.
type Service struct {
	store      storage.Store
	dispatcher *dispatch.Dispatcher
	now        func() time.Time
	newID      func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the ID generator, mainly for tests.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// New creates an orders service. The dispatcher is used to publish
// notifications after successful state changes.
func New(store storage.Store, dispatcher *dispatch.Dispatcher, opts ...Option) *Service {
	s := &Service{
		store:      store,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder opens a new draft order. Validation failures leave the store
// untouched.
func (s *Service) CreateOrder(ctx context.Context, cmd message.CreateOrder) (domain.Order, error) {
	order, err := domain.CreateOrder(domain.CreateOrderInput{
		ID:         cmd.ID,
		CustomerID: cmd.CustomerID,
		Lines:      cmd.Lines,
	}, s.now, s.newID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.store.PutOrder(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}
	return order, nil
}

// AddOrderLine adds a line to a draft order.
func (s *Service) AddOrderLine(ctx context.Context, cmd message.AddOrderLine) (domain.Order, error) {
	return s.mutate(ctx, cmd.OrderID, func(order domain.Order) (domain.Order, error) {
		return domain.AddLine(order, cmd.Line, s.now)
	})
}

// RemoveOrderLine removes a line from a draft order.
func (s *Service) RemoveOrderLine(ctx context.Context, cmd message.RemoveOrderLine) (domain.Order, error) {
	return s.mutate(ctx, cmd.OrderID, func(order domain.Order) (domain.Order, error) {
		return domain.RemoveLine(order, cmd.SKU, s.now)
	})
}

// SubmitOrder places a draft order and announces the placement.
func (s *Service) SubmitOrder(ctx context.Context, cmd message.SubmitOrder) (domain.Order, error) {
	order, err := s.mutate(ctx, cmd.OrderID, func(order domain.Order) (domain.Order, error) {
		return domain.Submit(order, s.now)
	})
	if err != nil {
		return domain.Order{}, err
	}
	if _, err := s.dispatcher.Dispatch(ctx, message.OrderPlaced{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Lines:      len(order.Lines),
		PlacedAt:   order.UpdatedAt,
	}); err != nil {
		return domain.Order{}, fmt.Errorf("announce order placed: %w", err)
	}
	return order, nil
}

// CancelOrder cancels a draft or submitted order.
func (s *Service) CancelOrder(ctx context.Context, cmd message.CancelOrder) (domain.Order, error) {
	return s.mutate(ctx, cmd.OrderID, func(order domain.Order) (domain.Order, error) {
		return domain.Cancel(order, s.now)
	})
}

// DeleteOrder moves an order to its terminal state and announces the
// deletion. A missing order fails without touching the store.
func (s *Service) DeleteOrder(ctx context.Context, cmd message.DeleteOrder) (domain.Order, error) {
	order, err := s.mutate(ctx, cmd.OrderID, func(order domain.Order) (domain.Order, error) {
		return domain.Delete(order, s.now)
	})
	if err != nil {
		return domain.Order{}, err
	}
	if _, err := s.dispatcher.Dispatch(ctx, message.OrderDeleted{
		OrderID:   order.ID,
		DeletedAt: order.UpdatedAt,
	}); err != nil {
		return domain.Order{}, fmt.Errorf("announce order deleted: %w", err)
	}
	return order, nil
}

// RecordAuditEntry appends one entry to an order's audit trail.
func (s *Service) RecordAuditEntry(ctx context.Context, cmd message.RecordAuditEntry) (storage.AuditEntry, error) {
	if strings.TrimSpace(cmd.OrderID) == "" {
		return storage.AuditEntry{}, fmt.Errorf("order id is required")
	}
	if strings.TrimSpace(cmd.Action) == "" {
		return storage.AuditEntry{}, fmt.Errorf("action is required")
	}
	entryID, err := s.newID()
	if err != nil {
		return storage.AuditEntry{}, fmt.Errorf("generate entry id: %w", err)
	}
	entry := storage.AuditEntry{
		ID:         entryID,
		OrderID:    cmd.OrderID,
		Action:     cmd.Action,
		Detail:     cmd.Detail,
		RecordedAt: s.now(),
	}
	if err := s.store.AppendAuditEntry(ctx, entry); err != nil {
		return storage.AuditEntry{}, fmt.Errorf("append audit entry: %w", err)
	}
	return entry, nil
}

// GetOrder returns one order by ID.
func (s *Service) GetOrder(ctx context.Context, q message.GetOrder) (domain.Order, error) {
	return s.store.GetOrder(ctx, q.OrderID)
}

// ListOrders returns one page of orders.
func (s *Service) ListOrders(ctx context.Context, q message.ListOrders) (storage.OrderPage, error) {
	return s.store.ListOrders(ctx, q.PageSize, q.PageToken)
}

// ListAuditEntries returns the audit trail for one order.
func (s *Service) ListAuditEntries(ctx context.Context, q message.ListAuditEntries) ([]storage.AuditEntry, error) {
	return s.store.ListAuditEntries(ctx, q.OrderID)
}

// mutate loads the order, applies the pure mutation, and saves the result.
// A failed load or mutation leaves the store untouched.
func (s *Service) mutate(ctx context.Context, orderID string, apply func(domain.Order) (domain.Order, error)) (domain.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	updated, err := apply(order)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.store.PutOrder(ctx, updated); err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}
	return updated, nil
}
