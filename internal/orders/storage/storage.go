// Package storage defines persistence contracts for the orders service.
package storage

import (
	"context"
	"time"

	"github.com/stonegrove/herald/internal/orders/domain"
	apperrors "github.com/stonegrove/herald/internal/platform/errors"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrAlreadyExists indicates a record with the same identity already exists.
var ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "record already exists")

// OrderPage is a page of orders plus the token for the next page.
// NextPageToken is empty when no further pages exist.
type OrderPage struct {
	Orders        []domain.Order
	NextPageToken string
}

// OrderStore persists order aggregates.
//
// PutOrder is an upsert: the stored record is replaced wholesale with the
// given instance, including terminal-state instances.
type OrderStore interface {
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	PutOrder(ctx context.Context, order domain.Order) error
	ListOrders(ctx context.Context, pageSize int, pageToken string) (OrderPage, error)
}

// AuditEntry records a single lifecycle event observed for an order.
type AuditEntry struct {
	ID         string
	OrderID    string
	Action     string
	Detail     string
	RecordedAt time.Time
}

// AuditStore persists the append-only audit trail.
type AuditStore interface {
	AppendAuditEntry(ctx context.Context, entry AuditEntry) error
	ListAuditEntries(ctx context.Context, orderID string) ([]AuditEntry, error)
}

// Store combines the order and audit stores for wiring.
type Store interface {
	OrderStore
	AuditStore
}
