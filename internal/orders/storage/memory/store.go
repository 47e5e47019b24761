// Package memory provides an in-memory implementation of the orders
// storage contracts, used by tests and the demo runner.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/stonegrove/herald/internal/orders/domain"
	"github.com/stonegrove/herald/internal/orders/storage"
	"github.com/stonegrove/herald/internal/platform/storage/cursor"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type orderRecord struct {
	seq   uint64
	order domain.Order
}

// Store keeps orders and audit entries in process memory.
// The zero value is not usable; construct with New.
type Store struct {
	mu       sync.RWMutex
	seq      uint64
	orders   map[string]orderRecord
	entries  map[string][]storage.AuditEntry
	entryIDs map[string]bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		orders:   make(map[string]orderRecord),
		entries:  make(map[string][]storage.AuditEntry),
		entryIDs: make(map[string]bool),
	}
}

// GetOrder returns the order with the given ID.
func (s *Store) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	if s == nil {
		return domain.Order{}, fmt.Errorf("memory store is nil")
	}
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, storage.ErrNotFound
	}
	return rec.order, nil
}

// PutOrder inserts or replaces the order.
func (s *Store) PutOrder(ctx context.Context, order domain.Order) error {
	if s == nil {
		return fmt.Errorf("memory store is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if order.ID == "" {
		return fmt.Errorf("order id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[order.ID]
	if !ok {
		s.seq++
		rec.seq = s.seq
	}
	rec.order = order
	s.orders[order.ID] = rec
	return nil
}

// ListOrders returns a page of orders in insertion order.
func (s *Store) ListOrders(ctx context.Context, pageSize int, pageToken string) (storage.OrderPage, error) {
	if s == nil {
		return storage.OrderPage{}, fmt.Errorf("memory store is nil")
	}
	if err := ctx.Err(); err != nil {
		return storage.OrderPage{}, err
	}

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var after uint64
	if pageToken != "" {
		c, err := cursor.Decode(pageToken)
		if err != nil {
			return storage.OrderPage{}, fmt.Errorf("decode page token: %w", err)
		}
		after = c.Seq
	}

	s.mu.RLock()
	records := make([]orderRecord, 0, len(s.orders))
	for _, rec := range s.orders {
		if rec.seq > after {
			records = append(records, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	page := storage.OrderPage{}
	var lastSeq uint64
	for _, rec := range records {
		if len(page.Orders) == pageSize {
			token, err := cursor.Encode(cursor.NewForwardCursor(lastSeq))
			if err != nil {
				return storage.OrderPage{}, fmt.Errorf("encode page token: %w", err)
			}
			page.NextPageToken = token
			break
		}
		page.Orders = append(page.Orders, rec.order)
		lastSeq = rec.seq
	}
	return page, nil
}

// AppendAuditEntry appends an entry to the order's audit trail.
func (s *Store) AppendAuditEntry(ctx context.Context, entry storage.AuditEntry) error {
	if s == nil {
		return fmt.Errorf("memory store is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.ID == "" {
		return fmt.Errorf("entry id is required")
	}
	if entry.OrderID == "" {
		return fmt.Errorf("order id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entryIDs[entry.ID] {
		return storage.ErrAlreadyExists
	}
	s.entryIDs[entry.ID] = true
	s.entries[entry.OrderID] = append(s.entries[entry.OrderID], entry)
	return nil
}

// ListAuditEntries returns the audit trail for the order in append order.
func (s *Store) ListAuditEntries(ctx context.Context, orderID string) ([]storage.AuditEntry, error) {
	if s == nil {
		return nil, fmt.Errorf("memory store is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.entries[orderID]
	out := make([]storage.AuditEntry, len(entries))
	copy(out, entries)
	return out, nil
}
