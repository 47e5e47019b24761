package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stonegrove/herald/internal/orders/domain"
	"github.com/stonegrove/herald/internal/orders/storage"
)

var fixedTime = time.Date(2026, time.August, 12, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func testOrder(t *testing.T, id string) domain.Order {
	t.Helper()
	order, err := domain.CreateOrder(domain.CreateOrderInput{
		ID:         id,
		CustomerID: "cust-1",
		Lines: []domain.LineInput{
			{SKU: "SKU-1", Quantity: 2, UnitAmount: 500, Currency: "USD"},
			{SKU: "SKU-2", Quantity: 1, UnitAmount: 250, Currency: "USD"},
		},
	}, fixedClock, nil)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestGetOrderNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetOrder(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	order := testOrder(t, "ord-1")

	if err := store.PutOrder(ctx, order); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.GetOrder(ctx, "ord-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != order.ID || got.CustomerID != order.CustomerID {
		t.Fatalf("got = %+v, want stored identity", got)
	}
	if got.Status != domain.StatusDraft {
		t.Fatalf("status = %v, want draft", got.Status)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}
	if got.Lines[0].SKU != "SKU-1" || got.Lines[0].Quantity != 2 || got.Lines[0].Unit.Amount != 500 {
		t.Fatalf("line 0 = %+v, want SKU-1 x2 @500", got.Lines[0])
	}
	if !got.CreatedAt.Equal(fixedTime) || !got.UpdatedAt.Equal(fixedTime) {
		t.Fatal("expected timestamps preserved")
	}
	total, err := got.Total()
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total.Amount != 1250 {
		t.Fatalf("total = %d, want 1250", total.Amount)
	}
}

func TestPutOrderUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	order := testOrder(t, "ord-1")

	if err := store.PutOrder(ctx, order); err != nil {
		t.Fatalf("put: %v", err)
	}
	deleted, err := domain.Delete(order, fixedClock)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.PutOrder(ctx, deleted); err != nil {
		t.Fatalf("put deleted: %v", err)
	}

	got, err := store.GetOrder(ctx, "ord-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Deleted() {
		t.Fatalf("status = %v, want deleted", got.Status)
	}
}

func TestListOrdersPaginates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for i := range 5 {
		if err := store.PutOrder(ctx, testOrder(t, fmt.Sprintf("ord-%d", i))); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	first, err := store.ListOrders(ctx, 3, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first.Orders) != 3 || first.NextPageToken == "" {
		t.Fatalf("first page = %d orders, token %q", len(first.Orders), first.NextPageToken)
	}

	second, err := store.ListOrders(ctx, 3, first.NextPageToken)
	if err != nil {
		t.Fatalf("list next: %v", err)
	}
	if len(second.Orders) != 2 || second.NextPageToken != "" {
		t.Fatalf("second page = %d orders, token %q", len(second.Orders), second.NextPageToken)
	}
	if second.Orders[0].ID != "ord-3" {
		t.Fatalf("expected insertion order to continue, got %q", second.Orders[0].ID)
	}
}

func TestListOrdersRejectsBadToken(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.ListOrders(context.Background(), 10, "not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestAuditEntryRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := range 3 {
		entry := storage.AuditEntry{
			ID:         fmt.Sprintf("audit-%d", i),
			OrderID:    "ord-1",
			Action:     "order.placed",
			Detail:     "3 lines",
			RecordedAt: fixedTime,
		}
		if err := store.AppendAuditEntry(ctx, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := store.ListAuditEntries(ctx, "ord-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].ID != "audit-0" || entries[2].ID != "audit-2" {
		t.Fatal("expected append order preserved")
	}
	if entries[0].Action != "order.placed" || entries[0].Detail != "3 lines" {
		t.Fatalf("entry 0 = %+v, want action and detail preserved", entries[0])
	}
	if !entries[0].RecordedAt.Equal(fixedTime) {
		t.Fatal("expected recorded_at preserved")
	}
}

func TestAppendAuditEntryRejectsDuplicateID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	entry := storage.AuditEntry{ID: "audit-1", OrderID: "ord-1", Action: "order.placed", RecordedAt: fixedTime}

	if err := store.AppendAuditEntry(ctx, entry); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.AppendAuditEntry(ctx, entry); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestNilStoreGuards(t *testing.T) {
	var store *Store
	ctx := context.Background()

	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
	if _, err := store.GetOrder(ctx, "ord-1"); err == nil {
		t.Fatal("expected error from nil store")
	}
	if err := store.PutOrder(ctx, domain.Order{ID: "ord-1"}); err == nil {
		t.Fatal("expected error from nil store")
	}
}
