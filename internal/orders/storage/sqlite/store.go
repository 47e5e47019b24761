// Package sqlite provides a SQLite-backed orders storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/stonegrove/herald/internal/orders/domain"
	"github.com/stonegrove/herald/internal/orders/storage"
	"github.com/stonegrove/herald/internal/orders/storage/sqlite/migrations"
	"github.com/stonegrove/herald/internal/platform/storage/cursor"
	sqlitemigrate "github.com/stonegrove/herald/internal/platform/storage/sqlitemigrate"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Store persists orders and audit entries in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// storedLine is the JSON column representation of a single order line.
type storedLine struct {
	SKU        string `json:"sku"`
	Quantity   int    `json:"quantity"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

// Open opens a SQLite orders store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetOrder returns one order by ID.
func (s *Store) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Order{}, fmt.Errorf("storage is not configured")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.Order{}, fmt.Errorf("order id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT order_id, customer_id, status, lines_json, created_at, updated_at
		   FROM orders
		  WHERE order_id = ?`,
		orderID,
	)
	order, err := scanOrder(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, storage.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// PutOrder inserts or replaces the order record.
func (s *Store) PutOrder(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(order.ID) == "" {
		return fmt.Errorf("order id is required")
	}

	lines := make([]storedLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, storedLine{
			SKU:        line.SKU,
			Quantity:   line.Quantity,
			UnitAmount: line.Unit.Amount,
			Currency:   line.Unit.Currency,
		})
	}
	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal order lines: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO orders (order_id, customer_id, status, lines_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(order_id) DO UPDATE SET
		   customer_id = excluded.customer_id,
		   status = excluded.status,
		   lines_json = excluded.lines_json,
		   updated_at = excluded.updated_at`,
		order.ID,
		order.CustomerID,
		int32(order.Status),
		string(linesJSON),
		toMillis(order.CreatedAt),
		toMillis(order.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

// ListOrders returns one page of orders in insertion order.
func (s *Store) ListOrders(ctx context.Context, pageSize int, pageToken string) (storage.OrderPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.OrderPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.OrderPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var after uint64
	if pageToken = strings.TrimSpace(pageToken); pageToken != "" {
		c, err := cursor.Decode(pageToken)
		if err != nil {
			return storage.OrderPage{}, fmt.Errorf("decode page token: %w", err)
		}
		after = c.Seq
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT seq, order_id, customer_id, status, lines_json, created_at, updated_at
		   FROM orders
		  WHERE seq > ?
		  ORDER BY seq ASC
		  LIMIT ?`,
		after,
		pageSize+1,
	)
	if err != nil {
		return storage.OrderPage{}, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	page := storage.OrderPage{
		Orders: make([]domain.Order, 0, pageSize),
	}
	var seqs []uint64
	for rows.Next() {
		var seq uint64
		order, err := scanOrder(func(dest ...any) error {
			return rows.Scan(append([]any{&seq}, dest...)...)
		})
		if err != nil {
			return storage.OrderPage{}, fmt.Errorf("list orders: %w", err)
		}
		page.Orders = append(page.Orders, order)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		return storage.OrderPage{}, fmt.Errorf("list orders: %w", err)
	}
	if len(page.Orders) > pageSize {
		token, err := cursor.Encode(cursor.NewForwardCursor(seqs[pageSize-1]))
		if err != nil {
			return storage.OrderPage{}, fmt.Errorf("encode page token: %w", err)
		}
		page.NextPageToken = token
		page.Orders = page.Orders[:pageSize]
	}
	return page, nil
}

// AppendAuditEntry appends one audit record.
func (s *Store) AppendAuditEntry(ctx context.Context, entry storage.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(entry.ID) == "" {
		return fmt.Errorf("entry id is required")
	}
	if strings.TrimSpace(entry.OrderID) == "" {
		return fmt.Errorf("order id is required")
	}
	recordedAt := entry.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO audit_entries (entry_id, order_id, action, detail, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.OrderID,
		entry.Action,
		entry.Detail,
		toMillis(recordedAt),
	)
	if err != nil {
		if isAuditEntryUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns the audit trail for one order in append order.
func (s *Store) ListAuditEntries(ctx context.Context, orderID string) ([]storage.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("order id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT entry_id, order_id, action, detail, recorded_at
		   FROM audit_entries
		  WHERE order_id = ?
		  ORDER BY seq ASC`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []storage.AuditEntry
	for rows.Next() {
		var entry storage.AuditEntry
		var recordedAt int64
		if err := rows.Scan(&entry.ID, &entry.OrderID, &entry.Action, &entry.Detail, &recordedAt); err != nil {
			return nil, fmt.Errorf("list audit entries: %w", err)
		}
		entry.RecordedAt = fromMillis(recordedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

func scanOrder(scan func(dest ...any) error) (domain.Order, error) {
	var order domain.Order
	var status int32
	var linesJSON string
	var createdAt int64
	var updatedAt int64
	if err := scan(&order.ID, &order.CustomerID, &status, &linesJSON, &createdAt, &updatedAt); err != nil {
		return domain.Order{}, err
	}

	var stored []storedLine
	if err := json.Unmarshal([]byte(linesJSON), &stored); err != nil {
		return domain.Order{}, fmt.Errorf("unmarshal order lines: %w", err)
	}
	if len(stored) > 0 {
		order.Lines = make([]domain.Line, 0, len(stored))
		for _, line := range stored {
			order.Lines = append(order.Lines, domain.Line{
				SKU:      line.SKU,
				Quantity: line.Quantity,
				Unit:     domain.Money{Amount: line.UnitAmount, Currency: line.Currency},
			})
		}
	}
	order.Status = domain.Status(status)
	order.CreatedAt = fromMillis(createdAt)
	order.UpdatedAt = fromMillis(updatedAt)
	return order, nil
}

func isAuditEntryUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "audit_entries.entry_id")
}

var _ storage.Store = (*Store)(nil)
