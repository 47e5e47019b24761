// Package demo parses demo command flags and runs a scripted order
// lifecycle through the dispatcher.
package demo

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/stonegrove/herald/internal/dispatch"
	"github.com/stonegrove/herald/internal/orders"
	"github.com/stonegrove/herald/internal/orders/domain"
	"github.com/stonegrove/herald/internal/orders/message"
	"github.com/stonegrove/herald/internal/orders/storage"
	"github.com/stonegrove/herald/internal/orders/storage/memory"
	"github.com/stonegrove/herald/internal/orders/storage/sqlite"
	entrypoint "github.com/stonegrove/herald/internal/platform/cmd"
)

// Config holds demo command configuration.
type Config struct {
	// StoragePath points at the SQLite database file. Empty runs the demo
	// against an in-memory store.
	StoragePath string `env:"HERALD_DEMO_STORAGE_PATH"`
	CustomerID  string `env:"HERALD_DEMO_CUSTOMER_ID" envDefault:"demo-customer"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.StoragePath, "storage", cfg.StoragePath, "SQLite database path (empty uses in-memory storage)")
	fs.StringVar(&cfg.CustomerID, "customer", cfg.CustomerID, "Customer ID used for the demo order")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scripted order lifecycle.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDemo, func(ctx context.Context) error {
		store, closeStore, err := openStore(cfg.StoragePath)
		if err != nil {
			return err
		}
		defer closeStore()

		d := dispatch.New()
		if _, err := orders.Register(d, store); err != nil {
			return fmt.Errorf("register handlers: %w", err)
		}
		d.Seal()

		return runScenario(ctx, d, cfg.CustomerID)
	})
}

func openStore(path string) (storage.Store, func(), error) {
	if path == "" {
		log.Print("using in-memory storage")
		return memory.New(), func() {}, nil
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	log.Printf("using sqlite storage at %s", path)
	return store, func() {
		if err := store.Close(); err != nil {
			log.Printf("close storage: %v", err)
		}
	}, nil
}

// runScenario walks one order through its full lifecycle and prints each
// step's outcome.
func runScenario(ctx context.Context, d *dispatch.Dispatcher, customerID string) error {
	result, err := d.Dispatch(ctx, message.CreateOrder{
		CustomerID: customerID,
		Lines: []domain.LineInput{
			{SKU: "SKU-COFFEE", Quantity: 2, UnitAmount: 1250, Currency: "USD"},
			{SKU: "SKU-FILTER", Quantity: 1, UnitAmount: 450, Currency: "USD"},
		},
	})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	order := result.(domain.Order)
	log.Printf("created order %s for %s", order.ID, order.CustomerID)

	result, err = d.Dispatch(ctx, message.AddOrderLine{
		OrderID: order.ID,
		Line:    domain.LineInput{SKU: "SKU-MUG", Quantity: 1, UnitAmount: 900, Currency: "USD"},
	})
	if err != nil {
		return fmt.Errorf("add line: %w", err)
	}
	order = result.(domain.Order)
	total, err := order.Total()
	if err != nil {
		return fmt.Errorf("total: %w", err)
	}
	log.Printf("order %s has %d lines totalling %s", order.ID, len(order.Lines), total)

	if _, err = d.Dispatch(ctx, message.SubmitOrder{OrderID: order.ID}); err != nil {
		return fmt.Errorf("submit order: %w", err)
	}
	log.Printf("submitted order %s", order.ID)

	result, err = d.Dispatch(ctx, message.ListOrders{PageSize: 10})
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	page := result.(storage.OrderPage)
	log.Printf("store holds %d order(s)", len(page.Orders))

	if _, err = d.Dispatch(ctx, message.DeleteOrder{OrderID: order.ID}); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	log.Printf("deleted order %s", order.ID)

	result, err = d.Dispatch(ctx, message.ListAuditEntries{OrderID: order.ID})
	if err != nil {
		return fmt.Errorf("list audit entries: %w", err)
	}
	for _, entry := range result.([]storage.AuditEntry) {
		log.Printf("audit: %s %s %s", entry.RecordedAt.Format("15:04:05"), entry.Action, entry.Detail)
	}
	return nil
}
