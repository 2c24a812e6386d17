package services

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// DatabaseService wraps the relational store used by the direct-engine
// backend, the SQL tenant resolver and the preference store. A nil inner DB
// is allowed so the process can run on the REST backend alone.
type DatabaseService struct {
	db *sql.DB
}

func NewDatabaseService(databaseURL string) (*DatabaseService, error) {
	if databaseURL == "" {
		return &DatabaseService{}, nil // graceful degradation, REST-only mode
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DatabaseService{db: db}, nil
}

// DB exposes the underlying pool; nil when no DATABASE_URL was configured.
func (d *DatabaseService) DB() *sql.DB {
	return d.db
}

func (d *DatabaseService) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Migrate applies the embedded schema migrations.
func (d *DatabaseService) Migrate() error {
	if d.db == nil {
		return nil
	}
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := postgres.WithInstance(d.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

var demoItems = []string{
	"Milk", "Bread", "Eggs", "Cheese", "Yogurt", "Butter", "Chicken", "Beef",
	"Fish", "Rice", "Pasta", "Tomatoes", "Onions", "Potatoes", "Apples", "Bananas",
}

// SeedDemoData creates one demo shop with items and ~100 sales rows spread
// over the last 30 days. It does nothing when sales already exist.
func (d *DatabaseService) SeedDemoData(ctx context.Context, ownerPhone string) error {
	if d.db == nil {
		return nil
	}
	var count int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sales").Scan(&count); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	shopID := uuid.NewString()
	if _, err := d.db.ExecContext(ctx,
		"INSERT INTO shops (id, owner_phone, shop_name) VALUES ($1, $2, $3)",
		shopID, ownerPhone, "Demo Kirana Store"); err != nil {
		return fmt.Errorf("seed shop: %w", err)
	}

	itemIDs := make(map[string]string, len(demoItems))
	for _, name := range demoItems {
		id := uuid.NewString()
		itemIDs[name] = id
		if _, err := d.db.ExecContext(ctx,
			"INSERT INTO items (id, shop_id, item_name, stock_quantity, expiry_date) VALUES ($1, $2, $3, $4, $5)",
			id, shopID, name, rand.Intn(100)+10,
			time.Now().AddDate(0, 0, rand.Intn(30)+1)); err != nil {
			return fmt.Errorf("seed item %s: %w", name, err)
		}
	}

	for i := 0; i < 100; i++ {
		name := demoItems[rand.Intn(len(demoItems))]
		saleDate := time.Now().AddDate(0, 0, -rand.Intn(30))
		expiry := saleDate.AddDate(0, 0, rand.Intn(30)+1)
		if _, err := d.db.ExecContext(ctx,
			`INSERT INTO sales (id, item_id, item_name, quantity_sold, profit, sale_date, expiry_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.NewString(), itemIDs[name], name,
			rand.Intn(50)+1, float64(rand.Intn(950)+50)/100.0,
			saleDate, expiry); err != nil {
			return fmt.Errorf("seed sale: %w", err)
		}
	}
	return nil
}
