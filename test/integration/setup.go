package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shopkart/internal/database"
	"shopkart/internal/model"
	"shopkart/internal/pricing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects a pool and applies
// the schema migrations.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedCategory inserts a category and returns its ID.
func SeedCategory(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO categories (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed category %s: %v", name, err)
	}
	return id
}

// SeedProduct inserts a product with a derived special price and returns it.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, categoryID int64, name string, quantity int, price, discount float64) *model.Product {
	t.Helper()

	p := &model.Product{
		Name:         name,
		Description:  name + " description",
		Image:        "default.png",
		Quantity:     quantity,
		Price:        price,
		Discount:     discount,
		SpecialPrice: pricing.SpecialPrice(price, discount),
		CategoryID:   categoryID,
	}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO products (name, description, image, quantity, price, discount, special_price, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		p.Name, p.Description, p.Image, p.Quantity, p.Price, p.Discount, p.SpecialPrice, p.CategoryID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return p
}

// SeedAddress inserts an address and returns its ID.
func SeedAddress(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO addresses (street, building, city, state, country, pincode)
		 VALUES ('1 Main St', '', 'Pune', 'MH', 'IN', '411001') RETURNING id`).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed address: %v", err)
	}
	return id
}

// CleanupDB removes all data from the domain tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "payments", "orders", "cart_items", "carts", "addresses", "products", "categories"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
