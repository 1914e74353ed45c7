package repository

import (
	"context"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetByID retrieves a single product by its ID. Returns nil when missing.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// GetByCategory retrieves products of one category with pagination.
	GetByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]model.Product, error)

	// Search retrieves products whose name matches the keyword, with pagination.
	Search(ctx context.Context, keyword string, limit, offset int) ([]model.Product, error)

	// ExistsInCategory reports whether a product with the given name already
	// exists in the category.
	ExistsInCategory(ctx context.Context, categoryID int64, name string) (bool, error)

	// Create inserts a new product and fills in its generated ID.
	Create(ctx context.Context, p *model.Product) error

	// Update rewrites all mutable columns of the product.
	Update(ctx context.Context, p *model.Product) error

	// Delete removes the product.
	Delete(ctx context.Context, id int64) error

	// DecrementStock conditionally decrements on-hand stock within the provided
	// transaction. Returns false when remaining stock is below quantity; the
	// row is left untouched in that case.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) (bool, error)
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// GetByID retrieves a category by its ID. Returns nil when missing.
	GetByID(ctx context.Context, id int64) (*model.Category, error)

	// Create inserts a new category and fills in its generated ID.
	Create(ctx context.Context, c *model.Category) error
}

// CartRepository defines the interface for cart data access operations.
//
// Mutating methods take a pgx.Tx: every cart mutation runs as one transaction
// scoped to that cart's rows, entered through BeginTx and serialised on the
// cart row via Lock.
type CartRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetByUserID retrieves a user's cart. Returns nil when missing.
	GetByUserID(ctx context.Context, userID int64) (*model.Cart, error)

	// GetByEmail retrieves a cart by its owner's email. Returns nil when missing.
	GetByEmail(ctx context.Context, email string) (*model.Cart, error)

	// GetByID retrieves a cart by ID. Returns nil when missing.
	GetByID(ctx context.Context, id int64) (*model.Cart, error)

	// Create lazily creates the user's cart with a zero total. Safe to call
	// when the cart already exists; the existing row is returned.
	Create(ctx context.Context, cart *model.Cart) error

	// Lock locks the cart row for the duration of the transaction. Returns nil
	// when the cart does not exist.
	Lock(ctx context.Context, tx pgx.Tx, cartID int64) (*model.Cart, error)

	// GetItems retrieves all lines of a cart.
	GetItems(ctx context.Context, cartID int64) ([]model.CartItem, error)

	// GetItemsTx retrieves all lines of a cart within the transaction.
	GetItemsTx(ctx context.Context, tx pgx.Tx, cartID int64) ([]model.CartItem, error)

	// GetItemTx retrieves the cart's line for one product within the
	// transaction. Returns nil when missing.
	GetItemTx(ctx context.Context, tx pgx.Tx, cartID, productID int64) (*model.CartItem, error)

	// InsertItem inserts a new line within the transaction.
	InsertItem(ctx context.Context, tx pgx.Tx, item *model.CartItem) error

	// UpdateItem rewrites a line's quantity and price/discount snapshot within
	// the transaction.
	UpdateItem(ctx context.Context, tx pgx.Tx, item *model.CartItem) error

	// DeleteItem removes the cart's line for one product within the
	// transaction. Returns false when no such line existed.
	DeleteItem(ctx context.Context, tx pgx.Tx, cartID, productID int64) (bool, error)

	// RecomputeTotal rewrites the cart's total price as the sum over its
	// current lines of product_price * quantity, within the transaction, and
	// returns the new total.
	RecomputeTotal(ctx context.Context, tx pgx.Tx, cartID int64) (float64, error)

	// FindCartIDsByProduct returns the IDs of all carts currently holding the
	// product.
	FindCartIDsByProduct(ctx context.Context, productID int64) ([]int64, error)

	// GetAll retrieves every cart.
	GetAll(ctx context.Context) ([]model.Cart, error)
}

// AddressRepository defines the interface for address data access operations.
type AddressRepository interface {
	// GetByID retrieves an address by its ID. Returns nil when missing.
	GetByID(ctx context.Context, id int64) (*model.Address, error)

	// Create inserts a new address and fills in its generated ID.
	Create(ctx context.Context, a *model.Address) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreatePayment inserts the order's payment record within the provided
	// transaction.
	CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error

	// CreateOrderItems inserts multiple order items within the provided
	// transaction as one batch.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its payment and items. Returns nils when
	// the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, *model.Payment, []model.OrderItem, error)

	// GetByIdempotencyKey retrieves the order previously placed with the key.
	// Returns nil when no such order exists.
	GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error)
}
