package service

import (
	"context"

	"shopkart/internal/auth"
	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CartService defines the cart mutation operations. Every mutation executes as
// a single transaction scoped to the affected cart's rows.
type CartService interface {
	// AddToCart adds a new line for the product to the caller's cart, creating
	// the cart lazily on first use. Adding a product that already has a line
	// is a conflict; the quantity-adjustment path exists for that.
	AddToCart(ctx context.Context, p auth.Principal, productID int64, quantity int) (*model.CartResponse, error)

	// AdjustQuantity changes an existing line's quantity by delta (+1 or -1).
	// A resulting quantity of zero removes the line.
	AdjustQuantity(ctx context.Context, p auth.Principal, productID int64, delta int) (*model.CartResponse, error)

	// RemoveFromCart deletes the cart's line for the product and rebalances the
	// cart total. Returns a confirmation message naming the removed product.
	RemoveFromCart(ctx context.Context, cartID, productID int64) (string, error)

	// RemoveFromCartTx is the removal path for callers that already hold a
	// transaction with the cart row locked, such as order placement.
	RemoveFromCartTx(ctx context.Context, tx pgx.Tx, cartID, productID int64) (string, error)

	// Reprice refreshes the line's price snapshot from the product's current
	// special price and rebalances the cart total. Invoked when a product's
	// price changes elsewhere.
	Reprice(ctx context.Context, cartID, productID int64) error

	// GetCart retrieves the caller's cart view.
	GetCart(ctx context.Context, p auth.Principal) (*model.CartResponse, error)

	// GetAllCarts retrieves every cart's view.
	GetAllCarts(ctx context.Context) ([]model.CartResponse, error)
}

// OrderService defines operations for order placement and retrieval.
type OrderService interface {
	// PlaceOrder converts the caller's cart into an order, payment and order
	// items, decrements stock and empties the cart - all as one transaction.
	PlaceOrder(ctx context.Context, email string, req *model.PlaceOrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with payment, items and product details.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

// ProductService defines operations for catalogue management.
type ProductService interface {
	// Create adds a product to a category, deriving its special price.
	Create(ctx context.Context, categoryID int64, req *model.ProductRequest) (*model.Product, error)

	// Update rewrites a product, re-derives its special price and repriced any
	// cart lines holding it.
	Update(ctx context.Context, productID int64, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product, first removing it from every cart holding it.
	Delete(ctx context.Context, productID int64) (*model.Product, error)

	// GetByID retrieves a single product.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByCategory retrieves a category's products with pagination.
	GetByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]model.Product, error)

	// Search retrieves products matching a name keyword with pagination.
	Search(ctx context.Context, keyword string, limit, offset int) ([]model.Product, error)

	// CreateCategory adds a new category.
	CreateCategory(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)
}

// AddressService defines operations for the address book consumed by order
// placement.
type AddressService interface {
	// Create adds a new address.
	Create(ctx context.Context, req *model.AddressRequest) (*model.Address, error)

	// GetByID retrieves an address.
	GetByID(ctx context.Context, id int64) (*model.Address, error)
}
