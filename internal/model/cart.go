package model

import "time"

// Cart holds the mutable shopping cart of exactly one user. TotalPrice is kept
// equal to the sum over the cart's current items of productPrice * quantity;
// every mutation path rebalances it inside the same transaction.
type Cart struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	Email      string    `json:"email" db:"email"`
	TotalPrice float64   `json:"totalPrice" db:"total_price"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem is a single line in a cart. ProductPrice and Discount are snapshots
// of the product's special price and discount as of the last mutation of the
// line, not live references. A cart holds at most one line per product, and a
// line's quantity is always at least 1; a line reaching 0 is deleted.
type CartItem struct {
	ID           int64   `json:"id" db:"id"`
	CartID       int64   `json:"cartId" db:"cart_id"`
	ProductID    int64   `json:"productId" db:"product_id"`
	Quantity     int     `json:"quantity" db:"quantity"`
	ProductPrice float64 `json:"productPrice" db:"product_price"`
	Discount     float64 `json:"discount" db:"discount"`
}

// AddToCartRequest represents the payload for adding a product to the cart.
type AddToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CartResponse is the cart view returned across the API boundary: the running
// total plus each line re-expressed as a product view carrying the line
// quantity.
type CartResponse struct {
	ID         int64         `json:"id"`
	TotalPrice float64       `json:"totalPrice"`
	Products   []ProductView `json:"products"`
}
