package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatusAccepted is the initial status of every placed order.
const OrderStatusAccepted = "Order Accepted !"

// Order is the immutable record of a placed order. TotalAmount is copied from
// the cart's total at placement time.
type Order struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	OrderDate      time.Time `json:"orderDate" db:"order_date"`
	TotalAmount    float64   `json:"totalAmount" db:"total_amount"`
	OrderStatus    string    `json:"orderStatus" db:"order_status"`
	AddressID      int64     `json:"addressId" db:"address_id"`
	IdempotencyKey *string   `json:"-" db:"idempotency_key"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// OrderItem is a permanent historical record of one ordered line. Quantity,
// Discount and OrderedProductPrice are copied from the corresponding cart item
// at placement time and never track later product changes.
type OrderItem struct {
	ID                  uuid.UUID `json:"-" db:"id"`
	OrderID             uuid.UUID `json:"-" db:"order_id"`
	ProductID           int64     `json:"productId" db:"product_id"`
	Quantity            int       `json:"quantity" db:"quantity"`
	Discount            float64   `json:"discount" db:"discount"`
	OrderedProductPrice float64   `json:"orderedProductPrice" db:"ordered_product_price"`
}

// Payment carries the payment method and the gateway-assigned result fields,
// all opaque to this service.
type Payment struct {
	ID                uuid.UUID `json:"id" db:"id"`
	OrderID           uuid.UUID `json:"-" db:"order_id"`
	PaymentMethod     string    `json:"paymentMethod" db:"payment_method"`
	PgName            string    `json:"pgName" db:"pg_name"`
	PgPaymentID       string    `json:"pgPaymentId" db:"pg_payment_id"`
	PgStatus          string    `json:"pgStatus" db:"pg_status"`
	PgResponseMessage string    `json:"pgResponseMessage" db:"pg_response_message"`
}

// PlaceOrderRequest represents the payload for placing an order from the
// caller's cart. IdempotencyKey, when supplied, de-duplicates retries of the
// same placement.
type PlaceOrderRequest struct {
	AddressID         int64   `json:"addressId" validate:"required,gt=0"`
	PaymentMethod     string  `json:"paymentMethod" validate:"required"`
	PgName            string  `json:"pgName"`
	PgPaymentID       string  `json:"pgPaymentId"`
	PgStatus          string  `json:"pgStatus"`
	PgResponseMessage string  `json:"pgResponseMessage"`
	IdempotencyKey    *string `json:"idempotencyKey,omitempty"`
}

// OrderItemView is an ordered line with its full product view.
type OrderItemView struct {
	Product             ProductView `json:"product"`
	Quantity            int         `json:"quantity"`
	Discount            float64     `json:"discount"`
	OrderedProductPrice float64     `json:"orderedProductPrice"`
}

// OrderResponse is the order view returned across the API boundary.
type OrderResponse struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	OrderDate   time.Time       `json:"orderDate"`
	TotalAmount float64         `json:"totalAmount"`
	OrderStatus string          `json:"orderStatus"`
	AddressID   int64           `json:"addressId"`
	Payment     *Payment        `json:"payment,omitempty"`
	Items       []OrderItemView `json:"items"`
}
