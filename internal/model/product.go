package model

import "time"

// Product represents a product in the storefront catalogue.
//
// SpecialPrice is derived from Price and Discount by the pricing package and
// must be rewritten on every price or discount mutation.
type Product struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	Image        string    `json:"image" db:"image"`
	Quantity     int       `json:"quantity" db:"quantity"`
	Price        float64   `json:"price" db:"price"`
	Discount     float64   `json:"discount" db:"discount"`
	SpecialPrice float64   `json:"specialPrice" db:"special_price"`
	CategoryID   int64     `json:"categoryId" db:"category_id"`
	SellerID     *int64    `json:"sellerId,omitempty" db:"seller_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Category groups products in the catalogue.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ProductRequest represents the payload for creating or updating a product.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3"`
	Description string  `json:"description" validate:"required,min=3"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	Discount    float64 `json:"discount" validate:"gte=0,lte=100"`
}

// CategoryRequest represents the payload for creating a category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// ProductView is a product as presented inside a cart or order view. Quantity
// carries the line quantity rather than the on-hand stock.
type ProductView struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Discount     float64 `json:"discount"`
	SpecialPrice float64 `json:"specialPrice"`
}

// View re-expresses the product with the given line quantity.
func (p *Product) View(lineQuantity int) ProductView {
	return ProductView{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Image:        p.Image,
		Quantity:     lineQuantity,
		Price:        p.Price,
		Discount:     p.Discount,
		SpecialPrice: p.SpecialPrice,
	}
}
