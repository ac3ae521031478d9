package models

import (
	"time"
)

// Cart holds at most one line item per distinct product. One cart per
// customer, created lazily on first access.
type Cart struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CartItem is the stored line: the price is a snapshot taken at the last
// add/update mutation, not the live product price.
type CartItem struct {
	ID        int64   `db:"id" json:"-"`
	CartID    int64   `db:"cart_id" json:"-"`
	ProductID int64   `db:"product_id" json:"product_id"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
}

// CartLine is a stored item joined against the live product record for
// display and for checkout validation.
type CartLine struct {
	CartItem
	ProductName     string  `db:"product_name" json:"name"`
	ProductPrice    float64 `db:"product_price" json:"current_price"`
	ProductImage    string  `db:"product_image" json:"image"`
	ProductStock    int     `db:"product_stock" json:"stock"`
	ProductActive   bool    `db:"product_active" json:"-"`
	ProductVendorID int64   `db:"product_vendor_id" json:"-"`
}

func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// CartView is the resolved cart returned by every cart endpoint.
type CartView struct {
	ID     int64      `json:"id"`
	UserID int64      `json:"user_id"`
	Items  []CartLine `json:"items"`
	Total  float64    `json:"total"`
}
