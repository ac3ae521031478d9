package models

import (
	"time"
)

const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

func ValidOrderStatus(status string) bool {
	switch status {
	case OrderPending, OrderConfirmed, OrderProcessing,
		OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type ShippingAddress struct {
	Street  string `db:"street" json:"street" binding:"required"`
	City    string `db:"city" json:"city" binding:"required"`
	State   string `db:"state" json:"state" binding:"required"`
	ZipCode string `db:"zip_code" json:"zip_code" binding:"required"`
	Country string `db:"country" json:"country" binding:"required"`
}

// Order is an immutable snapshot of a cart taken at checkout. Only Status is
// mutable afterwards.
type Order struct {
	ID              int64           `db:"id" json:"id"`
	OrderID         string          `db:"order_id" json:"order_id"`
	CustomerID      int64           `db:"customer_id" json:"customer_id"`
	TotalAmount     float64         `db:"total_amount" json:"total_amount"`
	Status          string          `db:"status" json:"status"`
	PaymentStatus   string          `db:"payment_status" json:"payment_status"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Notes           string          `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
	Items           []OrderItem     `db:"-" json:"items"`
	Customer        *UserSummary    `db:"-" json:"customer,omitempty"`
}

// OrderItem carries its own copy of name/price/vendor taken at checkout,
// decoupled from later catalog edits.
type OrderItem struct {
	ID        int64   `db:"id" json:"-"`
	OrderID   int64   `db:"order_id" json:"-"`
	ProductID int64   `db:"product_id" json:"product_id"`
	Name      string  `db:"name" json:"name"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
	VendorID  int64   `db:"vendor_id" json:"vendor_id"`
}

func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

type OrderEvent struct {
	OrderID  int64     `json:"order_id"`
	Type     string    `json:"type"` // created, status_updated, payment_check
	Status   string    `json:"status"`
	Total    float64   `json:"total"`
	Occurred time.Time `json:"occurred"`
}
