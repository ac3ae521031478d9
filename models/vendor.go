package models

import (
	"time"
)

// Vendor extends a user with role=vendor. Created automatically at
// registration.
type Vendor struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	BusinessName  string    `db:"business_name" json:"business_name"`
	Commission    float64   `db:"commission" json:"commission"`
	TotalSales    float64   `db:"total_sales" json:"total_sales"`
	ProductsCount int       `db:"products_count" json:"products_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
