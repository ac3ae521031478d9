package models

import (
	"time"
)

type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Price       float64   `db:"price" json:"price"`
	Stock       int       `db:"stock" json:"stock"`
	Sold        int       `db:"sold" json:"sold"`
	VendorID    int64     `db:"vendor_id" json:"vendor_id"`
	Image       string    `db:"image" json:"image"`
	SKU         string    `db:"sku" json:"sku"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
