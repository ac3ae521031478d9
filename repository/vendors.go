package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"marketplace-service/models"
)

type IVendorRepo interface {
	Create(ctx context.Context, vendor models.Vendor) (int64, error)
	GetByUserID(ctx context.Context, userID int64) (models.Vendor, error)
	AddProductsCount(ctx context.Context, userID int64, delta int) error
}

func NewVendorRepo(db *sqlx.DB) IVendorRepo {
	return &vendorRepo{db: db}
}

type vendorRepo struct {
	db *sqlx.DB
}

var createVendorQuery = `
	INSERT INTO vendors (user_id, business_name, commission)
	VALUES (?, ?, ?)`

func (r *vendorRepo) Create(ctx context.Context, vendor models.Vendor) (int64, error) {
	res, err := ext(ctx, r.db).ExecContext(ctx, createVendorQuery,
		vendor.UserID, vendor.BusinessName, vendor.Commission)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var getVendorQuery = "SELECT * FROM vendors WHERE user_id = ?"

func (r *vendorRepo) GetByUserID(ctx context.Context, userID int64) (models.Vendor, error) {
	var res models.Vendor
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &res, getVendorQuery, userID)
	return res, err
}

// AddProductsCount keeps the vendor's aggregate product count in step with
// catalog creates and deletes. GREATEST guards the floor on deletes.
var addProductsCountQuery = `
	UPDATE vendors SET products_count = GREATEST(products_count + ?, 0), updated_at = NOW()
	WHERE user_id = ?`

func (r *vendorRepo) AddProductsCount(ctx context.Context, userID int64, delta int) error {
	_, err := ext(ctx, r.db).ExecContext(ctx, addProductsCountQuery, delta, userID)
	return err
}
