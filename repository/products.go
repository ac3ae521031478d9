package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"marketplace-service/models"
)

type ProductFilter struct {
	Category string
	Search   string
	Sort     string
	// VendorID scopes the listing to one vendor's products, active or not.
	// When zero, only active products are returned.
	VendorID int64
	Page     int
	Limit    int
}

type IProductRepo interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, p models.Product) (int64, error)
	GetByID(ctx context.Context, id int64) (models.Product, error)
	List(ctx context.Context, f ProductFilter) ([]models.Product, int, error)
	Update(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id int64) (bool, error)
	DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error)
}

func NewProductRepo(db *sqlx.DB) IProductRepo {
	return &productRepo{db: db}
}

type productRepo struct {
	db *sqlx.DB
}

func (r *productRepo) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	return transact(ctx, r.db, fn)
}

var createProductQuery = `
	INSERT INTO products (name, description, category, price, stock, vendor_id, image, sku, is_active)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *productRepo) Create(ctx context.Context, p models.Product) (int64, error) {
	res, err := ext(ctx, r.db).ExecContext(ctx, createProductQuery,
		p.Name, p.Description, p.Category, p.Price, p.Stock,
		p.VendorID, p.Image, p.SKU, p.IsActive)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var getProductQuery = "SELECT * FROM products WHERE id = ?"

func (r *productRepo) GetByID(ctx context.Context, id int64) (models.Product, error) {
	var res models.Product
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &res, getProductQuery, id)
	return res, err
}

func (r *productRepo) List(ctx context.Context, f ProductFilter) ([]models.Product, int, error) {
	where := "WHERE 1=1"
	var args []any
	if f.VendorID != 0 {
		where += " AND vendor_id = ?"
		args = append(args, f.VendorID)
	} else {
		where += " AND is_active = TRUE"
	}
	if f.Category != "" {
		where += " AND category LIKE ?"
		args = append(args, "%"+f.Category+"%")
	}
	if f.Search != "" {
		where += " AND (name LIKE ? OR description LIKE ?)"
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &total,
		"SELECT COUNT(*) FROM products "+where, args...)
	if err != nil {
		return nil, 0, err
	}

	limit, offset := pageClause(f.Page, f.Limit)
	var res []models.Product
	err = sqlx.SelectContext(ctx, ext(ctx, r.db), &res,
		"SELECT * FROM products "+where+" ORDER BY "+sortClause(f.Sort)+" LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	return res, total, err
}

func sortClause(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "popular":
		return "sold DESC"
	default: // newest
		return "created_at DESC"
	}
}

var updateProductQuery = `
	UPDATE products
	SET name = ?, description = ?, category = ?, price = ?, stock = ?,
	    image = ?, is_active = ?, updated_at = NOW()
	WHERE id = ?`

func (r *productRepo) Update(ctx context.Context, p models.Product) error {
	_, err := ext(ctx, r.db).ExecContext(ctx, updateProductQuery,
		p.Name, p.Description, p.Category, p.Price, p.Stock,
		p.Image, p.IsActive, p.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := ext(ctx, r.db).ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// DecrementStock is the single conditional update that keeps stock from going
// negative under concurrent checkouts. The affected-row count tells the
// caller whether there was enough stock at the moment of mutation.
var decrementStockQuery = `
	UPDATE products SET stock = stock - ?, sold = sold + ?, updated_at = NOW()
	WHERE id = ? AND stock >= ?`

func (r *productRepo) DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	res, err := ext(ctx, r.db).ExecContext(ctx, decrementStockQuery,
		quantity, quantity, productID, quantity)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
