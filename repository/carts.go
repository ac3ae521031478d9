package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"marketplace-service/models"
)

type ICartRepo interface {
	GetByUserID(ctx context.Context, userID int64) (models.Cart, error)
	Create(ctx context.Context, userID int64) (models.Cart, error)
	GetLines(ctx context.Context, cartID int64) ([]models.CartLine, error)
	GetItem(ctx context.Context, cartID, productID int64) (models.CartItem, error)
	InsertItem(ctx context.Context, item models.CartItem) error
	UpdateItem(ctx context.Context, cartID, productID int64, quantity int, price float64) error
	DeleteItem(ctx context.Context, cartID, productID int64) error
	ClearItems(ctx context.Context, cartID int64) error
}

func NewCartRepo(db *sqlx.DB) ICartRepo {
	return &cartRepo{db: db}
}

type cartRepo struct {
	db *sqlx.DB
}

var getCartQuery = "SELECT * FROM carts WHERE user_id = ?"

func (r *cartRepo) GetByUserID(ctx context.Context, userID int64) (models.Cart, error) {
	var res models.Cart
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &res, getCartQuery, userID)
	return res, err
}

func (r *cartRepo) Create(ctx context.Context, userID int64) (models.Cart, error) {
	res, err := ext(ctx, r.db).ExecContext(ctx,
		"INSERT INTO carts (user_id) VALUES (?)", userID)
	if err != nil {
		return models.Cart{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Cart{}, err
	}
	return models.Cart{ID: id, UserID: userID}, nil
}

// GetLines resolves stored items against the live product record. The stored
// price stays the snapshot; the product_* columns are for display and
// checkout validation.
var getLinesQuery = `
	SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.price,
	       p.name AS product_name, p.price AS product_price,
	       p.image AS product_image, p.stock AS product_stock,
	       p.is_active AS product_active, p.vendor_id AS product_vendor_id
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	WHERE ci.cart_id = ?
	ORDER BY ci.id ASC`

func (r *cartRepo) GetLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	var res []models.CartLine
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &res, getLinesQuery, cartID)
	return res, err
}

var getCartItemQuery = "SELECT * FROM cart_items WHERE cart_id = ? AND product_id = ?"

func (r *cartRepo) GetItem(ctx context.Context, cartID, productID int64) (models.CartItem, error) {
	var res models.CartItem
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &res, getCartItemQuery, cartID, productID)
	return res, err
}

var insertCartItemQuery = `
	INSERT INTO cart_items (cart_id, product_id, quantity, price)
	VALUES (?, ?, ?, ?)`

func (r *cartRepo) InsertItem(ctx context.Context, item models.CartItem) error {
	_, err := ext(ctx, r.db).ExecContext(ctx, insertCartItemQuery,
		item.CartID, item.ProductID, item.Quantity, item.Price)
	return err
}

var updateCartItemQuery = `
	UPDATE cart_items SET quantity = ?, price = ?
	WHERE cart_id = ? AND product_id = ?`

func (r *cartRepo) UpdateItem(ctx context.Context, cartID, productID int64, quantity int, price float64) error {
	_, err := ext(ctx, r.db).ExecContext(ctx, updateCartItemQuery,
		quantity, price, cartID, productID)
	return err
}

// DeleteItem is an idempotent filter: deleting an absent line is not an error.
func (r *cartRepo) DeleteItem(ctx context.Context, cartID, productID int64) error {
	_, err := ext(ctx, r.db).ExecContext(ctx,
		"DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?", cartID, productID)
	return err
}

func (r *cartRepo) ClearItems(ctx context.Context, cartID int64) error {
	_, err := ext(ctx, r.db).ExecContext(ctx,
		"DELETE FROM cart_items WHERE cart_id = ?", cartID)
	return err
}
