package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"marketplace-service/models"
)

type OrderFilter struct {
	// CustomerID scopes to orders placed by one customer.
	CustomerID int64
	// VendorID scopes to orders containing at least one of the vendor's items.
	VendorID int64
	Status   string
	Page     int
	Limit    int
}

type IOrderRepo interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, order models.Order) (int64, error)
	InsertItems(ctx context.Context, orderID int64, items []models.OrderItem) error
	GetByID(ctx context.Context, id int64) (models.Order, error)
	List(ctx context.Context, f OrderFilter) ([]models.Order, int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	CancelIfUnpaid(ctx context.Context, id int64) (bool, error)
}

func NewOrderRepo(db *sqlx.DB) IOrderRepo {
	return &orderRepo{db: db}
}

type orderRepo struct {
	db *sqlx.DB
}

func (r *orderRepo) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	return transact(ctx, r.db, fn)
}

// orderRow flattens the shipping address and the joined customer summary for
// scanning.
type orderRow struct {
	ID            int64     `db:"id"`
	OrderID       string    `db:"order_id"`
	CustomerID    int64     `db:"customer_id"`
	TotalAmount   float64   `db:"total_amount"`
	Status        string    `db:"status"`
	PaymentStatus string    `db:"payment_status"`
	Street        string    `db:"street"`
	City          string    `db:"city"`
	State         string    `db:"state"`
	ZipCode       string    `db:"zip_code"`
	Country       string    `db:"country"`
	Notes         string    `db:"notes"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
}

func (row orderRow) toOrder() models.Order {
	return models.Order{
		ID:            row.ID,
		OrderID:       row.OrderID,
		CustomerID:    row.CustomerID,
		TotalAmount:   row.TotalAmount,
		Status:        row.Status,
		PaymentStatus: row.PaymentStatus,
		ShippingAddress: models.ShippingAddress{
			Street:  row.Street,
			City:    row.City,
			State:   row.State,
			ZipCode: row.ZipCode,
			Country: row.Country,
		},
		Notes:     row.Notes,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Customer: &models.UserSummary{
			ID:    row.CustomerID,
			Name:  row.CustomerName,
			Email: row.CustomerEmail,
		},
	}
}

var createOrderQuery = `
	INSERT INTO orders (order_id, customer_id, total_amount, status, payment_status,
	                    street, city, state, zip_code, country, notes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *orderRepo) Create(ctx context.Context, order models.Order) (int64, error) {
	res, err := ext(ctx, r.db).ExecContext(ctx, createOrderQuery,
		order.OrderID, order.CustomerID, order.TotalAmount,
		order.Status, order.PaymentStatus,
		order.ShippingAddress.Street, order.ShippingAddress.City,
		order.ShippingAddress.State, order.ShippingAddress.ZipCode,
		order.ShippingAddress.Country, order.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var insertOrderItemQuery = `
	INSERT INTO order_items (order_id, product_id, name, quantity, price, vendor_id)
	VALUES (?, ?, ?, ?, ?, ?)`

func (r *orderRepo) InsertItems(ctx context.Context, orderID int64, items []models.OrderItem) error {
	for _, item := range items {
		_, err := ext(ctx, r.db).ExecContext(ctx, insertOrderItemQuery,
			orderID, item.ProductID, item.Name, item.Quantity, item.Price, item.VendorID)
		if err != nil {
			return err
		}
	}
	return nil
}

var getOrderQuery = `
	SELECT o.*, u.name AS customer_name, u.email AS customer_email
	FROM orders o
	JOIN users u ON u.id = o.customer_id
	WHERE o.id = ?`

func (r *orderRepo) GetByID(ctx context.Context, id int64) (models.Order, error) {
	var row orderRow
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, getOrderQuery, id)
	if err != nil {
		return models.Order{}, err
	}

	order := row.toOrder()
	order.Items, err = r.getItems(ctx, []int64{id})
	return order, err
}

var getOrderItemsQuery = "SELECT * FROM order_items WHERE order_id IN (?) ORDER BY id ASC"

func (r *orderRepo) getItems(ctx context.Context, orderIDs []int64) ([]models.OrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(getOrderItemsQuery, orderIDs)
	if err != nil {
		return nil, err
	}
	var res []models.OrderItem
	err = sqlx.SelectContext(ctx, ext(ctx, r.db), &res, query, args...)
	return res, err
}

func (r *orderRepo) List(ctx context.Context, f OrderFilter) ([]models.Order, int, error) {
	where := "WHERE 1=1"
	var args []any
	if f.CustomerID != 0 {
		where += " AND o.customer_id = ?"
		args = append(args, f.CustomerID)
	}
	if f.VendorID != 0 {
		where += " AND o.id IN (SELECT DISTINCT order_id FROM order_items WHERE vendor_id = ?)"
		args = append(args, f.VendorID)
	}
	if f.Status != "" {
		where += " AND o.status = ?"
		args = append(args, f.Status)
	}

	var total int
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &total,
		"SELECT COUNT(*) FROM orders o "+where, args...)
	if err != nil {
		return nil, 0, err
	}

	limit, offset := pageClause(f.Page, f.Limit)
	var rows []orderRow
	err = sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, `
		SELECT o.*, u.name AS customer_name, u.email AS customer_email
		FROM orders o
		JOIN users u ON u.id = o.customer_id `+where+`
		ORDER BY o.created_at DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toOrder())
		ids = append(ids, row.ID)
	}

	items, err := r.getItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byOrder := make(map[int64][]models.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, total, nil
}

var updateOrderStatusQuery = `
	UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ?`

func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := ext(ctx, r.db).ExecContext(ctx, updateOrderStatusQuery, status, id)
	return err
}

// CancelIfUnpaid flips a still-pending, payment-pending order to cancelled.
// Used by the delayed payment check; the condition keeps already-paid or
// already-progressed orders untouched.
var cancelIfUnpaidQuery = `
	UPDATE orders SET status = ?, updated_at = NOW()
	WHERE id = ? AND status = ? AND payment_status = ?`

func (r *orderRepo) CancelIfUnpaid(ctx context.Context, id int64) (bool, error) {
	res, err := ext(ctx, r.db).ExecContext(ctx, cancelIfUnpaidQuery,
		models.OrderCancelled, id, models.OrderPending, models.PaymentPending)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
