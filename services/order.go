package services

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-service/errs"
	"marketplace-service/models"
	"marketplace-service/policy"
	"marketplace-service/repository"
	"marketplace-service/utils"
)

type PlaceOrderInput struct {
	ShippingAddress models.ShippingAddress
	Notes           string
}

type OrderListQuery struct {
	Status string
	Page   int
	Limit  int
}

type IOrderService interface {
	Place(ctx context.Context, customer models.User, in PlaceOrderInput) (models.Order, error)
	List(ctx context.Context, actor models.User, q OrderListQuery) ([]models.Order, int, error)
	Get(ctx context.Context, actor models.User, id int64) (models.Order, error)
	UpdateStatus(ctx context.Context, actor models.User, id int64, status string) (models.Order, error)
}

func NewOrderService(
	orders repository.IOrderRepo,
	carts repository.ICartRepo,
	products repository.IProductRepo,
) IOrderService {
	return &orderService{orders: orders, carts: carts, products: products}
}

type orderService struct {
	orders   repository.IOrderRepo
	carts    repository.ICartRepo
	products repository.IProductRepo
}

// Place snapshots the customer's cart into an immutable order. Every line is
// validated before anything is mutated; the order insert, the conditional
// stock decrements and the cart clear then run in one transaction, so a
// failed decrement (stock raced away between validation and mutation) rolls
// the whole checkout back.
func (s *orderService) Place(ctx context.Context, customer models.User, in PlaceOrderInput) (models.Order, error) {
	cart, err := s.carts.GetByUserID(ctx, customer.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, errs.Validationf("cart is empty")
	}
	if err != nil {
		return models.Order{}, err
	}

	lines, err := s.carts.GetLines(ctx, cart.ID)
	if err != nil {
		return models.Order{}, err
	}
	if len(lines) == 0 {
		return models.Order{}, errs.Validationf("cart is empty")
	}

	// Validate every line before mutating anything.
	for _, line := range lines {
		if !line.ProductActive {
			return models.Order{}, errs.Validationf("product %s is no longer available", line.ProductName)
		}
		if line.ProductStock < line.Quantity {
			return models.Order{}, errs.Validationf("insufficient stock for %s", line.ProductName)
		}
	}

	items := make([]models.OrderItem, 0, len(lines))
	var total float64
	for _, line := range lines {
		// The cart's snapshot price is what the order freezes, not the
		// live product price.
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.ProductName,
			Quantity:  line.Quantity,
			Price:     line.Price,
			VendorID:  line.ProductVendorID,
		})
		total += line.Price * float64(line.Quantity)
	}

	order := models.Order{
		OrderID:         utils.NewOrderID(),
		CustomerID:      customer.ID,
		TotalAmount:     total,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
	}

	var orderPK int64
	err = s.orders.Transact(ctx, func(ctx context.Context) error {
		orderPK, err = s.orders.Create(ctx, order)
		if err != nil {
			return err
		}
		if err := s.orders.InsertItems(ctx, orderPK, items); err != nil {
			return err
		}
		for _, item := range items {
			ok, err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return errs.Validationf("insufficient stock for %s", item.Name)
			}
		}
		return s.carts.ClearItems(ctx, cart.ID)
	})
	if err != nil {
		return models.Order{}, err
	}

	return s.orders.GetByID(ctx, orderPK)
}

func (s *orderService) List(ctx context.Context, actor models.User, q OrderListQuery) ([]models.Order, int, error) {
	if q.Status != "" && !models.ValidOrderStatus(q.Status) {
		return nil, 0, errs.Validationf("invalid status")
	}

	filter := repository.OrderFilter{
		Status: q.Status,
		Page:   q.Page,
		Limit:  q.Limit,
	}
	switch actor.Role {
	case models.RoleCustomer:
		filter.CustomerID = actor.ID
	case models.RoleVendor:
		filter.VendorID = actor.ID
	}
	return s.orders.List(ctx, filter)
}

func (s *orderService) Get(ctx context.Context, actor models.User, id int64) (models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, errs.NotFoundf("order not found")
	}
	if err != nil {
		return models.Order{}, err
	}
	if err := policy.Can(actor, policy.OrderRead, order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// UpdateStatus moves an order to any of the six statuses; transitions are
// deliberately unrestricted.
func (s *orderService) UpdateStatus(ctx context.Context, actor models.User, id int64, status string) (models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return models.Order{}, errs.Validationf("invalid status")
	}

	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, errs.NotFoundf("order not found")
	}
	if err != nil {
		return models.Order{}, err
	}
	if err := policy.Can(actor, policy.OrderUpdateStatus, order); err != nil {
		return models.Order{}, err
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return models.Order{}, err
	}
	order.Status = status
	return order, nil
}
