package services

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-service/errs"
	"marketplace-service/models"
	"marketplace-service/repository"
)

type ICartService interface {
	Get(ctx context.Context, userID int64) (models.CartView, error)
	Add(ctx context.Context, userID, productID int64, quantity int) (models.CartView, error)
	Update(ctx context.Context, userID, productID int64, quantity int) (models.CartView, error)
	Remove(ctx context.Context, userID, productID int64) (models.CartView, error)
	Clear(ctx context.Context, userID int64) (models.CartView, error)
}

func NewCartService(carts repository.ICartRepo, products repository.IProductRepo) ICartService {
	return &cartService{carts: carts, products: products}
}

type cartService struct {
	carts    repository.ICartRepo
	products repository.IProductRepo
}

// Get returns the customer's cart, creating an empty one on first access.
func (s *cartService) Get(ctx context.Context, userID int64) (models.CartView, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		cart, err = s.carts.Create(ctx, userID)
	}
	if err != nil {
		return models.CartView{}, err
	}
	return s.view(ctx, cart)
}

func (s *cartService) Add(ctx context.Context, userID, productID int64, quantity int) (models.CartView, error) {
	if quantity < 1 {
		return models.CartView{}, errs.Validationf("quantity must be at least 1")
	}

	product, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CartView{}, errs.NotFoundf("product not found")
	}
	if err != nil {
		return models.CartView{}, err
	}
	if !product.IsActive {
		return models.CartView{}, errs.Validationf("product is not available")
	}
	if product.Stock < quantity {
		return models.CartView{}, errs.Validationf("insufficient stock")
	}

	cart, err := s.carts.GetByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		cart, err = s.carts.Create(ctx, userID)
	}
	if err != nil {
		return models.CartView{}, err
	}

	existing, err := s.carts.GetItem(ctx, cart.ID, productID)
	switch {
	case err == nil:
		// Merge quantities and re-validate the merged amount against the
		// current stock. The line price is re-stamped either way.
		merged := existing.Quantity + quantity
		if merged > product.Stock {
			return models.CartView{}, errs.Validationf("cannot add more items than available stock")
		}
		if err := s.carts.UpdateItem(ctx, cart.ID, productID, merged, product.Price); err != nil {
			return models.CartView{}, err
		}
	case errors.Is(err, sql.ErrNoRows):
		item := models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		}
		if err := s.carts.InsertItem(ctx, item); err != nil {
			return models.CartView{}, err
		}
	default:
		return models.CartView{}, err
	}

	return s.view(ctx, cart)
}

func (s *cartService) Update(ctx context.Context, userID, productID int64, quantity int) (models.CartView, error) {
	if quantity < 1 {
		return models.CartView{}, errs.Validationf("quantity must be at least 1")
	}

	cart, err := s.carts.GetByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CartView{}, errs.NotFoundf("cart not found")
	}
	if err != nil {
		return models.CartView{}, err
	}

	if _, err := s.carts.GetItem(ctx, cart.ID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CartView{}, errs.NotFoundf("item not found in cart")
		}
		return models.CartView{}, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CartView{}, errs.NotFoundf("product not found")
	}
	if err != nil {
		return models.CartView{}, err
	}
	if quantity > product.Stock {
		return models.CartView{}, errs.Validationf("insufficient stock")
	}

	if err := s.carts.UpdateItem(ctx, cart.ID, productID, quantity, product.Price); err != nil {
		return models.CartView{}, err
	}
	return s.view(ctx, cart)
}

// Remove filters the line out; removing an absent line leaves the cart
// unchanged.
func (s *cartService) Remove(ctx context.Context, userID, productID int64) (models.CartView, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CartView{}, errs.NotFoundf("cart not found")
	}
	if err != nil {
		return models.CartView{}, err
	}

	if err := s.carts.DeleteItem(ctx, cart.ID, productID); err != nil {
		return models.CartView{}, err
	}
	return s.view(ctx, cart)
}

func (s *cartService) Clear(ctx context.Context, userID int64) (models.CartView, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CartView{}, errs.NotFoundf("cart not found")
	}
	if err != nil {
		return models.CartView{}, err
	}

	if err := s.carts.ClearItems(ctx, cart.ID); err != nil {
		return models.CartView{}, err
	}
	return s.view(ctx, cart)
}

func (s *cartService) view(ctx context.Context, cart models.Cart) (models.CartView, error) {
	lines, err := s.carts.GetLines(ctx, cart.ID)
	if err != nil {
		return models.CartView{}, err
	}
	view := models.CartView{
		ID:     cart.ID,
		UserID: cart.UserID,
		Items:  lines,
	}
	for _, line := range lines {
		view.Total += line.Subtotal()
	}
	if view.Items == nil {
		view.Items = []models.CartLine{}
	}
	return view, nil
}
