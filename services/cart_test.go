package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/errs"
	"marketplace-service/models"
)

func newCartFixture() (*fakeStore, ICartService) {
	s := newFakeStore()
	return s, NewCartService(fakeCartRepo{s: s}, fakeProductRepo{s: s})
}

func TestCartGetCreatesLazily(t *testing.T) {
	ctx := context.Background()
	_, svc := newCartFixture()

	cart, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cart.UserID)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)

	// A second read comes back to the same cart.
	again, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartAddValidation(t *testing.T) {
	ctx := context.Background()
	s, svc := newCartFixture()
	s.addProduct(models.Product{ID: 10, Name: "Widget", Price: 10.00, Stock: 2, IsActive: true})
	s.addProduct(models.Product{ID: 11, Name: "Retired", Price: 5.00, Stock: 2, IsActive: false})

	_, err := svc.Add(ctx, 1, 10, 0)
	assert.True(t, errs.IsKind(err, errs.Validation))

	_, err = svc.Add(ctx, 1, 404, 1)
	assert.True(t, errs.IsKind(err, errs.NotFound))

	_, err = svc.Add(ctx, 1, 11, 1)
	assert.True(t, errs.IsKind(err, errs.Validation))

	_, err = svc.Add(ctx, 1, 10, 3)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.Validation))
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestCartAddMergesQuantities(t *testing.T) {
	ctx := context.Background()
	s, svc := newCartFixture()
	s.addProduct(models.Product{ID: 10, Name: "Widget", Price: 10.00, Stock: 5, IsActive: true})

	cart, err := svc.Add(ctx, 1, 10, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 20.00, cart.Total)

	cart, err = svc.Add(ctx, 1, 10, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, 40.00, cart.Total)

	// Merging past the available stock is rejected.
	_, err = svc.Add(ctx, 1, 10, 2)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.Validation))
	assert.Contains(t, err.Error(), "cannot add more items than available stock")
}

func TestCartAddRestampsPrice(t *testing.T) {
	ctx := context.Background()
	s, svc := newCartFixture()
	s.addProduct(models.Product{ID: 10, Name: "Widget", Price: 10.00, Stock: 5, IsActive: true})

	_, err := svc.Add(ctx, 1, 10, 1)
	require.NoError(t, err)

	p := s.product(10)
	p.Price = 12.00
	s.addProduct(p)

	cart, err := svc.Add(ctx, 1, 10, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 12.00, cart.Items[0].Price)
	assert.Equal(t, 24.00, cart.Total)
}

func TestCartUpdate(t *testing.T) {
	ctx := context.Background()
	s, svc := newCartFixture()
	s.addProduct(models.Product{ID: 10, Name: "Widget", Price: 10.00, Stock: 5, IsActive: true})

	_, err := svc.Update(ctx, 1, 10, 2)
	assert.True(t, errs.IsKind(err, errs.NotFound), "no cart yet")

	_, err = svc.Add(ctx, 1, 10, 1)
	require.NoError(t, err)

	_, err = svc.Update(ctx, 1, 10, 0)
	assert.True(t, errs.IsKind(err, errs.Validation))

	_, err = svc.Update(ctx, 1, 404, 2)
	assert.True(t, errs.IsKind(err, errs.NotFound))

	_, err = svc.Update(ctx, 1, 10, 6)
	assert.True(t, errs.IsKind(err, errs.Validation))

	cart, err := svc.Update(ctx, 1, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 50.00, cart.Total)
}

func TestCartRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, svc := newCartFixture()
	s.addProduct(models.Product{ID: 10, Name: "Widget", Price: 10.00, Stock: 5, IsActive: true})
	s.addProduct(models.Product{ID: 11, Name: "Gadget", Price: 4.00, Stock: 5, IsActive: true})

	_, err := svc.Add(ctx, 1, 10, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, 11, 2)
	require.NoError(t, err)

	cart, err := svc.Remove(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(11), cart.Items[0].ProductID)

	// Removing the same line again is a no-op.
	cart, err = svc.Remove(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 8.00, cart.Total)
}

func TestCartClear(t *testing.T) {
	ctx := context.Background()
	s, svc := newCartFixture()
	s.addProduct(models.Product{ID: 10, Name: "Widget", Price: 10.00, Stock: 5, IsActive: true})

	_, err := svc.Clear(ctx, 1)
	assert.True(t, errs.IsKind(err, errs.NotFound), "no cart yet")

	_, err = svc.Add(ctx, 1, 10, 3)
	require.NoError(t, err)

	cart, err := svc.Clear(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}
