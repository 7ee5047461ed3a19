package services_test

import (
	"context"
	"math"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id uint64, name string, price int64, qty int) services.AddItemInput {
	return services.AddItemInput{
		ProductID:   id,
		ProductName: name,
		UnitPrice:   decimal.NewFromInt(price),
		StoreID:     1,
		Quantity:    qty,
	}
}

func lineFor(cart models.Cart, productID uint64) *models.CartLine {
	for _, l := range cart.Lines {
		if l.ProductID == productID {
			return &l
		}
	}
	return nil
}

func TestCartService_SubtotalScenario(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCartService(repositories.NewKVCartRepository(storage.NewMemoryKV()))

	_, err := svc.AddItem(ctx, item(1, "Widget", 500, 2))
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, item(2, "Gadget", 1200, 1))
	require.NoError(t, err)

	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(2200)), "subtotal %s", cart.Subtotal)
	assert.Equal(t, 3, cart.TotalItems)

	cart, err = svc.AddItem(ctx, item(1, "Widget", 500, 3))
	require.NoError(t, err)
	require.NotNil(t, lineFor(cart, 1))
	assert.Equal(t, 5, lineFor(cart, 1).Quantity)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(3700)), "subtotal %s", cart.Subtotal)
	assert.Len(t, cart.Lines, 2)
}

func TestCartService_AddIsAdditive(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCartService(repositories.NewKVCartRepository(storage.NewMemoryKV()))

	want := 0
	for _, q := range []int{1, 4, 2, 7} {
		_, err := svc.AddItem(ctx, item(9, "Thing", 10, q))
		require.NoError(t, err)
		want += q
	}
	cart := svc.Cart(ctx)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, want, cart.Lines[0].Quantity)
}

func TestCartService_AddRejectsQuantityOverflow(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	svc := services.NewCartService(repositories.NewKVCartRepository(kv))

	_, err := svc.AddItem(ctx, item(1, "Widget", 1, math.MaxInt))
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, item(1, "Widget", 1, math.MaxInt))
	require.ErrorIs(t, err, services.ErrValidation)
	_, err = svc.AddItem(ctx, item(1, "Widget", 1, 1))
	require.ErrorIs(t, err, services.ErrValidation)

	cart := svc.Cart(ctx)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, math.MaxInt, cart.Lines[0].Quantity)
	assert.Equal(t, math.MaxInt, cart.TotalItems)
	assert.False(t, cart.Subtotal.IsNegative())

	reloaded := services.NewCartService(repositories.NewKVCartRepository(kv)).Cart(ctx)
	require.Len(t, reloaded.Lines, 1)
	assert.Equal(t, math.MaxInt, reloaded.Lines[0].Quantity)
}

func TestCartService_UpdateToZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()
	updated := services.NewCartService(repositories.NewKVCartRepository(storage.NewMemoryKV()))
	removed := services.NewCartService(repositories.NewKVCartRepository(storage.NewMemoryKV()))

	for _, svc := range []*services.CartService{updated, removed} {
		_, err := svc.AddItem(ctx, item(1, "Widget", 500, 2))
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, item(2, "Gadget", 1200, 1))
		require.NoError(t, err)
	}

	a := updated.UpdateQuantity(ctx, 1, 0)
	b := removed.RemoveItem(ctx, 1)
	assert.Nil(t, lineFor(a, 1))
	assert.Nil(t, lineFor(b, 1))
	assert.Equal(t, a.TotalItems, b.TotalItems)
	assert.True(t, a.Subtotal.Equal(b.Subtotal))
	require.Len(t, b.Lines, len(a.Lines))
	assert.Equal(t, a.Lines[0].ProductID, b.Lines[0].ProductID)

	a = updated.UpdateQuantity(ctx, 2, -3)
	assert.Empty(t, a.Lines)
	assert.True(t, a.Subtotal.IsZero())
}

func TestCartService_UpdateReplacesQuantity(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCartService(repositories.NewKVCartRepository(storage.NewMemoryKV()))

	_, err := svc.AddItem(ctx, item(1, "Widget", 500, 2))
	require.NoError(t, err)

	cart := svc.UpdateQuantity(ctx, 1, 7)
	assert.Equal(t, 7, lineFor(cart, 1).Quantity)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(3500)))

	// Updating or removing an absent product changes nothing.
	cart = svc.UpdateQuantity(ctx, 42, 3)
	assert.Len(t, cart.Lines, 1)
	cart = svc.RemoveItem(ctx, 42)
	assert.Len(t, cart.Lines, 1)
}

func TestCartService_RoundTripKeepsLargePrices(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	svc := services.NewCartService(repositories.NewKVCartRepository(kv))

	_, err := svc.AddItem(ctx, item(1, "Yacht", 999999999999, 3))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, item(18446744073709551615, "Edge", 1, 1))
	require.NoError(t, err)
	before := svc.Cart(ctx)

	reloaded := services.NewCartService(repositories.NewKVCartRepository(kv)).Cart(ctx)
	require.Len(t, reloaded.Lines, 2)
	for i := range before.Lines {
		assert.Equal(t, before.Lines[i].ProductID, reloaded.Lines[i].ProductID)
		assert.Equal(t, before.Lines[i].Quantity, reloaded.Lines[i].Quantity)
		assert.True(t, before.Lines[i].UnitPrice.Equal(reloaded.Lines[i].UnitPrice))
	}
	assert.Equal(t, "2999999999998", reloaded.Subtotal.String())
}

func TestCartService_ClearPersists(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	svc := services.NewCartService(repositories.NewKVCartRepository(kv))

	_, err := svc.AddItem(ctx, item(1, "Widget", 500, 2))
	require.NoError(t, err)
	svc.Clear(ctx)
	assert.Empty(t, svc.Cart(ctx).Lines)

	reloaded := services.NewCartService(repositories.NewKVCartRepository(kv)).Cart(ctx)
	assert.Empty(t, reloaded.Lines)
	assert.Equal(t, 0, reloaded.TotalItems)
}

func TestCartService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCartService(repositories.NewKVCartRepository(storage.NewMemoryKV()))

	_, err := svc.AddItem(ctx, item(1, "Widget", 500, 0))
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = svc.AddItem(ctx, item(1, "Widget", -1, 1))
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = svc.AddItem(ctx, item(0, "Nothing", 1, 1))
	assert.ErrorIs(t, err, services.ErrValidation)

	fractional := item(1, "Widget", 0, 1)
	fractional.UnitPrice = decimal.RequireFromString("4.99")
	_, err = svc.AddItem(ctx, fractional)
	assert.ErrorIs(t, err, services.ErrValidation)

	assert.Empty(t, svc.Cart(ctx).Lines)
}

func TestCartService_CorruptedStateLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, repositories.KeyCart, []byte("{not json")))

	svc := services.NewCartService(repositories.NewKVCartRepository(kv))
	assert.Empty(t, svc.Cart(ctx).Lines)

	cart, err := svc.AddItem(ctx, item(1, "Widget", 500, 1))
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
}

func TestCartService_WriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCartService(repositories.NewKVCartRepository(failingKV{}))

	cart, err := svc.AddItem(ctx, item(1, "Widget", 500, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, 2, svc.Cart(ctx).TotalItems)
}
