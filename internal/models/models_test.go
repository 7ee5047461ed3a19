package models_test

import (
	"encoding/json"
	"math"
	"testing"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSpace(t *testing.T) {
	space := models.IDSpace{Floor: 100}

	assert.False(t, space.Classify(99).IsLocal())
	assert.True(t, space.Classify(100).IsLocal())
	assert.Equal(t, uint64(100), space.Next(nil))
	assert.Equal(t, uint64(100), space.Next([]uint64{3, 50}))
	assert.Equal(t, uint64(106), space.Next([]uint64{105, 101}))
}

func TestParseOrderStatus(t *testing.T) {
	st, err := models.ParseOrderStatus(" shipped ")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, st)

	_, err = models.ParseOrderStatus("Cancelled")
	assert.Error(t, err)
}

func TestNewCart(t *testing.T) {
	empty := models.NewCart(nil)
	assert.NotNil(t, empty.Lines)
	assert.Equal(t, 0, empty.TotalItems)
	assert.True(t, empty.Subtotal.IsZero())

	cart := models.NewCart([]models.CartLine{
		{ProductID: 1, UnitPrice: decimal.NewFromInt(500), Quantity: 2},
		{ProductID: 2, UnitPrice: decimal.NewFromInt(1200), Quantity: 1},
	})
	assert.Equal(t, 3, cart.TotalItems)
	assert.Equal(t, "2200", cart.Subtotal.String())
}

func TestJSON_IDsAreStrings(t *testing.T) {
	raw, err := json.Marshal(models.Product{ID: 10000, StoreID: 100, Name: "X", Price: decimal.NewFromInt(9007199254740993)})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"10000"`)
	assert.Contains(t, string(raw), `"storeId":"100"`)
	assert.Contains(t, string(raw), `"price":"9007199254740993"`)

	var back models.Product
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, uint64(10000), back.ID)
	assert.Equal(t, "9007199254740993", back.Price.String())
}

func TestJSON_QuantitiesAreStrings(t *testing.T) {
	line := models.CartLine{ProductID: 1, UnitPrice: decimal.NewFromInt(5), StoreID: 2, Quantity: math.MaxInt}
	raw, err := json.Marshal(line)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"quantity":"9223372036854775807"`)

	var back models.CartLine
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, math.MaxInt, back.Quantity)

	raw, err = json.Marshal(models.OrderItem{ProductID: 1, Quantity: 3, UnitPrice: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"quantity":"3"`)
}

func TestSessionState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", models.SessionUninitialized.String())
	assert.Equal(t, "anonymous", models.SessionAnonymous.String())
	assert.Equal(t, "active", models.SessionActive.String())
}

func TestNewSession_OmitsDigest(t *testing.T) {
	s := models.NewSession(models.User{Identifier: "alice", DisplayName: "Alice", PasswordDigest: "22ci"})
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "22ci")
}
