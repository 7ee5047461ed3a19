package repositories_test

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRepository_AssignsOverlayIDs(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewKVStoreRepository(storage.NewMemoryKV(), models.IDSpace{Floor: 100})

	first := &models.Store{Name: "A", Category: "X"}
	second := &models.Store{Name: "B", Category: "X"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, uint64(100), first.ID)
	assert.Equal(t, uint64(101), second.ID)

	require.NoError(t, repo.Delete(ctx, 100))
	third := &models.Store{Name: "C", Category: "X"}
	require.NoError(t, repo.Create(ctx, third))
	assert.Equal(t, uint64(102), third.ID, "ids are max+1, never reused below the max")

	_, err := repo.GetByID(ctx, 100)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 100), repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, models.Store{ID: 555}), repositories.ErrNotFound)

	require.NoError(t, repo.Update(ctx, models.Store{ID: 101, Name: "B2", Category: "Y"}))
	got, err := repo.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "B2", got.Name)
	assert.Equal(t, "Y", got.Category)
}

func TestProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewKVProductRepository(storage.NewMemoryKV(), models.IDSpace{Floor: 10000})

	a := &models.Product{StoreID: 100, Name: "A", Price: decimal.NewFromInt(100)}
	b := &models.Product{StoreID: 101, Name: "B", Price: decimal.NewFromInt(200)}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	assert.Equal(t, uint64(10000), a.ID)
	assert.Equal(t, uint64(10001), b.ID)

	assert.Len(t, repo.GetByStore(ctx, 100), 1)
	assert.Empty(t, repo.GetByStore(ctx, 7))

	out, err := repo.ToggleOutOfStock(ctx, 10000)
	require.NoError(t, err)
	assert.True(t, out)
	out, err = repo.ToggleOutOfStock(ctx, 10000)
	require.NoError(t, err)
	assert.False(t, out)

	_, err = repo.ToggleOutOfStock(ctx, 42)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, 10001))
	assert.Len(t, repo.GetAll(ctx), 1)
}

func TestCartRepository_DropsInvalidLines(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, repositories.KeyCart, []byte(
		`[{"productId":"1","productName":"ok","price":"100","storeId":"1","quantity":"2"},`+
			`{"productId":"2","productName":"zero","price":"100","storeId":"1","quantity":"0"}]`)))

	lines := repositories.NewKVCartRepository(kv).Load(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, uint64(1), lines[0].ProductID)
}

func TestCartRepository_SaveNilWritesEmptyList(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	repo := repositories.NewKVCartRepository(kv)

	require.NoError(t, repo.Save(ctx, nil))
	raw, err := kv.Get(ctx, repositories.KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestOrderRepository_NeverOverwritesSameID(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewKVOrderRepository(storage.NewMemoryKV())

	require.NoError(t, repo.Create(ctx, models.Order{ID: "A", Status: models.OrderStatusPending, UserIdentifier: "alice"}))
	require.NoError(t, repo.Create(ctx, models.Order{ID: "B", Status: models.OrderStatusPending}))
	err := repo.Create(ctx, models.Order{ID: "A", Status: models.OrderStatusShipped, UserIdentifier: "bob"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateID)

	all := repo.GetAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].ID)
	assert.Equal(t, "alice", all[0].UserIdentifier)
	assert.Equal(t, models.OrderStatusPending, all[0].Status)

	require.NoError(t, repo.UpdateStatus(ctx, "B", models.OrderStatusDelivered))
	b, err := repo.GetByID(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, b.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", models.OrderStatusShipped), repositories.ErrNotFound)
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewKVSessionRepository(storage.NewMemoryKV())

	assert.Nil(t, repo.Get(ctx))
	require.NoError(t, repo.Save(ctx, models.Session{Identifier: "alice", DisplayName: "Alice"}))
	got := repo.Get(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Identifier)

	require.NoError(t, repo.Clear(ctx))
	assert.Nil(t, repo.Get(ctx))
}

func TestUserRepository_KeepsRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewKVUserRepository(storage.NewMemoryKV())

	require.NoError(t, repo.Create(ctx, models.User{Identifier: "b"}))
	require.NoError(t, repo.Create(ctx, models.User{Identifier: "a"}))

	users := repo.GetAll(ctx)
	require.Len(t, users, 2)
	assert.Equal(t, "b", users[0].Identifier)
	assert.Equal(t, "a", users[1].Identifier)
}
