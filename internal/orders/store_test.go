package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sokaytech/storefront/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	return db
}

func testOrder(ref string) *models.Order {
	return &models.Order{
		Reference:     ref,
		ProductIDs:    "1,2",
		TotalAmount:   65000,
		PaymentMethod: models.PaymentMethodCOD,
		Status:        models.OrderStatusPending,
		CustomerInfo: models.CustomerInfo{
			Name:    "Ada Obi",
			Email:   "ada@example.com",
			Phone:   "+2348012345678",
			Address: "12 Marina Road, Lagos",
		},
	}
}

func TestGormStore_CreateOrder(t *testing.T) {
	t.Parallel()

	store := NewGormStore(newTestDB(t))
	ctx := context.Background()

	placement, err := store.CreateOrder(ctx, testOrder("COD-sokay-1"))
	require.NoError(t, err)
	assert.Equal(t, OriginPersisted, placement.Origin)
	assert.NotEmpty(t, placement.Order.ID)
	assert.Nil(t, placement.Order.UserID)

	order, items, err := store.GetOrder(ctx, placement.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(65000), order.TotalAmount)
	assert.Empty(t, items)
}

func TestGormStore_CreateOrderItems(t *testing.T) {
	t.Parallel()

	store := NewGormStore(newTestDB(t))
	ctx := context.Background()

	placement, err := store.CreateOrder(ctx, testOrder("COD-sokay-2"))
	require.NoError(t, err)

	created, err := store.CreateOrderItems(ctx, placement.Order.ID, []models.OrderItem{
		{ProductID: "1", Name: "Sokay A1 Microphone", Price: 15000, Quantity: 1},
		{ProductID: "2", Name: "Sokay H200 Headphones", Price: 25000, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	_, items, err := store.GetOrder(ctx, placement.Order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, placement.Order.ID, items[0].OrderID)
}

func TestGormStore_UpdateStatus(t *testing.T) {
	t.Parallel()

	store := NewGormStore(newTestDB(t))
	ctx := context.Background()

	placement, err := store.CreateOrder(ctx, testOrder("COD-sokay-3"))
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, placement.Order.ID, models.OrderStatusCompleted))

	order, _, err := store.GetOrder(ctx, placement.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)

	err = store.UpdateStatus(ctx, placement.Order.ID, "shipped")
	assert.ErrorIs(t, err, ErrBadStatus)

	err = store.UpdateStatus(ctx, "missing", models.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_ListOrders(t *testing.T) {
	t.Parallel()

	store := NewGormStore(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.CreateOrder(ctx, testOrder(fmt.Sprintf("COD-sokay-%d", i)))
		require.NoError(t, err)
	}

	orders, total, err := store.ListOrders(ctx, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, orders, 3)

	orders, _, err = store.ListOrders(ctx, 3, 3)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOfflineStore_PlacementIsDegraded(t *testing.T) {
	t.Parallel()

	store := NewOfflineStore()
	ctx := context.Background()

	placement, err := store.CreateOrder(ctx, testOrder("sokay-99"))
	require.NoError(t, err)
	assert.Equal(t, OriginDegraded, placement.Origin)
	assert.NotEmpty(t, placement.Order.ID)

	items, err := store.CreateOrderItems(ctx, placement.Order.ID, []models.OrderItem{
		{ProductID: "1", Name: "Sokay A1 Microphone", Price: 15000, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	order, got, err := store.GetOrder(ctx, placement.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "sokay-99", order.Reference)
	assert.Len(t, got, 1)

	_, total, err := store.ListOrders(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
