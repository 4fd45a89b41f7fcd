package repository

import (
	"context"
	"testing"
	"time"

	"clothing-store/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(customer string, createdAt time.Time, productIDs ...string) *model.Order {
	items := make([]model.OrderItem, len(productIDs))
	total := 8.0
	for i, id := range productIDs {
		items[i] = model.OrderItem{
			ProductID:   id,
			ProductName: "Item " + id,
			Quantity:    i + 1,
			Size:        "M",
			Color:       "Black",
			Price:       20,
		}
		total += items[i].Subtotal()
	}

	return &model.Order{
		CustomerName:    customer,
		CustomerPhone:   "555",
		CustomerAddress: "1 Main St",
		Items:           items,
		TotalAmount:     total,
		DeliveryFee:     8,
		Status:          model.OrderStatusPending,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Store) {
		ctx := context.Background()
		repo := store.Orders

		now := time.Now().UTC().Truncate(time.Millisecond)
		order := newTestOrder("Ann", now, "p1", "6523f0a9c2b1e4d5f6a7b8c9")

		require.NoError(t, repo.Create(ctx, order))
		require.NotEmpty(t, order.ID)

		got, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, "Ann", got.CustomerName)
		assert.Equal(t, "555", got.CustomerPhone)
		assert.Equal(t, "1 Main St", got.CustomerAddress)
		assert.Equal(t, model.OrderStatusPending, got.Status)
		assert.Equal(t, 68.0, got.TotalAmount)
		assert.Equal(t, 8.0, got.DeliveryFee)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "p1", got.Items[0].ProductID)
		assert.Equal(t, "6523f0a9c2b1e4d5f6a7b8c9", got.Items[1].ProductID)
		assert.Equal(t, "Item p1", got.Items[0].ProductName)
		assert.Equal(t, 2, got.Items[1].Quantity)
		assert.Equal(t, "M", got.Items[0].Size)
		assert.Nil(t, got.Items[0].Product)
		assert.WithinDuration(t, now, got.CreatedAt, time.Millisecond)
	})
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Store) {
		got, err := store.Orders.GetByID(context.Background(), "unknown")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestOrderRepository_ListNewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Store) {
		ctx := context.Background()
		repo := store.Orders

		base := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, repo.Create(ctx, newTestOrder("First", base, "p1")))
		require.NoError(t, repo.Create(ctx, newTestOrder("Second", base.Add(time.Minute), "p2")))

		orders, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "Second", orders[0].CustomerName)
		assert.Equal(t, "First", orders[1].CustomerName)
	})
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Store) {
		ctx := context.Background()
		repo := store.Orders

		created := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
		order := newTestOrder("Ann", created, "p1")
		require.NoError(t, repo.Create(ctx, order))

		updatedAt := time.Now().UTC().Truncate(time.Millisecond)
		got, err := repo.UpdateStatus(ctx, order.ID, model.OrderStatusProcessing, updatedAt)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, model.OrderStatusProcessing, got.Status)
		assert.Equal(t, order.TotalAmount, got.TotalAmount)
		assert.Equal(t, order.Items[0].ProductName, got.Items[0].ProductName)
		assert.WithinDuration(t, created, got.CreatedAt, time.Millisecond)
		assert.WithinDuration(t, updatedAt, got.UpdatedAt, time.Millisecond)

		missing, err := repo.UpdateStatus(ctx, "6523f0a9c2b1e4d5f6a7b8c9", model.OrderStatusCompleted, updatedAt)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestEncodeDecodeItems(t *testing.T) {
	items := []model.OrderItem{
		{ProductID: "p1", ProductName: "Shirt", Quantity: 2, Price: 20, Product: &model.Product{ID: "p1"}},
		{ProductID: "p2", ProductName: "Hat", Quantity: 1, Size: "L", Color: "Red", Price: 5.5},
	}

	encoded, err := encodeItems(items)
	require.NoError(t, err)
	assert.NotContains(t, encoded, `"productId"`, "expanded products are not persisted")

	decoded, err := decodeItems([]byte(encoded))
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Nil(t, decoded[0].Product)
	assert.Equal(t, "p1", decoded[0].ProductID)
	assert.Equal(t, "L", decoded[1].Size)
	assert.Equal(t, 5.5, decoded[1].Price)
}
