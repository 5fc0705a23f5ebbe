package orders

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/prodeel-backend/pkg/db/models"
	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderLine{}))
	return db
}

func TestRepositoryRoundTripsBothShapes(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))
	storeID := uuid.New()

	withLines := Order{
		ID:          uuid.New(),
		StoreID:     storeID,
		OrderNumber: "ORD1",
		Status:      enums.OrderStatusDelivered,
		OrderedAt:   time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC),
		DateValid:   true,
		Lines: []Line{
			{ProductName: "Mouse", PriceEach: decimal.NewFromInt(10), QuantityOrdered: 2},
			{ProductName: "Pad", PriceEach: decimal.RequireFromString("2.5"), QuantityOrdered: 1},
		},
	}
	flat := Order{
		ID:          uuid.New(),
		StoreID:     storeID,
		OrderNumber: "ORD2",
		Status:      enums.OrderStatusCancelled,
		OrderedAt:   time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC),
		DateValid:   true,
		Flat:        &Line{ProductName: "Keyboard", PriceEach: decimal.NewFromInt(100), QuantityOrdered: 1},
	}
	undated := Order{ID: uuid.New(), StoreID: storeID, OrderNumber: "ORD3", Status: enums.OrderStatusOnDelivery}

	require.NoError(t, repo.Create(ctx, flat))
	require.NoError(t, repo.Create(ctx, withLines))
	require.NoError(t, repo.Create(ctx, undated))
	require.NoError(t, repo.Create(ctx, Order{StoreID: uuid.New(), OrderNumber: "OTHER"}))

	list, err := repo.ListByStore(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	byNumber := map[string]Order{}
	for _, o := range list {
		byNumber[o.OrderNumber] = o
	}

	got := byNumber["ORD1"]
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "Mouse", got.Lines[0].ProductName)
	assert.True(t, got.Revenue().Equal(decimal.RequireFromString("22.5")))
	assert.True(t, got.DateValid)

	got = byNumber["ORD2"]
	require.NotNil(t, got.Flat)
	assert.Equal(t, "Keyboard", got.Flat.ProductName)
	assert.True(t, got.Revenue().Equal(decimal.NewFromInt(100)))

	assert.False(t, byNumber["ORD3"].DateValid)
}

func TestRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))
	storeID := uuid.New()
	order := Order{ID: uuid.New(), StoreID: storeID, OrderNumber: "ORD1",
		Lines: []Line{{ProductName: "Mouse", PriceEach: decimal.NewFromInt(1), QuantityOrdered: 1}}}
	require.NoError(t, repo.Create(ctx, order))

	require.ErrorIs(t, repo.Delete(ctx, uuid.New(), order.ID), gorm.ErrRecordNotFound)
	require.NoError(t, repo.Delete(ctx, storeID, order.ID))

	list, err := repo.ListByStore(ctx, storeID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepositoryCreateManyIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))
	storeID := uuid.New()
	first := Order{ID: uuid.New(), StoreID: storeID, OrderNumber: "ORD1", Status: enums.OrderStatusDelivered,
		Lines: []Line{{ProductName: "Mouse", PriceEach: decimal.NewFromInt(1), QuantityOrdered: 1}}}
	second := Order{ID: uuid.New(), StoreID: storeID, OrderNumber: "ORD2", Status: enums.OrderStatusDelivered}

	require.Error(t, repo.CreateMany(ctx, []Order{first, second, first}))
	list, err := repo.ListByStore(ctx, storeID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.CreateMany(ctx, []Order{first, second}))
	list, err = repo.ListByStore(ctx, storeID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRepositoryDeleteRemovesLines(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	storeID := uuid.New()
	order := Order{ID: uuid.New(), StoreID: storeID, OrderNumber: "ORD1",
		Lines: []Line{{ProductName: "Mouse", PriceEach: decimal.NewFromInt(1), QuantityOrdered: 1}}}
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.Delete(ctx, storeID, order.ID))

	var lines int64
	require.NoError(t, db.Model(&models.OrderLine{}).Where("order_id = ?", order.ID).Count(&lines).Error)
	assert.Zero(t, lines)
}
