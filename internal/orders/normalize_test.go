package orders

import (
	"math"
	"testing"
	"time"

	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrderProductArray(t *testing.T) {
	order, err := NormalizeOrder(map[string]any{
		"orderId":      "ORD1001",
		"customerName": " Alice Johnson ",
		"status":       "Delivered",
		"orderedDate":  "2025-01-05T14:23",
		"products": []any{
			map[string]any{"name": "Mouse", "priceEach": 10.0, "quantityOrdered": 2.0},
			map[string]any{"name": "Pad", "priceEach": "2.50", "quantityOrdered": "4"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice Johnson", order.CustomerName)
	assert.Equal(t, enums.OrderStatusDelivered, order.Status)
	assert.True(t, order.DateValid)
	assert.Equal(t, time.Date(2025, 1, 5, 14, 23, 0, 0, time.UTC), order.OrderedAt)
	require.Len(t, order.Lines, 2)
	assert.Nil(t, order.Flat)
	assert.True(t, order.Revenue().Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 6, order.Units())
	assert.Equal(t, []string{"Mouse", "Pad"}, order.ProductNames())
}

func TestNormalizeOrderFlatFields(t *testing.T) {
	order, err := NormalizeOrder(map[string]any{
		"orderId":         "ORD1002",
		"products":        "Wireless Mouse",
		"priceEach":       25.99,
		"quantityOrdered": 2,
		"status":          "On delivery",
		"orderedDate":     "2025-04-28T14:23",
	})
	require.NoError(t, err)

	require.NotNil(t, order.Flat)
	assert.Empty(t, order.Lines)
	assert.Equal(t, "Wireless Mouse", order.Flat.ProductName)
	assert.Equal(t, "51.98", order.Revenue().StringFixed(2))
}

func TestNormalizeOrderUnusableNumbersBecomeZero(t *testing.T) {
	order, err := NormalizeOrder(map[string]any{
		"orderedDate": "2025-01-05",
		"products": []any{
			map[string]any{"priceEach": math.NaN(), "quantityOrdered": 3},
			map[string]any{"priceEach": math.Inf(1), "quantityOrdered": 1},
			map[string]any{"priceEach": -5.0, "quantityOrdered": 1},
			map[string]any{"priceEach": 4.0, "quantityOrdered": "lots"},
			map[string]any{"priceEach": 4.0, "quantityOrdered": 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, order.Revenue().Equal(decimal.NewFromInt(4)))
}

func TestNormalizeOrderWithoutAmounts(t *testing.T) {
	order, err := NormalizeOrder(map[string]any{"orderId": "ORD9", "status": "Delivered"})
	require.NoError(t, err)
	assert.True(t, order.Revenue().IsZero())
	assert.False(t, order.DateValid)
	assert.Empty(t, order.DateKey())
}

func TestNormalizeOrderIsDeterministicForSameNumber(t *testing.T) {
	a, err := NormalizeOrder(map[string]any{"orderId": "ORD1"})
	require.NoError(t, err)
	b, err := NormalizeOrder(map[string]any{"orderId": "ORD1"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	_, err = NormalizeOrder(nil)
	assert.Error(t, err)
}

func TestNormalizeStoreOrder(t *testing.T) {
	storeA, storeB := uuid.New(), uuid.New()
	doc := map[string]any{"orderId": "A-1", "storeId": storeB.String()}

	a, err := NormalizeStoreOrder(storeA, doc)
	require.NoError(t, err)
	b, err := NormalizeStoreOrder(storeB, doc)
	require.NoError(t, err)
	assert.Equal(t, storeA, a.StoreID)
	assert.NotEqual(t, a.ID, b.ID)

	explicit := uuid.New()
	c, err := NormalizeStoreOrder(storeA, map[string]any{"id": explicit.String(), "orderId": "A-1"})
	require.NoError(t, err)
	assert.Equal(t, explicit, c.ID)

	_, err = NormalizeStoreOrder(storeA, nil)
	assert.Error(t, err)
}

func TestParseOrderDate(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  time.Time
		ok    bool
	}{
		{"rfc3339", "2025-02-10T08:00:00+07:00", time.Date(2025, 2, 10, 1, 0, 0, 0, time.UTC), true},
		{"minutes", "2025-02-10T08:30", time.Date(2025, 2, 10, 8, 30, 0, 0, time.UTC), true},
		{"day", "2025-02-10", time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), true},
		{"epoch millis", float64(1736035200000), time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"timestamp doc", map[string]any{"seconds": float64(1736035200), "nanoseconds": float64(0)}, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "yesterday", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"nan", math.NaN(), time.Time{}, false},
		{"nil", nil, time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseOrderDate(tc.value)
			assert.Equal(t, tc.ok, ok)
			assert.True(t, tc.want.Equal(got), "got %v want %v", got, tc.want)
		})
	}
}

func TestStatusOptionsFirstSeenOrder(t *testing.T) {
	list := []Order{
		{Status: enums.OrderStatusOnDelivery},
		{Status: enums.OrderStatusDelivered},
		{Status: enums.OrderStatusOnDelivery},
		{Status: ""},
		{Status: enums.OrderStatusCancelled},
	}
	assert.Equal(t, []string{"On delivery", "Delivered", "Cancelled"}, StatusOptions(list))
}
