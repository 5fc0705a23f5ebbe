package orders

import (
	"testing"
	"time"

	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
)

func sampleOrders() []Order {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) }
	return []Order{
		{OrderNumber: "ORD1001", CustomerName: "Alice Johnson", Address: "12 Maple St, Hà Nội", PhoneNumber: "555-0100",
			Status: enums.OrderStatusDelivered, OrderedAt: day(2025, 1, 5), DateValid: true,
			Lines: []Line{{ProductName: "Wireless Mouse"}}},
		{OrderNumber: "ORD1002", CustomerName: "Bob Smith", Address: "9 Oak Ave", PhoneNumber: "555-0200",
			Status: enums.OrderStatusCancelled, OrderedAt: day(2025, 2, 10), DateValid: true,
			Flat: &Line{ProductName: "Keyboard"}},
		{OrderNumber: "ORD1003", CustomerName: "Carol", Status: enums.OrderStatusOnDelivery},
	}
}

func TestFilterQueryMatchesAcrossFields(t *testing.T) {
	list := sampleOrders()

	assert.Len(t, Filter{Query: "alice"}.Apply(list), 1)
	assert.Len(t, Filter{Query: "KEYBOARD"}.Apply(list), 1)
	assert.Len(t, Filter{Query: "555-0"}.Apply(list), 2)
	assert.Len(t, Filter{Query: "ord100"}.Apply(list), 3)
	assert.Len(t, Filter{Query: "deliver"}.Apply(list), 2)
	assert.Empty(t, Filter{Query: "zebra"}.Apply(list))
}

func TestFilterStatusIsExact(t *testing.T) {
	got := Filter{Status: "Cancelled"}.Apply(sampleOrders())
	assert.Len(t, got, 1)
	assert.Equal(t, "ORD1002", got[0].OrderNumber)

	assert.Empty(t, Filter{Status: "cancelled"}.Apply(sampleOrders()))
}

func TestFilterDateBoundsAreInclusive(t *testing.T) {
	list := sampleOrders()

	got := Filter{From: "2025-01-05", To: "2025-02-10"}.Apply(list)
	assert.Len(t, got, 2)

	got = Filter{From: "2025-01-06"}.Apply(list)
	assert.Len(t, got, 1)

	// undated orders never pass a date bound
	got = Filter{To: "2030-01-01"}.Apply(list)
	assert.Len(t, got, 2)
}

func TestFilterValidate(t *testing.T) {
	assert.NoError(t, Filter{From: "2025-01-01"}.Validate())
	assert.Error(t, Filter{To: "01/02/2025"}.Validate())
}
