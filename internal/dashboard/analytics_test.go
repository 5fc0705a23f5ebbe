package dashboard

import (
	"testing"
	"time"

	"github.com/angelmondragon/prodeel-backend/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) orders.Order {
	return orders.Order{OrderedAt: time.Date(2025, 3, 1, hour, minute, 0, 0, time.UTC), DateValid: true}
}

func TestOrderTimeSlots(t *testing.T) {
	list := []orders.Order{
		at(7, 59),
		at(8, 0),
		at(9, 59),
		at(10, 0),
		at(23, 30),
		at(0, 10),
		{Address: "no date"},
	}

	slots := OrderTimeSlots(list, nil)

	require.Len(t, slots, 8)
	assert.Equal(t, "08:00 AM - 10:00 AM", slots[0].Label)
	assert.Equal(t, "12:00 PM - 02:00 PM", slots[2].Label)
	assert.Equal(t, "10:00 PM - 12:00 AM", slots[7].Label)

	counts := make([]int, 0, len(slots))
	for _, s := range slots {
		counts = append(counts, s.Orders)
	}
	assert.Equal(t, []int{2, 1, 0, 0, 0, 0, 0, 1}, counts)
}

func TestOrderTimeSlotsUsesLocation(t *testing.T) {
	hcm := time.FixedZone("ICT", 7*60*60)
	slots := OrderTimeSlots([]orders.Order{at(2, 0)}, hcm)

	assert.Equal(t, 1, slots[0].Orders)
}

func TestFoldDiacritics(t *testing.T) {
	assert.Equal(t, "Ho Chi Minh", FoldDiacritics("Hồ Chí Minh"))
	assert.Equal(t, "Khanh Hoa", FoldDiacritics("Khánh Hòa"))
	assert.Equal(t, "đa nang", FoldDiacritics("đà nẵng"))
}

func TestRegionCounts(t *testing.T) {
	list := []orders.Order{
		{Address: "5 Nguyễn Huệ, Hồ Chí Minh"},
		{Address: "12 Lý Thường Kiệt, ho chi minh"},
		{Address: "3 Hai Bà Trưng, Hà Nội"},
		{Address: "7 Bạch Đằng, Đà Nẵng"},
		{Address: "Phường 5, TP Cà Mau"},
		{Address: "10 rue de Rivoli, Paris"},
		{Address: ""},
	}

	got := RegionCounts(list)

	require.Len(t, got, len(Regions))
	byCode := map[string]int{}
	total := 0
	for _, r := range got {
		byCode[r.Code] = r.Orders
		total += r.Orders
	}
	assert.Equal(t, 2, byCode["vn-hc"])
	assert.Equal(t, 1, byCode["vn-318"])
	assert.Equal(t, 1, byCode["vn-da"])
	assert.Equal(t, 1, byCode["vn-cm"])
	assert.Zero(t, byCode["vn-3655"])
	assert.Equal(t, 5, total)
	assert.Equal(t, "vn-3655", got[0].Code)
}

func TestRegionCountsNeedsWholeWord(t *testing.T) {
	got := RegionCounts([]orders.Order{{Address: "Longan street 4"}})

	for _, r := range got {
		assert.Zero(t, r.Orders, r.Code)
	}
}
