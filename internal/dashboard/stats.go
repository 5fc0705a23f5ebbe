package dashboard

import (
	"math"
	"time"

	"github.com/angelmondragon/prodeel-backend/internal/orders"
	product "github.com/angelmondragon/prodeel-backend/internal/products"
	"github.com/angelmondragon/prodeel-backend/internal/revenue"
	"github.com/shopspring/decimal"
)

// Stats summarises Delivered orders.
type Stats struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Units     int             `json:"units"`
	Customers int             `json:"customers"`
}

// Comparison holds month-over-month percentage changes.
type Comparison struct {
	Revenue     int `json:"revenue"`
	Units       int `json:"units"`
	Customers   int `json:"customers"`
	NewProducts int `json:"new_products"`
}

// StatsFor sums Delivered orders whose date falls inside rng.
func StatsFor(list []orders.Order, rng revenue.DateRange) Stats {
	stats := Stats{Revenue: decimal.Zero}
	customers := map[string]struct{}{}
	for _, o := range list {
		if !o.Status.CountsAsRevenue() || !o.DateValid || !rng.Contains(o.OrderedAt) {
			continue
		}
		stats.Revenue = stats.Revenue.Add(o.Revenue())
		stats.Units += o.Units()
		customers[o.CustomerName] = struct{}{}
	}
	stats.Customers = len(customers)
	return stats
}

// PercentChange compares cur to prev as a whole percentage. A zero previous
// value reports 100 when anything happened and 0 otherwise. Halves round up.
func PercentChange(cur, prev float64) int {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return int(math.Floor((cur-prev)/prev*100 + 0.5))
}

// MonthRanges returns the calendar month containing now and the one before
// it, both anchored in now's location.
func MonthRanges(now time.Time) (current, previous revenue.DateRange) {
	loc := now.Location()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	prevStart := start.AddDate(0, -1, 0)
	current = revenue.NewRangeIn(start, start.AddDate(0, 1, -1), loc)
	previous = revenue.NewRangeIn(prevStart, start.AddDate(0, 0, -1), loc)
	return current, previous
}

// CompareMonths computes the month-over-month changes shown on the dashboard.
func CompareMonths(list []orders.Order, products []product.Product, now time.Time) Comparison {
	cur, prev := MonthRanges(now)
	curStats := StatsFor(list, cur)
	prevStats := StatsFor(list, prev)

	newThis := product.CreatedBetween(products, cur.From, cur.To)
	newLast := product.CreatedBetween(products, prev.From, prev.To)

	return Comparison{
		Revenue:     PercentChange(curStats.Revenue.InexactFloat64(), prevStats.Revenue.InexactFloat64()),
		Units:       PercentChange(float64(curStats.Units), float64(prevStats.Units)),
		Customers:   PercentChange(float64(curStats.Customers), float64(prevStats.Customers)),
		NewProducts: PercentChange(float64(newThis), float64(newLast)),
	}
}

// DefaultRange spans the local days of the first and the last dated order.
// Without any dated order it falls back to the calendar year of now. Days are
// read in now's location.
func DefaultRange(list []orders.Order, now time.Time) revenue.DateRange {
	loc := now.Location()
	var first, last time.Time
	for _, o := range list {
		if !o.DateValid || o.OrderedAt.IsZero() {
			continue
		}
		if first.IsZero() || o.OrderedAt.Before(first) {
			first = o.OrderedAt
		}
		if last.IsZero() || o.OrderedAt.After(last) {
			last = o.OrderedAt
		}
	}
	if first.IsZero() {
		year := now.Year()
		return revenue.NewRangeIn(
			time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
			time.Date(year, time.December, 31, 0, 0, 0, 0, loc),
			loc,
		)
	}
	return revenue.NewRangeIn(first, last, loc)
}
