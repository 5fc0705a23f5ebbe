package orders

import (
	"strings"
	"time"
)

// Filter narrows an order listing. From and To are inclusive YYYY-MM-DD bounds.
type Filter struct {
	Query  string
	Status string
	From   string
	To     string
}

// Validate checks the date bounds are calendar days.
func (f Filter) Validate() error {
	for _, bound := range []string{f.From, f.To} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, bound); err != nil {
			return err
		}
	}
	return nil
}

// Match reports whether an order passes every configured criterion.
func (f Filter) Match(order Order) bool {
	if f.Status != "" && order.Status.String() != f.Status {
		return false
	}
	if f.From != "" || f.To != "" {
		day := order.DateKey()
		if day == "" {
			return false
		}
		// YYYY-MM-DD compares chronologically as a string.
		if f.From != "" && day < f.From {
			return false
		}
		if f.To != "" && day > f.To {
			return false
		}
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	haystack := []string{
		order.OrderNumber,
		order.CustomerName,
		order.Status.String(),
		order.Address,
		order.PhoneNumber,
	}
	haystack = append(haystack, order.ProductNames()...)
	for _, field := range haystack {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Apply returns the orders that match, preserving input order.
func (f Filter) Apply(list []Order) []Order {
	out := make([]Order, 0, len(list))
	for _, order := range list {
		if f.Match(order) {
			out = append(out, order)
		}
	}
	return out
}
