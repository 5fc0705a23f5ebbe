package orders

import (
	"strings"
	"time"

	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product row of an order.
type Line struct {
	ProductName     string          `json:"product_name"`
	PriceEach       decimal.Decimal `json:"price_each"`
	QuantityOrdered int             `json:"quantity_ordered"`
}

// Total returns price × quantity, or zero when either side is unusable.
func (l Line) Total() decimal.Decimal {
	if l.PriceEach.IsNegative() || l.QuantityOrdered <= 0 {
		return decimal.Zero
	}
	return l.PriceEach.Mul(decimal.NewFromInt(int64(l.QuantityOrdered)))
}

// Order is the canonical order shape every consumer works with. Documents
// that only carry flat price/quantity fields are normalized into Flat.
type Order struct {
	ID           uuid.UUID         `json:"id"`
	StoreID      uuid.UUID         `json:"store_id"`
	OrderNumber  string            `json:"order_number"`
	CustomerName string            `json:"customer_name"`
	Address      string            `json:"address"`
	PhoneNumber  string            `json:"phone_number"`
	Status       enums.OrderStatus `json:"status"`
	OrderedAt    time.Time         `json:"ordered_at"`
	// DateValid is false when the source date could not be parsed; such
	// orders are listed but never bucketed.
	DateValid bool   `json:"date_valid"`
	Lines     []Line `json:"lines,omitempty"`
	Flat      *Line  `json:"flat,omitempty"`
}

// Revenue sums the product lines, falling back to the flat fields.
func (o Order) Revenue() decimal.Decimal {
	if len(o.Lines) > 0 {
		total := decimal.Zero
		for _, line := range o.Lines {
			total = total.Add(line.Total())
		}
		return total
	}
	if o.Flat != nil {
		return o.Flat.Total()
	}
	return decimal.Zero
}

// Units sums ordered quantities the same way Revenue sums money.
func (o Order) Units() int {
	if len(o.Lines) > 0 {
		units := 0
		for _, line := range o.Lines {
			if line.QuantityOrdered > 0 {
				units += line.QuantityOrdered
			}
		}
		return units
	}
	if o.Flat != nil && o.Flat.QuantityOrdered > 0 {
		return o.Flat.QuantityOrdered
	}
	return 0
}

// ProductNames lists the names of every product on the order.
func (o Order) ProductNames() []string {
	names := make([]string, 0, len(o.Lines)+1)
	for _, line := range o.Lines {
		if line.ProductName != "" {
			names = append(names, line.ProductName)
		}
	}
	if len(o.Lines) == 0 && o.Flat != nil && o.Flat.ProductName != "" {
		names = append(names, o.Flat.ProductName)
	}
	return names
}

// DateKey returns the YYYY-MM-DD day of the order, empty when the date is invalid.
func (o Order) DateKey() string {
	if !o.DateValid {
		return ""
	}
	return o.OrderedAt.Format(DateLayout)
}

// StatusOptions returns the distinct statuses in first-seen order.
func StatusOptions(list []Order) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0)
	for _, order := range list {
		status := strings.TrimSpace(order.Status.String())
		if status == "" {
			continue
		}
		if _, ok := seen[status]; ok {
			continue
		}
		seen[status] = struct{}{}
		out = append(out, status)
	}
	return out
}
