package product

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTopProducts is how many products the dashboard ranks.
const DefaultTopProducts = 20

// Product is a catalog entry of one store.
type Product struct {
	ID              uuid.UUID           `json:"id"`
	StoreID         uuid.UUID           `json:"store_id"`
	Number          int                 `json:"number"`
	Name            string              `json:"name"`
	DescriptionHTML string              `json:"description"`
	Type            string              `json:"type"`
	ImageURL        string              `json:"image"`
	ImagePath       string              `json:"-"`
	Price           decimal.Decimal     `json:"price"`
	Status          enums.ProductStatus `json:"status"`
	Rating          float64             `json:"rating"`
	Amount          int                 `json:"amount"`
	ShippingInfo    string              `json:"shipping_info"`
	CreatedAt       time.Time           `json:"created_at"`
}

// MergeProductTypes appends newType to existing and keeps "Other" unique and last.
func MergeProductTypes(existing []string, newType string) []string {
	newType = strings.TrimSpace(newType)
	out := make([]string, 0, len(existing)+2)
	seen := map[string]bool{}
	for _, t := range existing {
		t = strings.TrimSpace(t)
		if t == "" || t == enums.ProductTypeOther || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if newType != "" && newType != enums.ProductTypeOther && !seen[newType] {
		out = append(out, newType)
	}
	return append(out, enums.ProductTypeOther)
}

// NextNumber returns one more than the highest number in list, or 1.
func NextNumber(list []Product) int {
	highest := 0
	for _, p := range list {
		if p.Number > highest {
			highest = p.Number
		}
	}
	return highest + 1
}

// TopProducts ranks by amount sold then rating, both descending, and keeps n.
func TopProducts(list []Product, n int) []Product {
	if n <= 0 {
		n = DefaultTopProducts
	}
	ranked := append([]Product(nil), list...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Amount != ranked[j].Amount {
			return ranked[i].Amount > ranked[j].Amount
		}
		return ranked[i].Rating > ranked[j].Rating
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Search keeps products whose name or description contains query, case-insensitively.
func Search(list []Product, query string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}
	out := make([]Product, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.DescriptionHTML), query) {
			out = append(out, p)
		}
	}
	return out
}

// CreatedBetween counts products created in [from, to).
func CreatedBetween(list []Product, from, to time.Time) int {
	count := 0
	for _, p := range list {
		if !p.CreatedAt.Before(from) && p.CreatedAt.Before(to) {
			count++
		}
	}
	return count
}
