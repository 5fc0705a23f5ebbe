package customers

import (
	"context"
	"strings"

	"github.com/angelmondragon/prodeel-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/angelmondragon/prodeel-backend/pkg/pagination"
	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Customer is everyone who ordered under one name, with every address and
// phone number seen in first-seen order.
type Customer struct {
	Name         string   `json:"name"`
	Addresses    []string `json:"addresses"`
	PhoneNumbers []string `json:"phone_numbers"`
	Orders       int      `json:"orders"`
}

// BuildDirectory groups orders by customer name and sorts by name using
// Vietnamese collation.
func BuildDirectory(list []orders.Order) []Customer {
	index := map[string]int{}
	out := make([]Customer, 0)
	for _, o := range list {
		pos, ok := index[o.CustomerName]
		if !ok {
			pos = len(out)
			index[o.CustomerName] = pos
			out = append(out, Customer{Name: o.CustomerName, Addresses: []string{}, PhoneNumbers: []string{}})
		}
		c := &out[pos]
		c.Orders++
		c.Addresses = appendUnique(c.Addresses, o.Address)
		c.PhoneNumbers = appendUnique(c.PhoneNumbers, o.PhoneNumber)
	}

	col := collate.New(language.Vietnamese)
	sortCustomers(out, col)
	return out
}

func sortCustomers(list []Customer, col *collate.Collator) {
	names := make([]string, len(list))
	byName := make(map[string]Customer, len(list))
	for i, c := range list {
		names[i] = c.Name
		byName[c.Name] = c
	}
	col.SortStrings(names)
	for i, name := range names {
		list[i] = byName[name]
	}
}

// Search keeps customers whose name, any address or any phone contains query.
func Search(list []Customer, query string) []Customer {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}
	out := make([]Customer, 0, len(list))
	for _, c := range list {
		if matches(c, query) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c Customer, query string) bool {
	if strings.Contains(strings.ToLower(c.Name), query) {
		return true
	}
	for _, addr := range c.Addresses {
		if strings.Contains(strings.ToLower(addr), query) {
			return true
		}
	}
	for _, phone := range c.PhoneNumbers {
		if strings.Contains(strings.ToLower(phone), query) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

type orderLister interface {
	List(ctx context.Context, storeID uuid.UUID) ([]orders.Order, error)
}

// Service serves the customer directory.
type Service interface {
	List(ctx context.Context, storeID uuid.UUID, query string, params pagination.Params) (*pagination.Page[Customer], error)
}

type service struct {
	orders orderLister
}

// NewService builds the customer directory service.
func NewService(orders orderLister) (Service, error) {
	if orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders service required")
	}
	return &service{orders: orders}, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, query string, params pagination.Params) (*pagination.Page[Customer], error) {
	list, err := s.orders.List(ctx, storeID)
	if err != nil {
		return nil, err
	}
	page := pagination.Paginate(Search(BuildDirectory(list), query), params)
	return &page, nil
}
