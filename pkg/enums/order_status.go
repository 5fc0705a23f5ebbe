package enums

import "fmt"

// OrderStatus is the fulfilment state of a storefront order.
type OrderStatus string

const (
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusOnDelivery OrderStatus = "On delivery"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusDelivered,
	OrderStatusOnDelivery,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CountsAsRevenue reports whether orders in this state contribute to revenue.
func (s OrderStatus) CountsAsRevenue() bool {
	return s == OrderStatusDelivered
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
