package enums

import "fmt"

// ProductStatus is the stock state shown in the product table.
type ProductStatus string

const (
	ProductStatusInStock    ProductStatus = "In Stock"
	ProductStatusOutOfStock ProductStatus = "Out of Stock"
)

var validProductStatuses = []ProductStatus{
	ProductStatusInStock,
	ProductStatusOutOfStock,
}

func (s ProductStatus) String() string {
	return string(s)
}

func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}

// ProductTypeOther is the catch-all product type; choosing it requires a new type name.
const ProductTypeOther = "Other"
