package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a placed storefront order. Lines are optional; older documents
// only carry the flat price/quantity pair.
type Order struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	StoreID         uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index"`
	OrderNumber     string           `gorm:"column:order_number;not null"`
	CustomerName    string           `gorm:"column:customer_name;not null;default:''"`
	Address         string           `gorm:"column:address;not null;default:''"`
	PhoneNumber     string           `gorm:"column:phone_number;not null;default:''"`
	Status          string           `gorm:"column:status;not null"`
	ProductNames    string           `gorm:"column:product_names;not null;default:''"`
	PriceEach       *decimal.Decimal `gorm:"column:price_each;type:numeric(12,2)"`
	QuantityOrdered *int             `gorm:"column:quantity_ordered"`
	OrderedAt       *time.Time       `gorm:"column:ordered_at;index"`
	Lines           []OrderLine      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string { return "orders" }

// OrderLine is a single product row of an order.
type OrderLine struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	Position        int             `gorm:"column:position;not null;default:0"`
	ProductName     string          `gorm:"column:product_name;not null;default:''"`
	PriceEach       decimal.Decimal `gorm:"column:price_each;type:numeric(12,2);not null"`
	QuantityOrdered int             `gorm:"column:quantity_ordered;not null"`
}

func (OrderLine) TableName() string { return "order_lines" }
