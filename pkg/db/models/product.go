package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a merchant catalog entry.
type Product struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID         uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:products_store_number_key,priority:1"`
	Number          int             `gorm:"column:number;not null;uniqueIndex:products_store_number_key,priority:2"`
	Name            string          `gorm:"column:name;not null"`
	DescriptionHTML string          `gorm:"column:description_html;not null;default:''"`
	Type            string          `gorm:"column:type;not null"`
	ImageURL        string          `gorm:"column:image_url;not null;default:''"`
	ImagePath       string          `gorm:"column:image_path;not null;default:''"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Status          string          `gorm:"column:status;not null"`
	Rating          float64         `gorm:"column:rating;not null;default:0"`
	Amount          int             `gorm:"column:amount;not null;default:0"`
	ShippingInfo    string          `gorm:"column:shipping_info;not null;default:''"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
