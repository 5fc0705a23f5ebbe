package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/prodeel-backend/pkg/types"
)

// StoreSettings is the per-merchant settings record. Calendar events live in
// the events column and are overwritten as a whole on every flush.
type StoreSettings struct {
	StoreID      uuid.UUID              `gorm:"column:store_id;type:uuid;primaryKey"`
	Name         string                 `gorm:"column:name;not null;default:''"`
	Email        string                 `gorm:"column:email;not null;default:''"`
	ProductTypes types.StringList       `gorm:"column:product_types;type:jsonb;not null;default:'[]'"`
	Events       types.CalendarDocument `gorm:"column:events;type:jsonb;not null;default:'{}'"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreSettings) TableName() string { return "store_settings" }
