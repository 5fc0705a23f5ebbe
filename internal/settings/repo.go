package settings

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/prodeel-backend/internal/repo"
	"github.com/angelmondragon/prodeel-backend/pkg/db/models"
	"github.com/angelmondragon/prodeel-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists store settings. Each write touches a single column so
// concurrent writers of different fields do not clobber each other.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, storeID uuid.UUID) (*models.StoreSettings, error)
	LoadEvents(ctx context.Context, storeID uuid.UUID) (types.CalendarDocument, error)
	PersistEvents(ctx context.Context, storeID uuid.UUID, events types.CalendarDocument) error
	UpdateProductTypes(ctx context.Context, storeID uuid.UUID, productTypes []string) error
	UpdateProfile(ctx context.Context, storeID uuid.UUID, name, email string) error
}

type repository struct {
	repo.Base
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Get(ctx context.Context, storeID uuid.UUID) (*models.StoreSettings, error) {
	var row models.StoreSettings
	if err := r.DB(ctx).Where("store_id = ?", storeID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// LoadEvents returns the stored calendar, empty when the store has no settings yet.
func (r *repository) LoadEvents(ctx context.Context, storeID uuid.UUID) (types.CalendarDocument, error) {
	row, err := r.Get(ctx, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.CalendarDocument{}, nil
	}
	if err != nil {
		return nil, err
	}
	if row.Events == nil {
		return types.CalendarDocument{}, nil
	}
	return row.Events, nil
}

// PersistEvents overwrites the events column, creating the row when missing.
func (r *repository) PersistEvents(ctx context.Context, storeID uuid.UUID, events types.CalendarDocument) error {
	if events == nil {
		events = types.CalendarDocument{}
	}
	return r.upsert(ctx, &models.StoreSettings{
		StoreID:      storeID,
		ProductTypes: types.StringList{},
		Events:       events,
	}, "events")
}

func (r *repository) UpdateProductTypes(ctx context.Context, storeID uuid.UUID, productTypes []string) error {
	list := types.StringList(productTypes)
	if list == nil {
		list = types.StringList{}
	}
	return r.upsert(ctx, &models.StoreSettings{
		StoreID:      storeID,
		ProductTypes: list,
		Events:       types.CalendarDocument{},
	}, "product_types")
}

func (r *repository) UpdateProfile(ctx context.Context, storeID uuid.UUID, name, email string) error {
	return r.upsert(ctx, &models.StoreSettings{
		StoreID:      storeID,
		Name:         name,
		Email:        email,
		ProductTypes: types.StringList{},
		Events:       types.CalendarDocument{},
	}, "name", "email")
}

func (r *repository) upsert(ctx context.Context, row *models.StoreSettings, columns ...string) error {
	row.UpdatedAt = time.Now().UTC()
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
	}).Create(row).Error
}
