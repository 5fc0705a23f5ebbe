package product

import (
	"context"

	"github.com/angelmondragon/prodeel-backend/internal/repo"
	"github.com/angelmondragon/prodeel-backend/pkg/db/models"
	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]Product, error)
	FindByID(ctx context.Context, storeID, productID uuid.UUID) (*Product, error)
	MaxNumber(ctx context.Context, storeID uuid.UUID) (int, error)
	Create(ctx context.Context, p Product) error
	Delete(ctx context.Context, storeID, productID uuid.UUID) error
}

type repository struct {
	repo.Base
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]Product, error) {
	var rows []models.Product
	if err := r.DB(ctx).Where("store_id = ?", storeID).Order("number ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

func (r *repository) FindByID(ctx context.Context, storeID, productID uuid.UUID) (*Product, error) {
	var row models.Product
	if err := r.DB(ctx).Where("store_id = ? AND id = ?", storeID, productID).First(&row).Error; err != nil {
		return nil, err
	}
	p := toDomain(row)
	return &p, nil
}

// MaxNumber returns the highest product number of the store, 0 when it has none.
func (r *repository) MaxNumber(ctx context.Context, storeID uuid.UUID) (int, error) {
	var highest int
	err := r.DB(ctx).Model(&models.Product{}).
		Where("store_id = ?", storeID).
		Select("COALESCE(MAX(number), 0)").
		Row().Scan(&highest)
	return highest, err
}

func (r *repository) Create(ctx context.Context, p Product) error {
	row := toModel(p)
	return r.DB(ctx).Create(&row).Error
}

func (r *repository) Delete(ctx context.Context, storeID, productID uuid.UUID) error {
	res := r.DB(ctx).Where("store_id = ? AND id = ?", storeID, productID).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func toDomain(row models.Product) Product {
	return Product{
		ID:              row.ID,
		StoreID:         row.StoreID,
		Number:          row.Number,
		Name:            row.Name,
		DescriptionHTML: row.DescriptionHTML,
		Type:            row.Type,
		ImageURL:        row.ImageURL,
		ImagePath:       row.ImagePath,
		Price:           row.Price,
		Status:          enums.ProductStatus(row.Status),
		Rating:          row.Rating,
		Amount:          row.Amount,
		ShippingInfo:    row.ShippingInfo,
		CreatedAt:       row.CreatedAt,
	}
}

func toModel(p Product) models.Product {
	return models.Product{
		ID:              p.ID,
		StoreID:         p.StoreID,
		Number:          p.Number,
		Name:            p.Name,
		DescriptionHTML: p.DescriptionHTML,
		Type:            p.Type,
		ImageURL:        p.ImageURL,
		ImagePath:       p.ImagePath,
		Price:           p.Price,
		Status:          p.Status.String(),
		Rating:          p.Rating,
		Amount:          p.Amount,
		ShippingInfo:    p.ShippingInfo,
		CreatedAt:       p.CreatedAt,
	}
}
