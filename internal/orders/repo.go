package orders

import (
	"context"
	"strings"

	"github.com/angelmondragon/prodeel-backend/internal/repo"
	"github.com/angelmondragon/prodeel-backend/pkg/db/models"
	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]Order, error)
	Create(ctx context.Context, order Order) error
	CreateMany(ctx context.Context, list []Order) error
	Delete(ctx context.Context, storeID, orderID uuid.UUID) error
}

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]Order, error) {
	var rows []models.Order
	err := r.DB(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("store_id = ?", storeID).
		Order("ordered_at ASC").
		Order("order_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

func (r *repository) Create(ctx context.Context, order Order) error {
	row := toModel(order)
	return r.DB(ctx).Create(&row).Error
}

// CreateMany inserts every order with its lines in one transaction.
func (r *repository) CreateMany(ctx context.Context, list []Order) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := r.WithTx(tx)
		for _, order := range list {
			if err := txRepo.Create(ctx, order); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the order and its lines together.
func (r *repository) Delete(ctx context.Context, storeID, orderID uuid.UUID) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND store_id = ?", orderID, storeID).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("order_id = ?", orderID).Delete(&models.OrderLine{}).Error
	})
}

func toDomain(row models.Order) Order {
	order := Order{
		ID:           row.ID,
		StoreID:      row.StoreID,
		OrderNumber:  row.OrderNumber,
		CustomerName: row.CustomerName,
		Address:      row.Address,
		PhoneNumber:  row.PhoneNumber,
		Status:       enums.OrderStatus(row.Status),
	}
	if row.OrderedAt != nil && !row.OrderedAt.IsZero() {
		order.OrderedAt = row.OrderedAt.UTC()
		order.DateValid = true
	}
	if len(row.Lines) > 0 {
		order.Lines = make([]Line, 0, len(row.Lines))
		for _, line := range row.Lines {
			order.Lines = append(order.Lines, Line{
				ProductName:     line.ProductName,
				PriceEach:       line.PriceEach,
				QuantityOrdered: line.QuantityOrdered,
			})
		}
		return order
	}
	if row.PriceEach != nil || row.QuantityOrdered != nil {
		flat := Line{ProductName: row.ProductNames}
		if row.PriceEach != nil {
			flat.PriceEach = *row.PriceEach
		}
		if row.QuantityOrdered != nil {
			flat.QuantityOrdered = *row.QuantityOrdered
		}
		order.Flat = &flat
	} else if row.ProductNames != "" {
		order.Flat = &Line{ProductName: row.ProductNames}
	}
	return order
}

func toModel(order Order) models.Order {
	id := order.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	row := models.Order{
		ID:           id,
		StoreID:      order.StoreID,
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		Address:      order.Address,
		PhoneNumber:  order.PhoneNumber,
		Status:       order.Status.String(),
		ProductNames: strings.Join(order.ProductNames(), ", "),
	}
	if order.DateValid {
		at := order.OrderedAt.UTC()
		row.OrderedAt = &at
	}
	for i, line := range order.Lines {
		row.Lines = append(row.Lines, models.OrderLine{
			ID:              uuid.New(),
			OrderID:         id,
			Position:        i,
			ProductName:     line.ProductName,
			PriceEach:       line.PriceEach,
			QuantityOrdered: line.QuantityOrdered,
		})
	}
	if len(order.Lines) == 0 && order.Flat != nil {
		price := order.Flat.PriceEach
		qty := order.Flat.QuantityOrdered
		row.PriceEach = &price
		row.QuantityOrdered = &qty
	}
	return row
}
