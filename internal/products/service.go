package product

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/angelmondragon/prodeel-backend/pkg/db"
	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
	"github.com/angelmondragon/prodeel-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const createAttempts = 3

type productTypesStore interface {
	ProductTypes(ctx context.Context, storeID uuid.UUID) ([]string, error)
	SaveProductTypes(ctx context.Context, storeID uuid.UUID, productTypes []string) error
}

// Service exposes catalog operations.
type Service interface {
	All(ctx context.Context, storeID uuid.UUID) ([]Product, error)
	List(ctx context.Context, storeID uuid.UUID, query string, params pagination.Params) (*pagination.Page[Product], error)
	Create(ctx context.Context, storeID uuid.UUID, input CreateInput) (*Product, error)
	Delete(ctx context.Context, storeID, productID uuid.UUID) error
}

type service struct {
	repo     Repository
	types    productTypesStore
	images   ImageStore
	logg     *logger.Logger
	now      func() time.Time
	maxImage int64
}

// NewService constructs a product service. images may be nil when object
// storage is not configured; creating products then fails.
func NewService(repo Repository, types productTypesStore, images ImageStore, logg *logger.Logger, maxImageBytes int64) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product repository required")
	}
	if types == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings service required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:     repo,
		types:    types,
		images:   images,
		logg:     logg,
		now:      time.Now,
		maxImage: maxImageBytes,
	}, nil
}

func (s *service) All(ctx context.Context, storeID uuid.UUID) ([]Product, error) {
	list, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, query string, params pagination.Params) (*pagination.Page[Product], error) {
	list, err := s.All(ctx, storeID)
	if err != nil {
		return nil, err
	}
	page := pagination.Paginate(Search(list, query), params)
	return &page, nil
}

// Create validates the form, registers a new type when "Other" was chosen,
// uploads the image and stores the product under the next free number.
func (s *service) Create(ctx context.Context, storeID uuid.UUID, input CreateInput) (*Product, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(errs)
	}
	if s.maxImage > 0 && input.Image.Size > s.maxImage {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product").
			WithDetails(map[string]string{"image": "Image is too large"})
	}
	if s.images == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image storage not configured")
	}

	description, err := CleanDescriptionHTML(input.Description)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid description").
			WithDetails(map[string]string{"description": "Description is invalid"})
	}

	if input.Type == enums.ProductTypeOther {
		if err := s.registerType(ctx, storeID, input.NewType); err != nil {
			return nil, err
		}
	}

	id := uuid.New()
	objectPath := ObjectPath(storeID, productCollection, id.String(), input.Image.Name)
	imageURL, err := s.images.Upload(ctx, objectPath, input.Image.ContentType, input.Image.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload product image")
	}

	p := Product{
		ID:              id,
		StoreID:         storeID,
		Name:            input.Name,
		DescriptionHTML: description,
		Type:            input.ResolvedType(),
		ImageURL:        imageURL,
		ImagePath:       objectPath,
		Price:           input.Price,
		Status:          enums.ProductStatusInStock,
		ShippingInfo:    input.ShippingInfo,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.insert(ctx, &p); err != nil {
		if delErr := s.images.DeleteObject(ctx, objectPath); delErr != nil {
			s.logg.Error(ctx, "product.image.cleanup_failed", delErr)
		}
		return nil, err
	}
	return &p, nil
}

// insert assigns max+1 and retries when a concurrent create took the number.
func (s *service) insert(ctx context.Context, p *Product) error {
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		highest, err := s.repo.MaxNumber(ctx, p.StoreID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next product number")
		}
		p.Number = highest + 1
		lastErr = s.repo.Create(ctx, *p)
		if lastErr == nil {
			return nil
		}
		if !db.IsUniqueViolation(lastErr, "") {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "create product")
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, "product number taken, retry")
}

func (s *service) registerType(ctx context.Context, storeID uuid.UUID, newType string) error {
	current, err := s.types.ProductTypes(ctx, storeID)
	if err != nil {
		return err
	}
	merged := MergeProductTypes(current, newType)
	if slices.Equal(merged, current) {
		return nil
	}
	return s.types.SaveProductTypes(ctx, storeID, merged)
}

func (s *service) Delete(ctx context.Context, storeID, productID uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, storeID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.Delete(ctx, storeID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if p.ImagePath != "" && s.images != nil {
		if err := s.images.DeleteObject(ctx, p.ImagePath); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "object", p.ImagePath), "product.image.delete_failed", err)
		}
	}
	return nil
}
