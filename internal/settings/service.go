package settings

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Settings is the API view of a store's settings.
type Settings struct {
	StoreID      uuid.UUID `json:"store_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProductTypes []string  `json:"product_types"`
	EventCount   int       `json:"event_count"`
}

// Service exposes store settings.
type Service interface {
	Get(ctx context.Context, storeID uuid.UUID) (*Settings, error)
	ProductTypes(ctx context.Context, storeID uuid.UUID) ([]string, error)
	SaveProductTypes(ctx context.Context, storeID uuid.UUID, productTypes []string) error
	UpdateProfile(ctx context.Context, storeID uuid.UUID, name, email string) (*Settings, error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService builds the settings service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings repository required")
	}
	return &service{repo: repo, validate: validator.New()}, nil
}

// Get returns the settings, falling back to defaults for stores that never
// saved any.
func (s *service) Get(ctx context.Context, storeID uuid.UUID) (*Settings, error) {
	row, err := s.repo.Get(ctx, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Settings{StoreID: storeID, ProductTypes: []string{enums.ProductTypeOther}}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	productTypes := []string(row.ProductTypes)
	if len(productTypes) == 0 {
		productTypes = []string{enums.ProductTypeOther}
	}
	return &Settings{
		StoreID:      row.StoreID,
		Name:         row.Name,
		Email:        row.Email,
		ProductTypes: productTypes,
		EventCount:   row.Events.Count(),
	}, nil
}

func (s *service) ProductTypes(ctx context.Context, storeID uuid.UUID) ([]string, error) {
	current, err := s.Get(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return current.ProductTypes, nil
}

func (s *service) SaveProductTypes(ctx context.Context, storeID uuid.UUID, productTypes []string) error {
	if err := s.repo.UpdateProductTypes(ctx, storeID, productTypes); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product types")
	}
	return nil
}

func (s *service) UpdateProfile(ctx context.Context, storeID uuid.UUID, name, email string) (*Settings, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	details := map[string]string{}
	if name == "" {
		details["name"] = "name is required"
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		details["email"] = "email is invalid"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid settings").WithDetails(details)
	}
	if err := s.repo.UpdateProfile(ctx, storeID, name, email); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings")
	}
	return s.Get(ctx, storeID)
}
