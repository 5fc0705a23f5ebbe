package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/prodeel-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/angelmondragon/prodeel-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxIngestBatch caps the documents accepted by one Ingest call.
const MaxIngestBatch = 500

// Service exposes read models over a store's orders and accepts new order
// documents from the storefront.
type Service interface {
	List(ctx context.Context, storeID uuid.UUID) ([]Order, error)
	Report(ctx context.Context, storeID uuid.UUID, filter Filter, params pagination.Params) (*ReportResult, error)
	// Ingest normalizes raw storefront documents and stores them all or none.
	Ingest(ctx context.Context, storeID uuid.UUID, docs []map[string]any) ([]Order, error)
	Delete(ctx context.Context, storeID, orderID uuid.UUID) error
}

// ReportResult is one page of the filtered order report.
type ReportResult struct {
	pagination.Page[Order]
	StatusOptions []string `json:"status_options"`
}

type service struct {
	repo Repository
}

// NewService builds the order report service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID) ([]Order, error) {
	list, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// Report filters the store's orders and returns the requested page. Status
// options are computed over the unfiltered set so the picker never shrinks.
func (s *service) Report(ctx context.Context, storeID uuid.UUID, filter Filter, params pagination.Params) (*ReportResult, error) {
	if err := filter.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date filter").
			WithDetails(map[string]any{"from": filter.From, "to": filter.To})
	}
	list, err := s.List(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &ReportResult{
		Page:          pagination.Paginate(filter.Apply(list), params),
		StatusOptions: StatusOptions(list),
	}, nil
}

func (s *service) Ingest(ctx context.Context, storeID uuid.UUID, docs []map[string]any) ([]Order, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if len(docs) == 0 || len(docs) > MaxIngestBatch {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order batch size out of range").
			WithDetails(map[string]any{"count": len(docs), "max": MaxIngestBatch})
	}

	list := make([]Order, 0, len(docs))
	seen := make(map[uuid.UUID]struct{}, len(docs))
	for i, doc := range docs {
		order, err := NormalizeStoreOrder(storeID, doc)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order document").
				WithDetails(map[string]any{"index": i})
		}
		if strings.TrimSpace(order.OrderNumber) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required").
				WithDetails(map[string]any{"index": i})
		}
		if !order.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
				WithDetails(map[string]any{"index": i, "status": order.Status.String()})
		}
		if _, dup := seen[order.ID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate order in batch").
				WithDetails(map[string]any{"index": i, "order_number": order.OrderNumber})
		}
		seen[order.ID] = struct{}{}
		list = append(list, order)
	}

	if err := s.repo.CreateMany(ctx, list); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store orders")
	}
	return list, nil
}

func (s *service) Delete(ctx context.Context, storeID, orderID uuid.UUID) error {
	if err := s.repo.Delete(ctx, storeID, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}
