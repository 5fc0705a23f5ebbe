package storefront

import (
	"context"

	"github.com/angelmondragon/prodeel-backend/internal/orders"
	product "github.com/angelmondragon/prodeel-backend/internal/products"
	"github.com/angelmondragon/prodeel-backend/internal/settings"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Source reads the three collections a store's dashboard starts from.
type Source interface {
	FetchOrders(ctx context.Context, storeID uuid.UUID) ([]orders.Order, error)
	FetchProducts(ctx context.Context, storeID uuid.UUID) ([]product.Product, error)
	FetchSettings(ctx context.Context, storeID uuid.UUID) (*settings.Settings, error)
}

// Snapshot is everything loaded for one store.
type Snapshot struct {
	StoreID      uuid.UUID          `json:"store_id"`
	Settings     *settings.Settings `json:"settings"`
	Orders       []orders.Order     `json:"orders"`
	Products     []product.Product  `json:"products"`
	StatusFilter []string           `json:"status_options"`
}

// Loader fetches snapshots.
type Loader struct {
	source Source
	logg   *logger.Logger
}

// NewLoader builds a Loader over source.
func NewLoader(source Source, logg *logger.Logger) (*Loader, error) {
	if source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "storefront source required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Loader{source: source, logg: logg}, nil
}

// Load fetches orders, products and settings concurrently. The first failure
// cancels the other fetches and is returned.
func (l *Loader) Load(ctx context.Context, storeID uuid.UUID) (*Snapshot, error) {
	snap := &Snapshot{StoreID: storeID}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := l.source.FetchOrders(gctx, storeID)
		if err != nil {
			return err
		}
		snap.Orders = list
		return nil
	})
	g.Go(func() error {
		list, err := l.source.FetchProducts(gctx, storeID)
		if err != nil {
			return err
		}
		snap.Products = list
		return nil
	})
	g.Go(func() error {
		s, err := l.source.FetchSettings(gctx, storeID)
		if err != nil {
			return err
		}
		snap.Settings = s
		return nil
	})
	if err := g.Wait(); err != nil {
		l.logg.Error(l.logg.WithStoreID(ctx, storeID.String()), "storefront.load.failed", err)
		return nil, err
	}
	if snap.Orders == nil {
		snap.Orders = []orders.Order{}
	}
	if snap.Products == nil {
		snap.Products = []product.Product{}
	}
	snap.StatusFilter = orders.StatusOptions(snap.Orders)
	return snap, nil
}

type ordersLister interface {
	List(ctx context.Context, storeID uuid.UUID) ([]orders.Order, error)
}

type productsLister interface {
	All(ctx context.Context, storeID uuid.UUID) ([]product.Product, error)
}

type settingsReader interface {
	Get(ctx context.Context, storeID uuid.UUID) (*settings.Settings, error)
}

// ServiceSource adapts the domain services to Source.
type ServiceSource struct {
	Orders   ordersLister
	Products productsLister
	Settings settingsReader
}

func (s ServiceSource) FetchOrders(ctx context.Context, storeID uuid.UUID) ([]orders.Order, error) {
	return s.Orders.List(ctx, storeID)
}

func (s ServiceSource) FetchProducts(ctx context.Context, storeID uuid.UUID) ([]product.Product, error) {
	return s.Products.All(ctx, storeID)
}

func (s ServiceSource) FetchSettings(ctx context.Context, storeID uuid.UUID) (*settings.Settings, error) {
	return s.Settings.Get(ctx, storeID)
}
