package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/prodeel-backend/internal/orders"
	product "github.com/angelmondragon/prodeel-backend/internal/products"
	"github.com/angelmondragon/prodeel-backend/internal/revenue"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
	"github.com/angelmondragon/prodeel-backend/pkg/metrics"
	"github.com/angelmondragon/prodeel-backend/pkg/redis"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type orderLister interface {
	List(ctx context.Context, storeID uuid.UUID) ([]orders.Order, error)
}

type productLister interface {
	All(ctx context.Context, storeID uuid.UUID) ([]product.Product, error)
}

// Overview is everything the dashboard page renders.
type Overview struct {
	From          string            `json:"from"`
	To            string            `json:"to"`
	Series        revenue.Series    `json:"series"`
	Stats         Stats             `json:"stats"`
	Compared      Comparison        `json:"compared"`
	TotalProducts int               `json:"total_products"`
	TopProducts   []product.Product `json:"top_products"`
}

// Analytics backs the analytics page charts.
type Analytics struct {
	TimeSlots []TimeSlot    `json:"time_slots"`
	Regions   []RegionCount `json:"regions"`
}

// OverviewQuery selects the window and bucket unit of an overview.
type OverviewQuery struct {
	// From and To are YYYY-MM-DD. Both empty means the span of the store's
	// orders.
	From string
	To   string
	// Granularity forces the bucket unit; empty picks one from the span.
	Granularity revenue.Granularity
}

// Service computes dashboard views for a store.
type Service interface {
	Overview(ctx context.Context, storeID uuid.UUID, q OverviewQuery) (*Overview, error)
	Analytics(ctx context.Context, storeID uuid.UUID) (*Analytics, error)
}

// Options tunes the service.
type Options struct {
	CacheTTL    time.Duration
	TopProducts int
	Location    *time.Location
}

type service struct {
	orders   orderLister
	products productLister
	cache    redis.Cache
	metrics  *metrics.RevenueMetrics
	logg     *logger.Logger
	opts     Options
	now      func() time.Time
}

// NewService wires the dashboard. cache may be nil to disable series caching.
func NewService(ordersSvc orderLister, products productLister, cache redis.Cache, m *metrics.RevenueMetrics, logg *logger.Logger, opts Options) (Service, error) {
	if ordersSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders service required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products service required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if opts.TopProducts <= 0 {
		opts.TopProducts = product.DefaultTopProducts
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &service{
		orders:   ordersSvc,
		products: products,
		cache:    cache,
		metrics:  m,
		logg:     logg,
		opts:     opts,
		now:      time.Now,
	}, nil
}

func (s *service) Overview(ctx context.Context, storeID uuid.UUID, q OverviewQuery) (*Overview, error) {
	if q.Granularity != "" && !q.Granularity.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid granularity").
			WithDetails(map[string]string{"granularity": string(q.Granularity)})
	}

	var (
		orderList   []orders.Order
		productList []product.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orderList, err = s.orders.List(gctx, storeID)
		return err
	})
	g.Go(func() error {
		var err error
		productList, err = s.products.All(gctx, storeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now().In(s.opts.Location)
	rng, err := s.resolveRange(orderList, q.From, q.To, now)
	if err != nil {
		return nil, err
	}

	return &Overview{
		From:          rng.FromKey(),
		To:            rng.ToKey(),
		Series:        s.series(ctx, storeID, orderList, rng, q.Granularity),
		Stats:         StatsFor(orderList, rng),
		Compared:      CompareMonths(orderList, productList, now),
		TotalProducts: len(productList),
		TopProducts:   product.TopProducts(productList, s.opts.TopProducts),
	}, nil
}

func (s *service) resolveRange(list []orders.Order, from, to string, now time.Time) (revenue.DateRange, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return DefaultRange(list, now), nil
	}
	rng, err := revenue.ParseRangeIn(from, to, s.opts.Location)
	if err != nil {
		return revenue.DateRange{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date range").
			WithDetails(map[string]string{"from": from, "to": to})
	}
	return rng, nil
}

func (s *service) seriesKey(storeID uuid.UUID, list []orders.Order, rng revenue.DateRange, g revenue.Granularity) string {
	unit := string(g)
	if unit == "" {
		unit = "auto"
	}
	return s.cache.SeriesKey(storeID.String(), rng.FromKey(), rng.ToKey(), unit, s.opts.Location.String(), Fingerprint(list))
}

func (s *service) series(ctx context.Context, storeID uuid.UUID, list []orders.Order, rng revenue.DateRange, g revenue.Granularity) revenue.Series {
	key := ""
	if s.cache != nil {
		key = s.seriesKey(storeID, list, rng, g)
		if cached, ok := s.cachedSeries(ctx, key); ok {
			return cached
		}
	}

	started := time.Now()
	series := revenue.AggregateRange(list, rng, revenue.Options{
		Granularity: g,
		Location:    s.opts.Location,
		OnSkip: func(o orders.Order) {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"store_id":     storeID.String(),
				"order_number": o.OrderNumber,
			}), "revenue.order.skipped")
		},
	})
	s.metrics.ObserveAggregation(string(series.Granularity), time.Since(started))
	s.metrics.AddSkipped(series.Skipped)

	if key != "" {
		if payload, err := json.Marshal(series); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.opts.CacheTTL); err != nil {
				s.logg.Warn(ctx, "dashboard.series.cache_write_failed")
			}
		}
	}
	return series
}

func (s *service) cachedSeries(ctx context.Context, key string) (revenue.Series, bool) {
	raw, err := s.cache.Get(ctx, key)
	switch {
	case errors.Is(err, redis.ErrCacheMiss):
		s.metrics.IncCache("miss")
		return revenue.Series{}, false
	case err != nil:
		s.metrics.IncCache("error")
		s.logg.Error(ctx, "dashboard.series.cache_read_failed", err)
		return revenue.Series{}, false
	}
	var series revenue.Series
	if err := json.Unmarshal([]byte(raw), &series); err != nil {
		s.metrics.IncCache("error")
		if delErr := s.cache.Del(ctx, key); delErr != nil {
			s.logg.Error(ctx, "dashboard.series.cache_evict_failed", delErr)
		}
		return revenue.Series{}, false
	}
	s.metrics.IncCache("hit")
	return series, true
}

func (s *service) Analytics(ctx context.Context, storeID uuid.UUID) (*Analytics, error) {
	list, err := s.orders.List(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &Analytics{
		TimeSlots: OrderTimeSlots(list, s.opts.Location),
		Regions:   RegionCounts(list),
	}, nil
}

// Fingerprint identifies the revenue-relevant content of an order set so a
// cached series is dropped as soon as any order changes.
func Fingerprint(list []orders.Order) string {
	var b strings.Builder
	for _, o := range list {
		if !o.Status.CountsAsRevenue() {
			continue
		}
		b.WriteString(o.ID.String())
		b.WriteByte('|')
		b.WriteString(strconv.FormatInt(o.OrderedAt.UnixMilli(), 10))
		b.WriteByte('|')
		b.WriteString(o.Revenue().String())
		b.WriteByte(';')
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(b.String())).String()
}
