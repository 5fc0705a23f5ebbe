package revenue

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/angelmondragon/prodeel-backend/internal/orders"
	"github.com/shopspring/decimal"
)

// Bucket is one slot of the series.
type Bucket struct {
	Label string
	Start time.Time
	Total decimal.Decimal
}

// MarshalJSON renders the total as a JSON number so charts can plot it directly.
func (b Bucket) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label string  `json:"label"`
		Start string  `json:"start"`
		Total float64 `json:"total"`
	}{
		Label: b.Label,
		Start: b.Start.Format(dayLabelLayout),
		Total: b.Total.InexactFloat64(),
	})
}

// UnmarshalJSON reads the shape written by MarshalJSON.
func (b *Bucket) UnmarshalJSON(data []byte) error {
	var raw struct {
		Label string          `json:"label"`
		Start string          `json:"start"`
		Total decimal.Decimal `json:"total"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := time.Parse(dayLabelLayout, raw.Start)
	if err != nil {
		return err
	}
	b.Label, b.Start, b.Total = raw.Label, start, raw.Total
	return nil
}

// Series is a gap-free, chronologically ordered revenue series.
type Series struct {
	Granularity Granularity `json:"granularity,omitempty"`
	From        string      `json:"from,omitempty"`
	To          string      `json:"to,omitempty"`
	Buckets     []Bucket    `json:"buckets"`
	// Skipped counts Delivered orders dropped for an unusable date.
	Skipped int `json:"skipped"`
}

// Total sums every bucket.
func (s Series) Total() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Buckets {
		total = total.Add(b.Total)
	}
	return total
}

// Empty reports whether the series has no buckets.
func (s Series) Empty() bool {
	return len(s.Buckets) == 0
}

// Options tunes AggregateRange.
type Options struct {
	// Granularity forces a bucket unit; empty picks one from the span.
	Granularity Granularity
	// OnSkip is called for every Delivered order whose date is unusable.
	OnSkip func(order orders.Order)
	// Location re-anchors the range's calendar days and decides which day an
	// order falls on. Nil keeps the range's own location.
	Location *time.Location
}

// EmptySeries is returned for unusable ranges.
func EmptySeries() Series {
	return Series{Buckets: []Bucket{}}
}

// Aggregate buckets the revenue of Delivered orders between from and to
// (YYYY-MM-DD, both inclusive). An unparseable bound or from after to yields
// an empty series rather than an error.
func Aggregate(list []orders.Order, from, to string) Series {
	rng, err := ParseRange(from, to)
	if err != nil {
		return EmptySeries()
	}
	return AggregateRange(list, rng, Options{})
}

// AggregateRange is Aggregate over an already parsed range.
func AggregateRange(list []orders.Order, rng DateRange, opts Options) Series {
	if rng.From.IsZero() || rng.To.IsZero() || rng.From.After(rng.To) {
		return EmptySeries()
	}
	if opts.Location != nil {
		rng = rng.In(opts.Location)
	}
	loc := rng.Location()

	g := opts.Granularity
	if !g.IsValid() {
		g = ChooseGranularity(rng)
	}

	series := Series{
		Granularity: g,
		From:        rng.FromKey(),
		To:          rng.ToKey(),
	}

	index := make(map[string]int)
	for start := BucketStart(rng.From, g); !start.After(rng.To); start = nextBucket(start, g) {
		label := Label(start, g)
		index[label] = len(series.Buckets)
		series.Buckets = append(series.Buckets, Bucket{Label: label, Start: start, Total: decimal.Zero})
	}

	for _, order := range list {
		if !order.Status.CountsAsRevenue() {
			continue
		}
		if !order.DateValid || order.OrderedAt.IsZero() {
			series.Skipped++
			if opts.OnSkip != nil {
				opts.OnSkip(order)
			}
			continue
		}
		if !rng.Contains(order.OrderedAt) {
			continue
		}
		pos, ok := index[Label(order.OrderedAt.In(loc), g)]
		if !ok {
			continue
		}
		amount := order.Revenue()
		if amount.IsNegative() {
			continue
		}
		series.Buckets[pos].Total = series.Buckets[pos].Total.Add(amount)
	}

	sort.SliceStable(series.Buckets, func(i, j int) bool {
		return series.Buckets[i].Start.Before(series.Buckets[j].Start)
	})
	return series
}
