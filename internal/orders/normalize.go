package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used for keys and query bounds.
const DateLayout = "2006-01-02"

var errNilDocument = errors.New("order document is nil")

var orderDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// NormalizeOrder converts a raw storefront document into an Order. Either a
// products array of {name, priceEach, quantityOrdered} or flat
// priceEach/quantityOrdered fields are accepted. Unusable numbers become zero
// and an unparseable orderedDate leaves DateValid false.
func NormalizeOrder(raw map[string]any) (Order, error) {
	if raw == nil {
		return Order{}, errNilDocument
	}

	order := Order{
		OrderNumber:  firstString(raw, "orderId", "orderNumber", "order_number"),
		CustomerName: strings.TrimSpace(firstString(raw, "customerName", "customer_name")),
		Address:      strings.TrimSpace(firstString(raw, "address")),
		PhoneNumber:  strings.TrimSpace(firstString(raw, "phoneNumber", "phone_number")),
		Status:       enums.OrderStatus(strings.TrimSpace(firstString(raw, "status"))),
	}

	order.ID = documentID(raw, order.OrderNumber)
	if storeID, err := uuid.Parse(firstString(raw, "storeId", "store_id")); err == nil {
		order.StoreID = storeID
	}

	if at, ok := ParseOrderDate(firstValue(raw, "orderedDate", "ordered_at")); ok {
		order.OrderedAt = at
		order.DateValid = true
	}

	switch products := raw["products"].(type) {
	case []any:
		order.Lines = make([]Line, 0, len(products))
		for _, item := range products {
			fields, ok := item.(map[string]any)
			if !ok {
				if name, isName := item.(string); isName {
					order.Lines = append(order.Lines, Line{ProductName: name})
				}
				continue
			}
			order.Lines = append(order.Lines, Line{
				ProductName:     firstString(fields, "name", "productName"),
				PriceEach:       toPrice(fields["priceEach"]),
				QuantityOrdered: toQuantity(fields["quantityOrdered"]),
			})
		}
	case []map[string]any:
		order.Lines = make([]Line, 0, len(products))
		for _, fields := range products {
			order.Lines = append(order.Lines, Line{
				ProductName:     firstString(fields, "name", "productName"),
				PriceEach:       toPrice(fields["priceEach"]),
				QuantityOrdered: toQuantity(fields["quantityOrdered"]),
			})
		}
	}

	if !linesCarryAmounts(order.Lines) {
		_, hasPrice := raw["priceEach"]
		_, hasQty := raw["quantityOrdered"]
		if hasPrice || hasQty {
			flat := Line{
				PriceEach:       toPrice(raw["priceEach"]),
				QuantityOrdered: toQuantity(raw["quantityOrdered"]),
			}
			if name, ok := raw["products"].(string); ok {
				flat.ProductName = strings.TrimSpace(name)
			} else if len(order.Lines) > 0 {
				flat.ProductName = strings.Join(order.ProductNames(), ", ")
			}
			order.Flat = &flat
			order.Lines = nil
		}
	}
	if order.Flat == nil && len(order.Lines) == 0 {
		if name, ok := raw["products"].(string); ok && strings.TrimSpace(name) != "" {
			order.Flat = &Line{ProductName: strings.TrimSpace(name)}
		}
	}

	return order, nil
}

// NormalizeStoreOrder normalizes raw for storeID. The store of the request
// wins over any storeId in the document, and a document without its own uuid
// gets an id derived from the store and order number so two stores can reuse
// a number.
func NormalizeStoreOrder(storeID uuid.UUID, raw map[string]any) (Order, error) {
	order, err := NormalizeOrder(raw)
	if err != nil {
		return Order{}, err
	}
	order.StoreID = storeID
	if _, err := uuid.Parse(firstString(raw, "id")); err != nil && order.OrderNumber != "" {
		order.ID = uuid.NewSHA1(storeID, []byte("order:"+order.OrderNumber))
	}
	return order, nil
}

// ParseOrderDate understands ISO strings with or without zone, epoch
// milliseconds and {seconds, nanoseconds} timestamp documents. Values without
// a zone are read as UTC.
func ParseOrderDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v.UTC(), true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return v.UTC(), true
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return time.Time{}, false
		}
		for _, layout := range orderDateLayouts {
			if parsed, err := time.Parse(layout, text); err == nil {
				return parsed.UTC(), true
			}
		}
		return time.Time{}, false
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(v)).UTC(), true
	case int64:
		if v <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(v).UTC(), true
	case int:
		return ParseOrderDate(int64(v))
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return ParseOrderDate(n)
	case map[string]any:
		secs, ok := numberOf(firstValue(v, "seconds", "_seconds"))
		if !ok || secs <= 0 {
			return time.Time{}, false
		}
		nanos, _ := numberOf(firstValue(v, "nanoseconds", "_nanoseconds"))
		return time.Unix(int64(secs), int64(nanos)).UTC(), true
	default:
		return time.Time{}, false
	}
}

func linesCarryAmounts(lines []Line) bool {
	for _, line := range lines {
		if !line.PriceEach.IsZero() || line.QuantityOrdered != 0 {
			return true
		}
	}
	return false
}

func documentID(raw map[string]any, orderNumber string) uuid.UUID {
	if id, err := uuid.Parse(firstString(raw, "id")); err == nil {
		return id
	}
	if orderNumber != "" {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte("order:"+orderNumber))
	}
	return uuid.New()
}

func toPrice(value any) decimal.Decimal {
	n, ok := numberOf(value)
	if !ok || n <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(n)
}

func toQuantity(value any) int {
	n, ok := numberOf(value)
	if !ok || n <= 0 || n > math.MaxInt32 {
		return 0
	}
	return int(math.Floor(n))
}

// numberOf accepts numbers and numeric strings; NaN and infinities are rejected.
func numberOf(value any) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case int32:
		n = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = parsed
	case decimal.Decimal:
		n = v.InexactFloat64()
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func firstValue(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(raw map[string]any, keys ...string) string {
	switch v := firstValue(raw, keys...).(type) {
	case string:
		return v
	case nil:
		return ""
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
