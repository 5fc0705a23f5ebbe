package dashboard

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/angelmondragon/prodeel-backend/internal/orders"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TimeSlot counts orders placed inside a two-hour window of the day.
type TimeSlot struct {
	Label  string `json:"time"`
	Orders int    `json:"total_orders"`
	start  int
	end    int
}

const (
	firstSlotHour = 8
	slotHours     = 2
	slotCount     = 8
)

func newTimeSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, slotCount)
	for i := 0; i < slotCount; i++ {
		startHour := firstSlotHour + i*slotHours
		endHour := (startHour + slotHours) % 24
		slots = append(slots, TimeSlot{
			Label: fmt.Sprintf("%s - %s", clockLabel(startHour), clockLabel(endHour)),
			start: startHour * 60,
			end:   endHour * 60,
		})
	}
	return slots
}

func clockLabel(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("03:04 PM")
}

func (s TimeSlot) contains(minutes int) bool {
	if s.start > s.end {
		return minutes >= s.start || minutes < s.end
	}
	return minutes >= s.start && minutes < s.end
}

// OrderTimeSlots buckets every dated order by the clock time it was placed
// at, read in loc. Orders placed before 08:00 fall outside every slot.
func OrderTimeSlots(list []orders.Order, loc *time.Location) []TimeSlot {
	if loc == nil {
		loc = time.UTC
	}
	slots := newTimeSlots()
	for _, o := range list {
		if !o.DateValid || o.OrderedAt.IsZero() {
			continue
		}
		local := o.OrderedAt.In(loc)
		minutes := local.Hour()*60 + local.Minute()
		for i := range slots {
			if slots[i].contains(minutes) {
				slots[i].Orders++
				break
			}
		}
	}
	return slots
}

// Region is a province of the map chart.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RegionCount is the number of orders shipped to a region.
type RegionCount struct {
	Region
	Orders int `json:"orders"`
}

// Regions lists every province code the map chart knows, in matching order.
var Regions = []Region{
	{"vn-3655", "Cà Mau"}, {"vn-qn", "Quảng Ninh"}, {"vn-kh", "Khánh Hòa"},
	{"vn-tg", "Tiền Giang"}, {"vn-bv", "Bà Rịa - Vũng Tàu"}, {"vn-bu", "Bình Thuận"},
	{"vn-hc", "Hồ Chí Minh"}, {"vn-br", "Bến Tre"}, {"vn-st", "Sóc Trăng"},
	{"vn-pt", "Phú Thọ"}, {"vn-yb", "Yên Bái"}, {"vn-hd", "Hải Dương"},
	{"vn-bn", "Bắc Ninh"}, {"vn-317", "Hưng Yên"}, {"vn-nb", "Ninh Bình"},
	{"vn-hm", "Hà Nam"}, {"vn-ho", "Hòa Bình"}, {"vn-vc", "Vĩnh Phúc"},
	{"vn-318", "Hà Nội"}, {"vn-bg", "Bắc Giang"}, {"vn-tb", "Thái Bình"},
	{"vn-ld", "Lâm Đồng"}, {"vn-bp", "Bình Phước"}, {"vn-py", "Phú Yên"},
	{"vn-bd", "Bình Định"}, {"vn-724", "Gia Lai"}, {"vn-qg", "Quảng Ngãi"},
	{"vn-331", "Đồng Nai"}, {"vn-dt", "Đồng Tháp"}, {"vn-la", "Long An"},
	{"vn-3623", "Hải Phòng"}, {"vn-337", "Hậu Giang"}, {"vn-bl", "Bạc Liêu"},
	{"vn-vl", "Vĩnh Long"}, {"vn-tn", "Tây Ninh"}, {"vn-ty", "Thái Nguyên"},
	{"vn-li", "Lai Châu"}, {"vn-311", "Sơn La"}, {"vn-hg", "Hà Giang"},
	{"vn-nd", "Nam Định"}, {"vn-328", "Hà Tĩnh"}, {"vn-na", "Nghệ An"},
	{"vn-qb", "Quảng Bình"}, {"vn-723", "Đắk Lắk"}, {"vn-nt", "Ninh Thuận"},
	{"vn-6365", "Đắk Nông"}, {"vn-299", "Kon Tum"}, {"vn-300", "Quảng Nam"},
	{"vn-qt", "Quảng Trị"}, {"vn-tt", "Thừa Thiên Huế"}, {"vn-da", "Đà Nẵng"},
	{"vn-ag", "An Giang"}, {"vn-cm", "Cà Mau"}, {"vn-tv", "Trà Vinh"},
	{"vn-cb", "Cao Bằng"}, {"vn-kg", "Kiên Giang"}, {"vn-lo", "Lào Cai"},
	{"vn-db", "Điện Biên"}, {"vn-ls", "Lạng Sơn"}, {"vn-th", "Thanh Hóa"},
	{"vn-307", "Bắc Kạn"}, {"vn-tq", "Tuyên Quang"}, {"vn-bi", "Bình Dương"},
	{"vn-333", "Cần Thơ"},
}

type provinceMatcher struct {
	code    string
	pattern *regexp.Regexp
}

var (
	matchersOnce sync.Once
	matchers     []provinceMatcher
)

// provinceMatchers keeps one matcher per folded province name. A name listed
// twice keeps its first position and the code of its last entry.
func provinceMatchers() []provinceMatcher {
	matchersOnce.Do(func() {
		index := map[string]int{}
		for _, r := range Regions {
			folded := FoldDiacritics(strings.ToLower(r.Name))
			if pos, ok := index[folded]; ok {
				matchers[pos].code = r.Code
				continue
			}
			quoted := regexp.QuoteMeta(folded)
			index[folded] = len(matchers)
			matchers = append(matchers, provinceMatcher{
				code:    r.Code,
				pattern: regexp.MustCompile(`(?i)\b` + quoted + `\b|\s*` + quoted + `$`),
			})
		}
	})
	return matchers
}

// FoldDiacritics strips combining marks after canonical decomposition, so
// "Hồ Chí Minh" becomes "Ho Chi Minh". Letters without a decomposition such
// as "đ" are kept.
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// RegionCounts attributes each order to the first province named in its
// address as a whole word or as the trailing part of it. Every region is
// present in the result, zero when no order matched.
func RegionCounts(list []orders.Order) []RegionCount {
	byCode := make(map[string]int, len(Regions))
	for _, o := range list {
		address := FoldDiacritics(strings.ToLower(o.Address))
		if strings.TrimSpace(address) == "" {
			continue
		}
		for _, m := range provinceMatchers() {
			if m.pattern.MatchString(address) {
				byCode[m.code]++
				break
			}
		}
	}

	out := make([]RegionCount, 0, len(Regions))
	for _, r := range Regions {
		out = append(out, RegionCount{Region: r, Orders: byCode[r.Code]})
	}
	return out
}
