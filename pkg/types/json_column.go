package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CalendarEntry is a single event as stored in the settings document.
type CalendarEntry struct {
	Title string `json:"title"`
}

// CalendarDocument maps YYYY-MM-DD keys to the events on that day, persisted as JSON.
type CalendarDocument map[string][]CalendarEntry

// Value marshals the document into JSON.
func (d CalendarDocument) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes a JSON column into the document.
func (d *CalendarDocument) Scan(value any) error {
	raw, err := jsonBytes("calendar document", value)
	if err != nil {
		return err
	}
	if raw == nil {
		*d = nil
		return nil
	}
	result := make(CalendarDocument)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*d = result
	return nil
}

// Count returns the number of entries across all days.
func (d CalendarDocument) Count() int {
	total := 0
	for _, entries := range d {
		total += len(entries)
	}
	return total
}

// StringList is an ordered list of strings persisted as a JSON array. It is
// used instead of text[] so the same schema runs on sqlite.
type StringList []string

// Value marshals the list into JSON.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	buf, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes a JSON array column.
func (l *StringList) Scan(value any) error {
	raw, err := jsonBytes("string list", value)
	if err != nil {
		return err
	}
	if raw == nil {
		*l = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

func jsonBytes(kind string, value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("%s: unsupported scan type %T", kind, value)
	}
}
