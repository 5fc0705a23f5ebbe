package calendar

import "github.com/angelmondragon/prodeel-backend/pkg/types"

// ToDocument converts an event map into its stored shape.
func ToDocument(events map[DateKey][]Event) types.CalendarDocument {
	doc := make(types.CalendarDocument, len(events))
	for key, list := range events {
		if len(list) == 0 {
			continue
		}
		entries := make([]types.CalendarEntry, 0, len(list))
		for _, event := range list {
			entries = append(entries, types.CalendarEntry{Title: event.Content})
		}
		doc[string(key)] = entries
	}
	return doc
}

// FromDocument converts a stored document into an event map. Keys are not
// validated here; New drops the unusable ones.
func FromDocument(doc types.CalendarDocument) map[DateKey][]Event {
	events := make(map[DateKey][]Event, len(doc))
	for key, entries := range doc {
		for _, entry := range entries {
			events[DateKey(key)] = append(events[DateKey(key)], Event{Content: entry.Title, Date: DateKey(key)})
		}
	}
	return events
}
