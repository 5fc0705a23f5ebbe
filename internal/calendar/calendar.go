package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/prodeel-backend/pkg/enums"
)

const (
	DefaultMaxEvents        = 50
	DefaultMaxContentLength = 20
)

var (
	ErrEmptyContent    = errors.New("event content is empty")
	ErrContentTooLong  = errors.New("event content is too long")
	ErrInvalidDate     = errors.New("invalid date key")
	ErrEventLimit      = errors.New("event limit exceeded")
	ErrEventNotFound   = errors.New("event not found")
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
	errNoPersister     = errors.New("persist function required")
)

// Event is a short note pinned to a day.
type Event struct {
	Content string  `json:"content"`
	Date    DateKey `json:"date"`
}

// DeleteState is the two-phase delete state.
type DeleteState string

const (
	DeleteIdle    DeleteState = "idle"
	DeletePending DeleteState = "pending_confirmation"
)

// PendingDelete identifies the event staged for deletion.
type PendingDelete struct {
	Date    DateKey `json:"date"`
	Content string  `json:"content"`
}

// Options configures a Calendar. Zero values fall back to the defaults.
type Options struct {
	MaxEvents        int
	MaxContentLength int
	Notifier         Notifier
}

// Calendar owns the event map of one store. It is not safe for concurrent
// use; callers serialise access (see Registry).
type Calendar struct {
	events     map[DateKey][]Event
	count      int
	dirty      bool
	generation uint64
	pending    *PendingDelete

	maxEvents        int
	maxContentLength int
	notifier         Notifier
}

// New builds a clean calendar from seed. Entries with invalid keys or empty
// content are dropped.
func New(seed map[DateKey][]Event, opts Options) *Calendar {
	c := &Calendar{
		events:           make(map[DateKey][]Event, len(seed)),
		maxEvents:        opts.MaxEvents,
		maxContentLength: opts.MaxContentLength,
		notifier:         opts.Notifier,
	}
	if c.maxEvents <= 0 {
		c.maxEvents = DefaultMaxEvents
	}
	if c.maxContentLength <= 0 {
		c.maxContentLength = DefaultMaxContentLength
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	for key, list := range seed {
		date, err := ParseDateKey(string(key))
		if err != nil {
			continue
		}
		for _, event := range list {
			content := strings.TrimSpace(event.Content)
			if content == "" {
				continue
			}
			c.events[date] = append(c.events[date], Event{Content: content, Date: date})
			c.count++
		}
	}
	return c
}

// SetNotifier swaps the notification sink; nil silences notifications.
func (c *Calendar) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	c.notifier = n
}

// MaxEvents is the global event ceiling.
func (c *Calendar) MaxEvents() int { return c.maxEvents }

// Dirty reports whether local state diverged from the last successful flush.
func (c *Calendar) Dirty() bool { return c.dirty }

// Count is the number of events across all days.
func (c *Calendar) Count() int { return c.count }

// Events returns a deep copy of the event map.
func (c *Calendar) Events() map[DateKey][]Event {
	out := make(map[DateKey][]Event, len(c.events))
	for key, list := range c.events {
		out[key] = append([]Event(nil), list...)
	}
	return out
}

// EventsOn returns a copy of the events on one day in insertion order.
func (c *Calendar) EventsOn(date DateKey) []Event {
	return append([]Event(nil), c.events[date]...)
}

// AddEvent appends content to the day. Rejections leave state untouched;
// hitting the ceiling also notifies the user.
func (c *Calendar) AddEvent(dateKey, content string) error {
	date, err := ParseDateKey(dateKey)
	if err != nil {
		return err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > c.maxContentLength {
		return fmt.Errorf("%w: max %d characters", ErrContentTooLong, c.maxContentLength)
	}
	if c.count+1 > c.maxEvents {
		c.notifier.NotifyUser(fmt.Sprintf("Exceeding limit %d events", c.maxEvents), enums.SeverityError)
		return fmt.Errorf("%w: max %d events", ErrEventLimit, c.maxEvents)
	}

	c.events[date] = append(c.events[date], Event{Content: content, Date: date})
	c.count++
	c.touch()
	return nil
}

// MoveEvent transfers the first event matching content from one day to the
// end of another. Moving onto the same day leaves the map as is but still
// counts as an edit.
func (c *Calendar) MoveEvent(fromKey, toKey, content string) error {
	from, err := ParseDateKey(fromKey)
	if err != nil {
		return err
	}
	to, err := ParseDateKey(toKey)
	if err != nil {
		return err
	}
	content = strings.TrimSpace(content)
	idx := c.indexOf(from, content)
	if idx < 0 {
		return ErrEventNotFound
	}
	if from == to {
		c.touch()
		return nil
	}

	event := c.removeAt(from, idx)
	event.Date = to
	c.events[to] = append(c.events[to], event)
	c.count++
	c.touch()
	return nil
}

// RequestDelete stages the first event matching content for deletion. A new
// request replaces any earlier one.
func (c *Calendar) RequestDelete(dateKey, content string) error {
	date, err := ParseDateKey(dateKey)
	if err != nil {
		return err
	}
	content = strings.TrimSpace(content)
	if c.indexOf(date, content) < 0 {
		return ErrEventNotFound
	}
	c.pending = &PendingDelete{Date: date, Content: content}
	return nil
}

// ConfirmDelete removes the staged event and returns to idle.
func (c *Calendar) ConfirmDelete() (Event, error) {
	if c.pending == nil {
		return Event{}, ErrNoPendingDelete
	}
	target := *c.pending
	c.pending = nil

	idx := c.indexOf(target.Date, target.Content)
	if idx < 0 {
		return Event{}, ErrEventNotFound
	}
	event := c.removeAt(target.Date, idx)
	c.touch()
	return event, nil
}

// CancelDelete discards the staged request. It reports whether one existed.
func (c *Calendar) CancelDelete() bool {
	had := c.pending != nil
	c.pending = nil
	return had
}

// DeleteState reports where the two-phase delete currently is.
func (c *Calendar) DeleteState() DeleteState {
	if c.pending != nil {
		return DeletePending
	}
	return DeleteIdle
}

// Pending returns the staged delete, if any.
func (c *Calendar) Pending() (PendingDelete, bool) {
	if c.pending == nil {
		return PendingDelete{}, false
	}
	return *c.pending, true
}

// PersistFunc writes the full event map.
type PersistFunc func(ctx context.Context, events map[DateKey][]Event) error

// FlushTicket is a snapshot taken at the start of a flush.
type FlushTicket struct {
	Events     map[DateKey][]Event
	generation uint64
}

// BeginFlush snapshots the map when dirty. ok is false when there is nothing to send.
func (c *Calendar) BeginFlush() (FlushTicket, bool) {
	if !c.dirty {
		return FlushTicket{}, false
	}
	return FlushTicket{Events: c.Events(), generation: c.generation}, true
}

// CompleteFlush records the outcome of persisting ticket. Dirty is cleared
// only when persisting succeeded and nothing changed since BeginFlush.
func (c *Calendar) CompleteFlush(ticket FlushTicket, err error) error {
	if err != nil {
		return err
	}
	if c.generation == ticket.generation {
		c.dirty = false
	}
	return nil
}

// Flush persists the map when dirty. Failures keep the calendar dirty and
// are returned unchanged; there is no retry.
func (c *Calendar) Flush(ctx context.Context, persist PersistFunc) error {
	ticket, ok := c.BeginFlush()
	if !ok {
		return nil
	}
	if persist == nil {
		return errNoPersister
	}
	return c.CompleteFlush(ticket, persist(ctx, ticket.Events))
}

// BeforeLeave warns the user when unsaved edits exist and reports whether it did.
func (c *Calendar) BeforeLeave() bool {
	if !c.dirty {
		return false
	}
	c.notifier.NotifyUser("You have unsaved calendar changes", enums.SeverityWarning)
	return true
}

// ClickDay acknowledges a day selection and returns its key.
func (c *Calendar) ClickDay(cell DayCell) DateKey {
	c.notifier.NotifyUser(cell.Label(), enums.SeveritySuccess)
	return cell.Key()
}

func (c *Calendar) touch() {
	c.dirty = true
	c.generation++
}

func (c *Calendar) indexOf(date DateKey, content string) int {
	for i, event := range c.events[date] {
		if event.Content == content {
			return i
		}
	}
	return -1
}

func (c *Calendar) removeAt(date DateKey, idx int) Event {
	list := c.events[date]
	event := list[idx]
	rest := append(append([]Event(nil), list[:idx]...), list[idx+1:]...)
	if len(rest) == 0 {
		delete(c.events, date)
	} else {
		c.events[date] = rest
	}
	c.count--
	return event
}
