package calendar

import (
	"context"
	"errors"
	"sync"

	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
	"github.com/angelmondragon/prodeel-backend/pkg/metrics"
	"github.com/angelmondragon/prodeel-backend/pkg/types"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Persister loads and stores the event document of a store.
type Persister interface {
	LoadEvents(ctx context.Context, storeID uuid.UUID) (types.CalendarDocument, error)
	PersistEvents(ctx context.Context, storeID uuid.UUID, events types.CalendarDocument) error
}

// State is the calendar snapshot returned by every service call.
type State struct {
	Events      map[DateKey][]Event `json:"events"`
	Count       int                 `json:"count"`
	MaxEvents   int                 `json:"max_events"`
	Dirty       bool                `json:"dirty"`
	Saved       bool                `json:"saved"`
	DeleteState DeleteState         `json:"delete_state"`
	Pending     *PendingDelete      `json:"pending,omitempty"`
	Deleted     *Event              `json:"deleted,omitempty"`
}

// YearView is State plus the grid for one year.
type YearView struct {
	State
	Year  int    `json:"year"`
	Weeks []Week `json:"weeks"`
}

// Service serialises calendar access per store and persists after each edit.
type Service interface {
	View(ctx context.Context, storeID uuid.UUID, year int) (*YearView, error)
	Add(ctx context.Context, storeID uuid.UUID, dateKey, content string, n Notifier) (*State, error)
	Move(ctx context.Context, storeID uuid.UUID, from, to, content string, n Notifier) (*State, error)
	RequestDelete(ctx context.Context, storeID uuid.UUID, dateKey, content string) (*State, error)
	ConfirmDelete(ctx context.Context, storeID uuid.UUID, n Notifier) (*State, error)
	CancelDelete(ctx context.Context, storeID uuid.UUID) (*State, error)
	Flush(ctx context.Context, storeID uuid.UUID) (*State, error)
	BeforeLeave(ctx context.Context, storeID uuid.UUID, n Notifier) (bool, error)
	ClickDay(ctx context.Context, storeID uuid.UUID, dateKey string, n Notifier) (DateKey, error)
	FlushAll(ctx context.Context) error
}

type entry struct {
	mu  sync.Mutex
	cal *Calendar
}

type registry struct {
	persister Persister
	logg      *logger.Logger
	metrics   *metrics.CalendarMetrics
	opts      Options

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

// NewService builds the calendar registry.
func NewService(persister Persister, logg *logger.Logger, m *metrics.CalendarMetrics, opts Options) (Service, error) {
	if persister == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "calendar persister required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &registry{
		persister: persister,
		logg:      logg,
		metrics:   m,
		opts:      opts,
		entries:   make(map[uuid.UUID]*entry),
	}, nil
}

func (r *registry) View(ctx context.Context, storeID uuid.UUID, year int) (*YearView, error) {
	if year < 1 || year > 9999 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year out of range").
			WithDetails(map[string]any{"year": year})
	}
	var view *YearView
	err := r.with(ctx, storeID, nil, func(cal *Calendar) error {
		view = &YearView{State: snapshot(cal, !cal.Dirty()), Year: year, Weeks: BuildYearGrid(year)}
		return nil
	})
	return view, err
}

func (r *registry) Add(ctx context.Context, storeID uuid.UUID, dateKey, content string, n Notifier) (*State, error) {
	return r.mutate(ctx, storeID, n, func(cal *Calendar) (*Event, error) {
		return nil, cal.AddEvent(dateKey, content)
	})
}

func (r *registry) Move(ctx context.Context, storeID uuid.UUID, from, to, content string, n Notifier) (*State, error) {
	return r.mutate(ctx, storeID, n, func(cal *Calendar) (*Event, error) {
		return nil, cal.MoveEvent(from, to, content)
	})
}

func (r *registry) RequestDelete(ctx context.Context, storeID uuid.UUID, dateKey, content string) (*State, error) {
	var state *State
	err := r.with(ctx, storeID, nil, func(cal *Calendar) error {
		if err := cal.RequestDelete(dateKey, content); err != nil {
			return r.reject(ctx, err)
		}
		s := snapshot(cal, !cal.Dirty())
		state = &s
		return nil
	})
	return state, err
}

func (r *registry) ConfirmDelete(ctx context.Context, storeID uuid.UUID, n Notifier) (*State, error) {
	return r.mutate(ctx, storeID, n, func(cal *Calendar) (*Event, error) {
		event, err := cal.ConfirmDelete()
		if err != nil {
			return nil, err
		}
		return &event, nil
	})
}

func (r *registry) CancelDelete(ctx context.Context, storeID uuid.UUID) (*State, error) {
	var state *State
	err := r.with(ctx, storeID, nil, func(cal *Calendar) error {
		cal.CancelDelete()
		s := snapshot(cal, !cal.Dirty())
		state = &s
		return nil
	})
	return state, err
}

// Flush is the explicit save. Unlike edits, a persistence failure here is
// returned to the caller.
func (r *registry) Flush(ctx context.Context, storeID uuid.UUID) (*State, error) {
	var state *State
	err := r.with(ctx, storeID, nil, func(cal *Calendar) error {
		if err := r.flush(ctx, storeID, cal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save calendar").
				WithDetails(map[string]any{"dirty": true})
		}
		s := snapshot(cal, true)
		state = &s
		return nil
	})
	return state, err
}

func (r *registry) BeforeLeave(ctx context.Context, storeID uuid.UUID, n Notifier) (bool, error) {
	var warned bool
	err := r.with(ctx, storeID, n, func(cal *Calendar) error {
		warned = cal.BeforeLeave()
		return nil
	})
	return warned, err
}

func (r *registry) ClickDay(ctx context.Context, storeID uuid.UUID, dateKey string, n Notifier) (DateKey, error) {
	key, err := ParseDateKey(dateKey)
	if err != nil {
		return "", translate(err)
	}
	day := key.Time()
	var clicked DateKey
	err = r.with(ctx, storeID, n, func(cal *Calendar) error {
		clicked = cal.ClickDay(DayCell{Year: day.Year(), Month: int(day.Month()) - 1, Day: day.Day(), InYear: true})
		return nil
	})
	return clicked, err
}

// FlushAll saves every dirty calendar, typically on shutdown.
func (r *registry) FlushAll(ctx context.Context) error {
	r.mu.Lock()
	stores := make(map[uuid.UUID]*entry, len(r.entries))
	for id, e := range r.entries {
		stores[id] = e
	}
	r.mu.Unlock()

	var errs error
	for storeID, e := range stores {
		e.mu.Lock()
		if e.cal != nil {
			errs = multierr.Append(errs, r.flush(ctx, storeID, e.cal))
		}
		e.mu.Unlock()
	}
	return errs
}

// mutate applies fn and flushes straight away. A failed flush does not fail
// the edit: the state stays dirty, Saved is false and the user is told.
func (r *registry) mutate(ctx context.Context, storeID uuid.UUID, n Notifier, fn func(cal *Calendar) (*Event, error)) (*State, error) {
	var state *State
	err := r.with(ctx, storeID, n, func(cal *Calendar) error {
		deleted, err := fn(cal)
		if err != nil {
			return r.reject(ctx, err)
		}
		saved := true
		if err := r.flush(ctx, storeID, cal); err != nil {
			saved = false
			cal.notifier.NotifyUser("Failed to save calendar changes", enums.SeverityError)
		}
		s := snapshot(cal, saved)
		s.Deleted = deleted
		state = &s
		return nil
	})
	return state, err
}

func (r *registry) flush(ctx context.Context, storeID uuid.UUID, cal *Calendar) error {
	if !cal.Dirty() {
		return nil
	}
	err := cal.Flush(ctx, func(ctx context.Context, events map[DateKey][]Event) error {
		return r.persister.PersistEvents(ctx, storeID, ToDocument(events))
	})
	r.metrics.IncFlush(err)
	if err != nil {
		r.logg.Error(r.logg.WithStoreID(ctx, storeID.String()), "calendar.flush.failed", err)
		return err
	}
	return nil
}

func (r *registry) reject(ctx context.Context, err error) error {
	reason := rejectReason(err)
	r.metrics.IncRejected(reason)
	r.logg.Warn(r.logg.WithField(ctx, "reason", reason), "calendar.mutation.rejected")
	return translate(err)
}

// with runs fn holding the store's lock, loading the calendar on first use.
// n receives notifications for the duration of fn only.
func (r *registry) with(ctx context.Context, storeID uuid.UUID, n Notifier, fn func(cal *Calendar) error) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	e := r.entry(storeID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cal == nil {
		doc, err := r.persister.LoadEvents(ctx, storeID)
		if err != nil {
			if pkgerrors.As(err) != nil {
				return err
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load calendar")
		}
		e.cal = New(FromDocument(doc), r.opts)
	}

	e.cal.SetNotifier(n)
	defer e.cal.SetNotifier(nil)
	return fn(e.cal)
}

func (r *registry) entry(storeID uuid.UUID) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[storeID]
	if !ok {
		e = &entry{}
		r.entries[storeID] = e
	}
	return e
}

func snapshot(cal *Calendar, saved bool) State {
	state := State{
		Events:      cal.Events(),
		Count:       cal.Count(),
		MaxEvents:   cal.MaxEvents(),
		Dirty:       cal.Dirty(),
		Saved:       saved,
		DeleteState: cal.DeleteState(),
	}
	if pending, ok := cal.Pending(); ok {
		state.Pending = &pending
	}
	return state
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyContent):
		return "empty_content"
	case errors.Is(err, ErrContentTooLong):
		return "content_too_long"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrEventLimit):
		return "event_limit"
	case errors.Is(err, ErrEventNotFound):
		return "not_found"
	case errors.Is(err, ErrNoPendingDelete):
		return "no_pending_delete"
	default:
		return "other"
	}
}

// translate maps calendar sentinels onto API error codes.
func translate(err error) error {
	switch {
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrContentTooLong), errors.Is(err, ErrInvalidDate):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	case errors.Is(err, ErrEventLimit):
		return pkgerrors.Wrap(pkgerrors.CodeLimitExceeded, err, err.Error())
	case errors.Is(err, ErrEventNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "event not found")
	case errors.Is(err, ErrNoPendingDelete):
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "no delete awaiting confirmation")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "calendar operation failed")
	}
}
