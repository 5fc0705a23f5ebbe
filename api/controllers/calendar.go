package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/prodeel-backend/api/responses"
	"github.com/angelmondragon/prodeel-backend/api/validators"
	"github.com/angelmondragon/prodeel-backend/internal/calendar"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type calendarEventRequest struct {
	Date    string `json:"date" validate:"required,datekey"`
	Content string `json:"content" validate:"required"`
}

type calendarMoveRequest struct {
	From    string `json:"from" validate:"required,datekey"`
	To      string `json:"to" validate:"required,datekey"`
	Content string `json:"content" validate:"required"`
}

type calendarResponse struct {
	*calendar.State
	Notices []calendar.Notice `json:"notices"`
}

type leaveCheckResponse struct {
	Warned  bool              `json:"warned"`
	Notices []calendar.Notice `json:"notices"`
}

type dayClickResponse struct {
	Date    calendar.DateKey  `json:"date"`
	Notices []calendar.Notice `json:"notices"`
}

// CalendarView returns the year grid with the store's events: ?year=.
func CalendarView(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := calendarStore(w, r, svc, logg)
		if !ok {
			return
		}
		year, err := validators.ParseQueryInt(r, "year", time.Now().Year(), 1, 9999)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.View(r.Context(), storeID, year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CalendarAddEvent(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := calendarStore(w, r, svc, logg)
		if !ok {
			return
		}
		var body calendarEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notices := &calendar.Collector{}
		state, err := svc.Add(r.Context(), storeID, body.Date, body.Content, notices)
		writeCalendarState(w, r, logg, http.StatusCreated, state, notices, err)
	}
}

func CalendarMoveEvent(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := calendarStore(w, r, svc, logg)
		if !ok {
			return
		}
		var body calendarMoveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notices := &calendar.Collector{}
		state, err := svc.Move(r.Context(), storeID, body.From, body.To, body.Content, notices)
		writeCalendarState(w, r, logg, http.StatusOK, state, notices, err)
	}
}

// CalendarRequestDelete stages an event for deletion; nothing is removed until confirm.
func CalendarRequestDelete(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := calendarStore(w, r, svc, logg)
		if !ok {
			return
		}
		var body calendarEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.RequestDelete(r.Context(), storeID, body.Date, body.Content)
		writeCalendarState(w, r, logg, http.StatusOK, state, &calendar.Collector{}, err)
	}
}

func CalendarConfirmDelete(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := calendarStore(w, r, svc, logg)
		if !ok {
			return
		}
		notices := &calendar.Collector{}
		state, err := svc.ConfirmDelete(r.Context(), storeID, notices)
		writeCalendarState(w, r, logg, http.StatusOK, state, notices, err)
	}
}

func CalendarCancelDelete(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := calendarStore(w, r, svc, logg)
		if !ok {
			return
		}
		state, err := svc.CancelDelete(r.Context(), storeID)
		writeCalendarState(w, r, logg, http.StatusOK, state, &calendar.Collector{}, err)
	}
}

// CalendarFlush saves pending edits. A storage failure is a 503 and the
// calendar stays dirty.
func CalendarFlush(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := calendarStore(w, r, svc, logg)
		if !ok {
			return
		}
		state, err := svc.Flush(r.Context(), storeID)
		writeCalendarState(w, r, logg, http.StatusOK, state, &calendar.Collector{}, err)
	}
}

func CalendarLeaveCheck(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := calendarStore(w, r, svc, logg)
		if !ok {
			return
		}
		notices := &calendar.Collector{}
		warned, err := svc.BeforeLeave(r.Context(), storeID, notices)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, withNotices(err, notices))
			return
		}
		responses.WriteSuccess(w, leaveCheckResponse{Warned: warned, Notices: notices.Notices()})
	}
}

func CalendarClickDay(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := calendarStore(w, r, svc, logg)
		if !ok {
			return
		}
		notices := &calendar.Collector{}
		date, err := svc.ClickDay(r.Context(), storeID, chi.URLParam(r, "date"), notices)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, withNotices(err, notices))
			return
		}
		responses.WriteSuccess(w, dayClickResponse{Date: date, Notices: notices.Notices()})
	}
}

func calendarStore(w http.ResponseWriter, r *http.Request, svc calendar.Service, logg *logger.Logger) (uuid.UUID, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "calendar service unavailable"))
		return uuid.Nil, false
	}
	storeID, err := storeIDFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return uuid.Nil, false
	}
	return storeID, true
}

func writeCalendarState(w http.ResponseWriter, r *http.Request, logg *logger.Logger, status int, state *calendar.State, notices *calendar.Collector, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, withNotices(err, notices))
		return
	}
	responses.WriteSuccessStatus(w, status, calendarResponse{State: state, Notices: notices.Notices()})
}

// withNotices copies err and carries the collected notices in its details.
// Any details err already had move under "reason".
func withNotices(err error, notices *calendar.Collector) error {
	if notices == nil {
		return err
	}
	collected := notices.Notices()
	typed := pkgerrors.As(err)
	if len(collected) == 0 || typed == nil {
		return err
	}
	details := map[string]any{"notices": collected}
	if prior := typed.Details(); prior != nil {
		details["reason"] = prior
	}
	return pkgerrors.Wrap(typed.Code(), err, typed.Message()).WithDetails(details)
}
