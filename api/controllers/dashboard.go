package controllers

import (
	"net/http"

	"github.com/angelmondragon/prodeel-backend/api/responses"
	"github.com/angelmondragon/prodeel-backend/internal/dashboard"
	"github.com/angelmondragon/prodeel-backend/internal/revenue"
	"github.com/angelmondragon/prodeel-backend/internal/storefront"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
)

// DashboardOverview returns the revenue series, KPIs and top products for
// ?from=&to=. ?granularity=day|month|year forces the bucket unit.
func DashboardOverview(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q := r.URL.Query()
		granularity, err := revenue.ParseGranularity(q.Get("granularity"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid granularity").
				WithDetails(map[string]string{"granularity": q.Get("granularity")}))
			return
		}

		overview, err := svc.Overview(r.Context(), storeID, dashboard.OverviewQuery{
			From:        q.Get("from"),
			To:          q.Get("to"),
			Granularity: granularity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

// DashboardAnalytics returns the order time slots and region counts.
func DashboardAnalytics(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		analytics, err := svc.Analytics(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, analytics)
	}
}

// Bootstrap loads everything the frontend needs on first paint.
func Bootstrap(loader *storefront.Loader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if loader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront loader unavailable"))
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := loader.Load(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}
