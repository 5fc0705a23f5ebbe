package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/prodeel-backend/api/responses"
	"github.com/angelmondragon/prodeel-backend/api/validators"
	"github.com/angelmondragon/prodeel-backend/internal/customers"
	"github.com/angelmondragon/prodeel-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
)

// ListOrders serves the filtered order report: ?q=&status=&from=&to=&page=.
func ListOrders(svc orders.Service, pageSize int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r, pageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q := r.URL.Query()
		filter := orders.Filter{
			Query:  searchQuery(r),
			Status: strings.TrimSpace(q.Get("status")),
			From:   strings.TrimSpace(q.Get("from")),
			To:     strings.TrimSpace(q.Get("to")),
		}
		report, err := svc.Report(r.Context(), storeID, filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

type ingestOrdersRequest struct {
	Orders []map[string]any `json:"orders" validate:"required,min=1,max=500,dive,required"`
}

// IngestOrders stores a batch of raw storefront order documents:
// {"orders": [{...}, ...]}. The whole batch is rejected on the first bad document.
func IngestOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body ingestOrdersRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stored, err := svc.Ingest(r.Context(), storeID, body.Orders)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, stored)
	}
}

func DeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), storeID, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted", "id": orderID.String()})
	}
}

// ListCustomers serves the customer directory: ?q=&page=.
func ListCustomers(svc customers.Service, pageSize int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r, pageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), storeID, searchQuery(r), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
