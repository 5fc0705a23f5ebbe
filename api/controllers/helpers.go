package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/prodeel-backend/api/middleware"
	"github.com/angelmondragon/prodeel-backend/api/validators"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/angelmondragon/prodeel-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxQueryLength = 200
	maxPage        = 100000
)

func storeIDFromRequest(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.StoreUUIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	return id, nil
}

func pageParams(r *http.Request, pageSize int) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, maxPage)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, PageSize: pageSize}, nil
}

func searchQuery(r *http.Request) string {
	return validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLength)
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]string{name: raw})
	}
	return id, nil
}
