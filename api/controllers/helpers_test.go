package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/prodeel-backend/api/middleware"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func storeRequest(method, target string, body io.Reader, storeID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(middleware.WithStoreID(req.Context(), storeID.String()))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return envelope.Error.Code
}

func TestPageParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?page=3", nil)
	params, err := pageParams(req, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Page != 3 || params.PageSize != 25 {
		t.Fatalf("unexpected params: %+v", params)
	}

	req = httptest.NewRequest(http.MethodGet, "/x?page=0", nil)
	if _, err := pageParams(req, 25); err == nil {
		t.Fatalf("expected error for page=0")
	}
}

func TestStoreIDFromRequestMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if _, err := storeIDFromRequest(req); err == nil {
		t.Fatalf("expected error without store context")
	}
}
