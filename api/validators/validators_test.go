package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
)

type eventBody struct {
	Date    string `json:"date" validate:"required,datekey"`
	Content string `json:"content" validate:"required,max=10"`
}

func detailsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := typed.Details().(map[string]string)
	return details
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"date":"2025-03-14","content":"Restock"}`))
	var body eventBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Date != "2025-03-14" || body.Content != "Restock" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeJSONBodyFieldErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"date":"14/03/2025","content":"a very long note"}`))
	details := detailsOf(t, DecodeJSONBody(req, &eventBody{}))

	if details["date"] != "must be a date formatted YYYY-MM-DD" {
		t.Fatalf("unexpected date detail %q", details["date"])
	}
	if details["content"] != "must be at most 10 characters" {
		t.Fatalf("unexpected content detail %q", details["content"])
	}
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":    ``,
		"unknown":  `{"date":"2025-03-14","content":"x","extra":1}`,
		"trailing": `{"date":"2025-03-14","content":"x"}{"date":"2025-03-15"}`,
		"too big":  `{"date":"2025-03-14","content":"` + strings.Repeat("x", MaxJSONBodyBytes) + `"}`,
	}
	for name, payload := range cases {
		req := httptest.NewRequest("POST", "/", strings.NewReader(payload))
		if err := DecodeJSONBody(req, &eventBody{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?year=2024&page=x&size=500", nil)

	if v, err := ParseQueryInt(req, "year", 2025, 1, 9999); err != nil || v != 2024 {
		t.Fatalf("year: got %d err=%v", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 7, 1, 10); err != nil || v != 7 {
		t.Fatalf("missing: got %d err=%v", v, err)
	}
	if _, err := ParseQueryInt(req, "page", 1, 1, 10); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("page: expected validation error, got %v", err)
	}
	if _, err := ParseQueryInt(req, "size", 1, 1, 100); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("size: expected validation error, got %v", err)
	}
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	if got := SanitizeString("  Hồ Chí Minh  ", 4); got != "Hồ C" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := SanitizeString(" áo ", 0); got != "áo" {
		t.Fatalf("unexpected trim %q", got)
	}
}

func TestBearerToken(t *testing.T) {
	if tok, err := BearerToken("Bearer abc.def"); err != nil || tok != "abc.def" {
		t.Fatalf("got %q err=%v", tok, err)
	}
	if tok, err := BearerToken("abc.def"); err != nil || tok != "abc.def" {
		t.Fatalf("bare token: got %q err=%v", tok, err)
	}
	if _, err := BearerToken("Bearer a b"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
