package env

import "testing"

func TestGetFallsBack(t *testing.T) {
	t.Setenv("PRODEEL_TEST_GET", "")
	if got := Get("PRODEEL_TEST_GET", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("PRODEEL_TEST_GET", "value")
	if got := Get("PRODEEL_TEST_GET", "fallback"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("PRODEEL_TEST_BOOL", "true")
	if !Bool("PRODEEL_TEST_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("PRODEEL_TEST_BOOL", "nope")
	if Bool("PRODEEL_TEST_BOOL", false) {
		t.Fatal("malformed value should fall back")
	}
}
