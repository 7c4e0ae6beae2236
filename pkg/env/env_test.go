package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("FZ_TEST_VALUE", "  console ")
	if got := Get("FZ_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := Get("FZ_TEST_MISSING", "json"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("FZ_TEST_BOOL", "true")
	if !Bool("FZ_TEST_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("FZ_TEST_BOOL", "nope")
	if Bool("FZ_TEST_BOOL", false) {
		t.Fatal("malformed value should fall back")
	}
}
