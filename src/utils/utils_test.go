package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGenerateETagIsStable(t *testing.T) {
	a, err := GenerateETag(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := GenerateETag(map[string]int{"a": 1, "b": 2})
	if a != b || len(a) != 64 {
		t.Fatalf("expected equal 64 char etags, got %q and %q", a, b)
	}
	c, _ := GenerateETag(map[string]int{"a": 1})
	if c == a {
		t.Fatalf("different payloads must not share an etag")
	}
}

func TestSendJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	SendJSONError(rec, "boom", http.StatusBadRequest)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"boom"}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestDateRange(t *testing.T) {
	from, err := ParseDate("2024-12-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	to, _ := ParseDate("2024-12-03")
	if !InDateRange("2024-12-03T23:59:59.999Z", from, to) {
		t.Fatalf("last day should be inclusive")
	}
	if InDateRange("2024-12-01T23:59:59.999Z", from, to) {
		t.Fatalf("day before range should be excluded")
	}
	if !InDateRange("2030-01-01T00:00:00.000Z", from, time.Time{}) {
		t.Fatalf("zero upper bound should be open")
	}
	if _, err := ParseDate("02-12-2024"); err == nil {
		t.Fatalf("expected an error for a non ISO date")
	}
}
