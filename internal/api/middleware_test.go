package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestAuthMiddleware_RejectsWithJSON(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	h := middleware.RequestID(AuthMiddleware("secret", log)(okHandler()))

	tests := []struct {
		header string
		reason string
	}{
		{"", "missing authorization"},
		{"Token secret", "missing authorization"},
		{"Bearer wrong", "invalid api key"},
	}
	for _, tt := range tests {
		logs.Reset()
		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", tt.header, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("header %q: expected application/json, got %q", tt.header, ct)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("header %q: body is not JSON: %v", tt.header, err)
		}
		if body["error"] != tt.reason {
			t.Errorf("header %q: expected error %q, got %q", tt.header, tt.reason, body["error"])
		}

		var entry map[string]any
		if err := json.Unmarshal(logs.Bytes(), &entry); err != nil {
			t.Fatalf("header %q: expected one log line, got %q", tt.header, logs.String())
		}
		if entry["msg"] != "request rejected" || entry["reason"] != tt.reason {
			t.Errorf("header %q: unexpected log entry %v", tt.header, entry)
		}
		if id, _ := entry["request_id"].(string); id == "" {
			t.Errorf("header %q: expected request_id in log entry %v", tt.header, entry)
		}
	}
}

func TestAuthMiddleware_Accepts(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	h := AuthMiddleware("secret", log)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("expected 200 ok, got %d %q", rec.Code, rec.Body.String())
	}
	if logs.Len() != 0 {
		t.Errorf("expected no log output for an accepted request, got %q", logs.String())
	}
}

func TestRequestLogger_Fields(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	h := middleware.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/segment", nil))

	var entry map[string]any
	if err := json.Unmarshal(logs.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q", logs.String())
	}
	if id, _ := entry["request_id"].(string); id == "" {
		t.Errorf("expected request_id, got %v", entry)
	}
	if entry["path"] != "/api/segment" || entry["method"] != "POST" {
		t.Errorf("unexpected method/path in %v", entry)
	}
	// JSON numbers decode as float64.
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("expected status 418, got %v", entry["status"])
	}
	if entry["bytes"] != float64(len("short")) {
		t.Errorf("expected 5 bytes, got %v", entry["bytes"])
	}
	if !strings.Contains(logs.String(), `"msg":"request"`) {
		t.Errorf("expected request message, got %q", logs.String())
	}
}
