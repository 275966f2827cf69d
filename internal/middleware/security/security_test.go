package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPExtract(t *testing.T) {
	c, err := NewClientIP("203.0.113.0/24")
	if err != nil {
		t.Fatalf("NewClientIP: %v", err)
	}
	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct untrusted", "198.51.100.7:5000", "1.2.3.4", "", "198.51.100.7"},
		{"trusted proxy xff", "10.0.0.2:5000", "1.2.3.4, 10.0.0.1", "", "1.2.3.4"},
		{"trusted proxy xri", "127.0.0.1:5000", "", "5.6.7.8", "5.6.7.8"},
		{"extra trusted cidr", "203.0.113.9:80", "9.9.9.9", "", "9.9.9.9"},
		{"bad forwarded value", "10.0.0.2:5000", "not-an-ip", "", "10.0.0.2"},
		{"no port", "192.168.1.5", "", "", "192.168.1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := c.Extract(r); got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := NewClientIP("nope"); err == nil {
		t.Error("expected error for invalid CIDR")
	}
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS(DefaultCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/functions/v1/get-budget", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 || called {
		t.Fatalf("preflight: code=%d body=%q called=%v", rec.Code, rec.Body.String(), called)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "authorization, x-client-info, apikey, content-type" {
		t.Errorf("allow headers = %q", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/functions/v1/get-budget", nil))
	if !called || rec.Code != http.StatusTeapot {
		t.Fatalf("non-preflight should reach handler, code=%d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS headers missing on normal response")
	}
}

func TestHeadersSkipsEmpty(t *testing.T) {
	cfg := DefaultHeadersConfig()
	cfg.PermissionsPolicy = ""
	h := Headers(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("X-Frame-Options missing")
	}
	if _, ok := rec.Header()["Permissions-Policy"]; ok {
		t.Error("empty header should not be set")
	}
}
