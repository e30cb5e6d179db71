package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AnshRaj112/wordstreak-backend/internal/logging"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(ok).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	for _, h := range []string{headerXContentTypeOptions, headerXFrameOptions, headerContentSecurityPolicy, headerStrictTransportSecurity} {
		if rec.Header().Get(h) == "" {
			t.Errorf("missing header %s", h)
		}
	}
}

func TestHostCheck(t *testing.T) {
	h := HostCheck("api.wordstreak.app")(ok)

	req := httptest.NewRequest("GET", "/", nil)
	req.Host = "API.wordstreak.app:443"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("matching host should pass, got %d", rec.Code)
	}

	req.Host = "evil.example"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign host should be rejected, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	HostCheck("")(ok).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty allowed host disables the check, got %d", rec.Code)
	}
}

func TestGlobalRateLimitPerIP(t *testing.T) {
	h := GlobalRateLimit(0.001, 2)(ok)

	do := func(addr string) int {
		req := httptest.NewRequest("GET", "/api/words", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if do("198.51.100.1:1") != 200 || do("198.51.100.1:2") != 200 {
		t.Fatal("burst should be allowed")
	}
	if code := do("198.51.100.1:3"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", code)
	}
	if code := do("198.51.100.2:1"); code != http.StatusOK {
		t.Fatalf("other IPs have their own bucket, got %d", code)
	}
}

func TestWriteRateLimitOnlyLimitsWrites(t *testing.T) {
	h := WriteRateLimit(time.Hour, 1)(ok)

	do := func(method string) int {
		req := httptest.NewRequest(method, "/api/words", nil)
		req.RemoteAddr = "203.0.113.5:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if do("POST") != http.StatusOK {
		t.Fatal("first write should pass")
	}
	if do("DELETE") != http.StatusTooManyRequests {
		t.Fatal("second write should be limited")
	}
	for i := 0; i < 5; i++ {
		if do("GET") != http.StatusOK {
			t.Fatal("reads are not limited")
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://wordstreak.app"})(ok)

	req := httptest.NewRequest("OPTIONS", "/api/words", nil)
	req.Header.Set("Origin", "https://wordstreak.app")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight should be answered with 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://wordstreak.app" {
		t.Fatalf("unexpected allow-origin %q", got)
	}

	req = httptest.NewRequest("GET", "/api/words", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unknown origin must not be allowed")
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New("info", true, &buf)
	h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("dup"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/words", nil))

	out := buf.String()
	for _, want := range []string{`"status":409`, `"path":"/api/words"`, `"method":"POST"`, `"severity":"warning"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}
