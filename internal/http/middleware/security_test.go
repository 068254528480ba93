package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func serveSecurity(t *testing.T, opt SecurityOptions, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.Use(SecurityHeaders(opt))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	w := serveSecurity(t, SecurityOptions{}, nil)

	h := w.Header()
	if h.Get("X-Content-Type-Options") != "nosniff" ||
		h.Get("X-Frame-Options") != "DENY" ||
		h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("baseline headers missing: %v", h)
	}
	// Optional groups must stay off by default.
	if h.Get("Permissions-Policy") != "" || h.Get("Cache-Control") != "" {
		t.Fatalf("optional headers set without opt-in: %v", h)
	}
	if h.Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be set on plain HTTP")
	}
}

func TestSecurityHeaders_PolicyAndNoStore(t *testing.T) {
	w := serveSecurity(t, SecurityOptions{EnablePolicy: true, NoStore: true}, nil)

	h := w.Header()
	if !strings.Contains(h.Get("Permissions-Policy"), "geolocation=()") {
		t.Fatalf("Permissions-Policy missing: %q", h.Get("Permissions-Policy"))
	}
	if h.Get("X-Permitted-Cross-Domain-Policies") != "none" {
		t.Fatalf("cross-domain policy missing")
	}
	if h.Get("Cache-Control") != "no-store" || h.Get("Pragma") != "no-cache" || h.Get("Expires") != "0" {
		t.Fatalf("no-store headers missing: %v", h)
	}
}

func TestSecurityHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	opt := SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour}

	// Plain HTTP: never.
	w := serveSecurity(t, opt, nil)
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS emitted for plain HTTP")
	}

	// Forwarded HTTPS: emitted with the configured max-age.
	w = serveSecurity(t, opt, func(req *http.Request) {
		req.Header.Set("X-Forwarded-Proto", "https")
	})
	got := w.Header().Get("Strict-Transport-Security")
	if !strings.Contains(got, "max-age=86400") || !strings.Contains(got, "includeSubDomains") {
		t.Fatalf("unexpected HSTS header: %q", got)
	}
}

func TestSecurityHeaders_HSTSMaxAgeDefault(t *testing.T) {
	w := serveSecurity(t, SecurityOptions{EnableHSTS: true}, func(req *http.Request) {
		req.Header.Set("X-Forwarded-Proto", "https")
	})
	got := w.Header().Get("Strict-Transport-Security")
	if !strings.Contains(got, "max-age=15552000") { // 180 days
		t.Fatalf("expected default max-age, got %q", got)
	}
}

func TestSecurityHeaders_ExposesRequestID(t *testing.T) {
	w := serveSecurity(t, SecurityOptions{}, nil)
	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, requestIDHeader) {
		t.Fatalf("expected %s exposed, got %q", requestIDHeader, got)
	}
}
