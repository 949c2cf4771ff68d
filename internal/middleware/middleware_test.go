package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()

	testHandler := func(c echo.Context) error {
		return c.String(http.StatusOK, "test response")
	}

	e.Use(SecurityHeaders())
	e.GET("/test", testHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	headers := rec.Header()

	assert.Empty(t, headers.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "max-age=63072000; includeSubDomains; preload", headers.Get("Strict-Transport-Security"))
	assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Equal(t, "1; mode=block", headers.Get("X-XSS-Protection"))
	assert.Equal(t, "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; "+
		"img-src 'self' data:; connect-src 'self'; font-src 'self'; form-action 'self'; frame-ancestors 'none'",
		headers.Get("Content-Security-Policy"))
	assert.Equal(t, "no-referrer, strict-origin-when-cross-origin", headers.Get("Referrer-Policy"))
	assert.Equal(t, "no-store", headers.Get("Cache-Control"))

	assert.Empty(t, headers.Get("Server"))
}

func TestSecurityHeadersImageOrigins(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders("http://localhost:2401"))
	e.GET("/test", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "img-src 'self' data: http://localhost:2401;")
}

func TestSecurityHeadersWithDifferentMethods(t *testing.T) {
	e := echo.New()

	testHandler := func(c echo.Context) error {
		return c.String(http.StatusOK, "test response")
	}

	e.Use(SecurityHeaders())
	e.POST("/test", testHandler)
	e.PUT("/test", testHandler)
	e.DELETE("/test", testHandler)

	methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/test", nil)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}
