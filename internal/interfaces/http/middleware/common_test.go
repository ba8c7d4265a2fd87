package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func okRouter(mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw...)
	router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return router
}

func TestCORS_DefaultRejectsCrossOrigin(t *testing.T) {
	router := okRouter(CORS())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "http://malicious.com")
	w := serve(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/test", nil)
	req.Header.Set("Origin", "http://some-origin.com")
	w = serve(router, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"http://localhost:3000", "http://example.com"}
	router := okRouter(CORSWithConfig(cfg))

	t.Run("allows listed origins", func(t *testing.T) {
		for _, origin := range cfg.AllowOrigins {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Origin", origin)
			w := serve(router, req)
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		}
	})

	t.Run("advertises the company and language headers", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/test", nil)
		req.Header.Set("Origin", "http://example.com")
		w := serve(router, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		allowed := w.Header().Get("Access-Control-Allow-Headers")
		assert.Contains(t, allowed, HeaderCompanyID)
		assert.Contains(t, allowed, HeaderAcceptLanguage)
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("ignores other origins", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://not-allowed.com")
		assert.Empty(t, serve(router, req).Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard drops credentials", func(t *testing.T) {
		router := okRouter(CORSWithConfig(CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true}))
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://anything.com")
		w := serve(router, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		assert.Equal(t, GetRequestID(c), logger.GetRequestID(c.Request.Context()))
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates request ID", func(t *testing.T) {
		w := serve(router, httptest.NewRequest("GET", "/test", nil))
		assert.Len(t, w.Header().Get(HeaderRequestID), 32)
		assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(HeaderRequestID, "test-request-id")
		w := serve(router, req)
		assert.Equal(t, "test-request-id", w.Body.String())
	})

	t.Run("truncates oversized IDs", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(HeaderRequestID, strings.Repeat("a", 500))
		w := serve(router, req)
		assert.Len(t, w.Body.String(), MaxRequestIDLength)
	})
}

func TestGenerateRequestID(t *testing.T) {
	id1, id2 := generateRequestID(), generateRequestID()
	assert.Len(t, id1, 32)
	assert.NotEqual(t, id1, id2)
}

func TestSecure(t *testing.T) {
	w := serve(okRouter(Secure()), httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
	assert.Contains(t, w.Header().Get("Permissions-Policy"), "camera=()")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecureWithConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  SecurityConfig
		hsts string
		csp  string
	}{
		{
			name: "hsts with preload",
			cfg:  SecurityConfig{HSTSEnabled: true, HSTSMaxAge: 600, HSTSIncludeSubdomains: true, HSTSPreload: true},
			hsts: "max-age=600; includeSubDomains; preload",
		},
		{
			name: "hsts without subdomains",
			cfg:  SecurityConfig{HSTSEnabled: true, HSTSMaxAge: 31536000},
			hsts: "max-age=31536000",
		},
		{
			name: "custom csp",
			cfg:  SecurityConfig{CSPEnabled: true, CSPDirective: "default-src 'self'"},
			csp:  "default-src 'self'",
		},
		{
			name: "csp enabled without directive",
			cfg:  SecurityConfig{CSPEnabled: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(okRouter(SecureWithConfig(tt.cfg)), httptest.NewRequest("GET", "/test", nil))
			assert.Equal(t, tt.hsts, w.Header().Get("Strict-Transport-Security"))
			assert.Equal(t, tt.csp, w.Header().Get("Content-Security-Policy"))
			assert.Empty(t, w.Header().Get("Permissions-Policy"))
		})
	}
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	assert.Empty(t, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowMethods, "PATCH")
	assert.Contains(t, cfg.AllowHeaders, "Authorization")
	assert.Contains(t, cfg.ExposeHeaders, "Content-Disposition")
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}
