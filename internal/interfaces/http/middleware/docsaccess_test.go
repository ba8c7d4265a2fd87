package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestDocsAccess(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		remote  string
		status  int
	}{
		{"empty list allows everyone", nil, "203.0.113.7:4000", http.StatusOK},
		{"exact ip", []string{"10.0.0.5"}, "10.0.0.5:4000", http.StatusOK},
		{"cidr range", []string{"192.168.1.0/24"}, "192.168.1.42:4000", http.StatusOK},
		{"outside the list", []string{"10.0.0.5", "192.168.1.0/24"}, "203.0.113.7:4000", http.StatusForbidden},
		{"invalid entries are ignored", []string{"not-an-ip", "10.0.0.0/33"}, "10.0.0.5:4000", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.GET("/swagger/*any", DocsAccess(tt.allowed), func(c *gin.Context) {
				c.String(http.StatusOK, "docs")
			})

			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = tt.remote
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
