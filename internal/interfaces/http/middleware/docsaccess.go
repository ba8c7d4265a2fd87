package middleware

import (
	"net"
	"strings"

	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DocsAccess restricts the API documentation to clients whose address
// matches one of allowed (single IPs or CIDR ranges). An empty list
// allows every client; unparsable entries are ignored.
func DocsAccess(allowed []string) gin.HandlerFunc {
	if len(allowed) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var ips []net.IP
	var nets []*net.IPNet
	for _, s := range allowed {
		if strings.Contains(s, "/") {
			if _, n, err := net.ParseCIDR(s); err == nil {
				nets = append(nets, n)
			}
			continue
		}
		if ip := net.ParseIP(s); ip != nil {
			ips = append(ips, ip)
		}
	}

	return func(c *gin.Context) {
		if !ipAllowed(net.ParseIP(c.ClientIP()), ips, nets) {
			Abort(c, dto.ErrCodeForbidden, "Access to API documentation is restricted.")
			return
		}
		c.Next()
	}
}

func ipAllowed(ip net.IP, ips []net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, a := range ips {
		if a.Equal(ip) {
			return true
		}
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
