package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// getClientIP resolves the caller through gin, which only honours
// X-Forwarded-For and X-Real-IP when the peer is a trusted proxy. The engine
// must be configured with SetTrustedProxies; gin trusts everyone by default.
func getClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	// RemoteAddr might be in "ip:port" format; strip the port if present.
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
