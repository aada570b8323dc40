package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	TenantHeader = "X-Tenant-Id"
	APIKeyHeader = "X-Api-Key"

	tenantKey = "tenant_id"
)

// APIKey rejects requests without the configured key. An empty key disables the check.
func APIKey(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if required == "" {
			c.Next()
			return
		}
		if c.GetHeader(APIKeyHeader) != required {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key")
			return
		}
		c.Next()
	}
}

// Tenant requires the tenant header and stores it on the context.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := strings.TrimSpace(c.GetHeader(TenantHeader))
		if tenant == "" {
			abort(c, http.StatusBadRequest, "TENANT_REQUIRED", "Missing "+TenantHeader+" header")
			return
		}
		c.Set(tenantKey, tenant)
		c.Next()
	}
}

func TenantID(c *gin.Context) string {
	return c.GetString(tenantKey)
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
