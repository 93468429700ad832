package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printpay/receivables/internal/infrastructure/logger"
	"github.com/printpay/receivables/internal/interfaces/http/dto"
)

const (
	// TenantHeader carries the tenant (print shop) the request acts for
	TenantHeader = "X-Tenant-ID"
	tenantIDKey  = "tenant_id"
)

// TenantConfig holds configuration for the tenant middleware
type TenantConfig struct {
	// SkipPaths are served without a tenant (health checks)
	SkipPaths []string
	// DefaultTenant is used when the header is absent. uuid.Nil makes the
	// header mandatory.
	DefaultTenant uuid.UUID
}

// DefaultTenantConfig requires the header everywhere except health checks
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		SkipPaths: []string{"/health", "/ready"},
	}
}

// Tenant resolves the tenant from X-Tenant-ID, stores it in the gin context
// and enriches the request logger with it.
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		tenantID := cfg.DefaultTenant
		if raw := c.GetHeader(TenantHeader); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
					dto.ErrCodeBadRequest, "Invalid tenant ID format", RequestIDFrom(c)))
				return
			}
			tenantID = parsed
		}
		if tenantID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeTenantRequired, "X-Tenant-ID header is required", RequestIDFrom(c)))
			return
		}

		c.Set(tenantIDKey, tenantID)
		ctx, _ := logger.WithTenantID(c.Request.Context(), logger.FromContext(c.Request.Context()), tenantID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// TenantIDFrom returns the tenant resolved by Tenant
func TenantIDFrom(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(tenantIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
