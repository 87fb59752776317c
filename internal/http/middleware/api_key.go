package middleware

import (
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"

	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/repository"
)

// TenantFromCtx extracts the authenticated tenant set by APIKeyMiddleware.
func TenantFromCtx(c echo.Context) (*model.Tenant, bool) {
	t, ok := c.Get("tenant").(*model.Tenant)
	return t, ok
}

// APIKeyMiddleware authenticates requests using X-API-Key header.
// On success it stores the tenant in context and blocks suspended accounts.
func APIKeyMiddleware(tenants repository.TenantsRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get("X-API-Key"))
			if key == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing api key"})
			}
			t, err := tenants.GetByAPIKey(c.Request().Context(), key)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "auth error"})
			}
			if t == nil || t.Status != "active" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
			}
			c.Set("tenant", t)
			if t.RateLimitRPS != nil {
				c.Set("tenant_rps", *t.RateLimitRPS)
			}
			return next(c)
		}
	}
}
