package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jmehdipour/wa-gateway/internal/engine"
	"github.com/jmehdipour/wa-gateway/internal/http/middleware"
	"github.com/jmehdipour/wa-gateway/internal/logger"
	"github.com/jmehdipour/wa-gateway/internal/provider"
)

func providerStatusHandler(pendingRepo provider.PendingQueue, settings provider.Settings) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenant, ok := middleware.TenantFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		eng := engine.New(*tenant, pendingRepo, settings, engine.WithLogger(logger.L()))

		// CheckStatus never fails; an unreachable provider reads as a
		// disconnected snapshot.
		return c.JSON(http.StatusOK, eng.CheckStatus(c.Request().Context()))
	}
}
