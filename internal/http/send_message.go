package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/jmehdipour/wa-gateway/internal/engine"
	"github.com/jmehdipour/wa-gateway/internal/http/middleware"
	"github.com/jmehdipour/wa-gateway/internal/logger"
	"github.com/jmehdipour/wa-gateway/internal/provider"
)

type sendReq struct {
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	MediaURL string `json:"mediaUrl"`
	Name     string `json:"name"`
}

func sendMessageHandler(pendingRepo provider.PendingQueue, settings provider.Settings) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req sendReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		req.Phone = strings.TrimSpace(req.Phone)
		req.Message = strings.TrimSpace(req.Message)
		if req.Phone == "" || req.Message == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "phone and message are required"})
		}

		tenant, ok := middleware.TenantFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		eng := engine.New(*tenant, pendingRepo, settings, engine.WithLogger(logger.L()))

		res, err := eng.SendMessage(c.Request().Context(), req.Phone, req.Message, req.MediaURL,
			provider.SendOptions{RecipientName: req.Name})
		if err != nil {
			return sendErrorResponse(c, err)
		}

		return c.JSON(http.StatusOK, res)
	}
}

// sendErrorResponse maps typed provider errors onto HTTP statuses. A
// normalized message is always present; raw provider payloads ride along
// for diagnostics only.
func sendErrorResponse(c echo.Context, err error) error {
	var unknownErr *provider.UnknownProviderError
	var cfgErr *provider.ConfigError
	var persistErr *provider.PersistenceError
	var provErr *provider.ProviderError

	switch {
	case errors.As(err, &unknownErr):
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error":       "unknown_provider",
			"description": unknownErr.Error(),
		})
	case errors.As(err, &cfgErr):
		return c.JSON(http.StatusConflict, map[string]string{
			"error":       "provider_not_configured",
			"description": cfgErr.Error(),
		})
	case errors.As(err, &persistErr):
		log.Errorf("pending queue write failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":       "queue_error",
			"description": persistErr.Error(),
		})
	case errors.As(err, &provErr):
		body := map[string]any{
			"error":       "send_failed",
			"description": provErr.Error(),
		}
		if len(provErr.Payload) > 0 {
			body["provider_response"] = provErr.Payload
		}
		return c.JSON(http.StatusBadGateway, body)
	default:
		log.Errorf("send failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":       "send_failed",
			"description": err.Error(),
		})
	}
}
