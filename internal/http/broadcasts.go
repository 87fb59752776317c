package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/jmehdipour/wa-gateway/internal/http/middleware"
	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/service/broadcast"
)

type broadcastReq struct {
	// Entries may be bare phone strings or {phone, name} objects.
	Recipients []model.Recipient `json:"recipients"`
	Message    string            `json:"message"`
	MediaURL   string            `json:"mediaUrl"`
}

func sendBroadcastHandler(bcastSvc *broadcast.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req broadcastReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		req.Message = strings.TrimSpace(req.Message)
		if len(req.Recipients) == 0 || req.Message == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "recipients and message are required"})
		}
		for _, r := range req.Recipients {
			if strings.TrimSpace(r.Phone) == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "recipient phone is required"})
			}
		}

		tenant, ok := middleware.TenantFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		id, err := bcastSvc.Enqueue(c.Request().Context(), tenant.ID, req.Recipients, req.Message, req.MediaURL)
		if err != nil {
			log.Errorf("broadcast enqueue failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return c.JSON(http.StatusAccepted, map[string]any{
			"enqueued":    true,
			"broadcastId": id,
			"total":       len(req.Recipients),
		})
	}
}
