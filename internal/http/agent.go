package http

import (
	"errors"
	"net/http"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/jmehdipour/wa-gateway/internal/model"
	"github.com/jmehdipour/wa-gateway/internal/repository"
)

// Agent endpoints are consumed by tenant-local desktop agents: register on
// startup, poll the pending queue, ack each delivery, disconnect on exit.

type agentRegisterReq struct {
	TenantID     int64  `json:"tenantId"`
	PhoneNumber  string `json:"phoneNumber"`
	AgentVersion string `json:"agentVersion"`
}

func agentRegisterHandler(tenants repository.TenantsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req agentRegisterReq
		if err := c.Bind(&req); err != nil || req.TenantID <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "bad request"})
		}

		if err := tenants.SetAgentConnected(c.Request().Context(), req.TenantID, req.PhoneNumber); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "tenant not found"})
			}
			log.Errorf("agent register failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}

		tenant, err := tenants.GetByID(c.Request().Context(), req.TenantID)
		if err != nil {
			log.Errorf("agent register reload failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "agent registered",
			"tenant":  tenant,
		})
	}
}

type agentTenantReq struct {
	TenantID int64 `json:"tenantId"`
}

func agentDisconnectHandler(tenants repository.TenantsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req agentTenantReq
		if err := c.Bind(&req); err != nil || req.TenantID <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "bad request"})
		}

		if err := tenants.SetAgentDisconnected(c.Request().Context(), req.TenantID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "tenant not found"})
			}
			log.Errorf("agent disconnect failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "agent disconnected",
		})
	}
}

// agentPollHandler returns the oldest pending messages for the agent to
// transmit. The page is bounded; the agent polls again for the rest.
func agentPollHandler(pending repository.PendingRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req agentTenantReq
		if err := c.Bind(&req); err != nil || req.TenantID <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "bad request"})
		}

		msgs, err := pending.ListPending(c.Request().Context(), req.TenantID, 10)
		if err != nil {
			log.Errorf("agent poll failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}
		if msgs == nil {
			msgs = []model.PendingMessage{}
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"messages": msgs,
		})
	}
}

type agentAckReq struct {
	MessageID string `json:"messageId"`
	TenantID  int64  `json:"tenantId"`
	Status    string `json:"status"` // sent (default) | failed
}

// agentAckHandler records the delivery outcome for one queued message.
// The update is scoped by (message, tenant) so a misbehaving agent can
// never touch another tenant's queue.
func agentAckHandler(pending repository.PendingRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req agentAckReq
		if err := c.Bind(&req); err != nil || req.MessageID == "" || req.TenantID <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "bad request"})
		}

		status, ok := model.ParseAckStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid status"})
		}

		err := pending.UpdateStatus(c.Request().Context(), req.MessageID, req.TenantID, status)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "message not found"})
			}
			log.Errorf("agent ack failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "message marked " + status.String(),
		})
	}
}

// agentTenantHandler returns the subset of tenant fields an agent needs to
// validate itself.
func agentTenantHandler(tenants repository.TenantsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req agentTenantReq
		if err := c.Bind(&req); err != nil || req.TenantID <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "bad request"})
		}

		tenant, err := tenants.GetByID(c.Request().Context(), req.TenantID)
		if err != nil {
			log.Errorf("agent get tenant failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "db error"})
		}
		if tenant == nil {
			return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "tenant not found"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"tenant": map[string]any{
				"id":            tenant.ID,
				"business_name": tenant.BusinessName,
				"owner_phone":   tenant.OwnerPhone,
				"plan":          tenant.Plan,
			},
		})
	}
}
