package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jmehdipour/wa-gateway/internal/config"
	"github.com/jmehdipour/wa-gateway/internal/http/middleware"
	"github.com/jmehdipour/wa-gateway/internal/metrics"
	"github.com/jmehdipour/wa-gateway/internal/provider"
	"github.com/jmehdipour/wa-gateway/internal/repository"
	"github.com/jmehdipour/wa-gateway/internal/service/broadcast"
)

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, mysqlDB, clickhouseDB *sqlx.DB, rds *redis.Client) *Server {
	// repos (MySQL)
	tenantsRepo := repository.NewTenantsRepository(mysqlDB)
	pendingRepo := repository.NewPendingRepository(mysqlDB)
	outboxRepo := repository.NewOutboxRepository(mysqlDB)

	// repos (ClickHouse)
	reportsRepo := repository.NewReportsRepository(clickhouseDB)

	// services
	bcastSvc := broadcast.New(mysqlDB, outboxRepo, cfg.Broadcast.Topic)

	settings := provider.Settings{
		AgentBaseURL:    cfg.Providers.AgentBaseURL,
		CloudBaseURL:    cfg.Providers.CloudBaseURL,
		CloudAPIKey:     cfg.Providers.CloudAPIKey,
		LegacyBaseURL:   cfg.Providers.LegacyBaseURL,
		LegacyProductID: cfg.Providers.LegacyProductID,
		LegacyPhoneID:   cfg.Providers.LegacyPhoneID,
		LegacyAPIKey:    cfg.Providers.LegacyAPIKey,
	}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// agent API (consumed by tenant-local desktop agents)
	agent := e.Group("/api/agent")
	agent.POST("/register", agentRegisterHandler(tenantsRepo))
	agent.POST("/disconnect", agentDisconnectHandler(tenantsRepo))
	agent.POST("/poll", agentPollHandler(pendingRepo))
	agent.POST("/ack", agentAckHandler(pendingRepo))
	agent.POST("/tenant", agentTenantHandler(tenantsRepo))

	// middlewares
	authMW := middleware.APIKeyMiddleware(tenantsRepo)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		DefaultRPS:     cfg.RateLimit.RPS,
		KeyPrefix:      "rl:tenant:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// tenant API
	v1 := e.Group("/v1", authMW, rlMW)
	v1.POST("/messages/send", sendMessageHandler(pendingRepo, settings))
	v1.POST("/broadcasts/send", sendBroadcastHandler(bcastSvc))
	v1.GET("/provider/status", providerStatusHandler(pendingRepo, settings))
	v1.GET("/reports/messages", listReportsHandler(reportsRepo))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
