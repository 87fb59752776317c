package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/wa-gateway/internal/config"
	"github.com/jmehdipour/wa-gateway/internal/db"
	"github.com/jmehdipour/wa-gateway/internal/kafka"
	"github.com/jmehdipour/wa-gateway/internal/logger"
	"github.com/jmehdipour/wa-gateway/internal/metrics"
	"github.com/jmehdipour/wa-gateway/internal/provider"
	"github.com/jmehdipour/wa-gateway/internal/repository"
	"github.com/jmehdipour/wa-gateway/internal/service/broadcast"
	"github.com/jmehdipour/wa-gateway/internal/worker"
)

var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Run the broadcast worker",
	RunE:  runBroadcast,
}

func runBroadcast(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Log.Level)
	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 2) DB connection (MySQL)
	dbx, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
		PingTimeout:     cfg.MySQL.PingTimeout,
	})
	if err != nil {
		return fmt.Errorf("mysql connect: %w", err)
	}
	defer dbx.Close()

	// 3) repositories
	tenantsRepo := repository.NewTenantsRepository(dbx)
	pendingRepo := repository.NewPendingRepository(dbx)

	// 4) provider credentials
	settings := provider.Settings{
		AgentBaseURL:    cfg.Providers.AgentBaseURL,
		CloudBaseURL:    cfg.Providers.CloudBaseURL,
		CloudAPIKey:     cfg.Providers.CloudAPIKey,
		LegacyBaseURL:   cfg.Providers.LegacyBaseURL,
		LegacyProductID: cfg.Providers.LegacyProductID,
		LegacyPhoneID:   cfg.Providers.LegacyPhoneID,
		LegacyAPIKey:    cfg.Providers.LegacyAPIKey,
	}

	// 5) kafka consumer
	topic := cfg.Broadcast.Topic
	if topic == "" {
		topic = broadcast.KafkaTopic
	}
	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "wagw-broadcast"
	}

	consumer := kafka.NewConsumerFromConfig(kafka.Config{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
	})
	defer consumer.Close()

	w := worker.NewBroadcast(
		consumer,
		tenantsRepo,
		pendingRepo,
		settings,
		cfg.Broadcast.Pacing,
		logger.L(),
	)

	// 6) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.L().Info("broadcast worker started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Duration("pacing", cfg.Broadcast.Pacing))

	return w.Run(ctx)
}
