package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/jmehdipour/wa-gateway/internal/config"
	"github.com/jmehdipour/wa-gateway/internal/db"
	"github.com/jmehdipour/wa-gateway/internal/model"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo tenants",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// 2) connect MySQL
		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo tenants...")

		if err := seedTenants(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// seedTenants inserts deterministic demo tenants, one per routing shape (idempotent).
func seedTenants(dbx *sqlx.DB) error {
	tenants := []model.Tenant{
		{
			BusinessName: "Corner Bakery",
			OwnerPhone:   "15551230001",
			APIKey:       "11111111111111111111111111111111",
			Status:       "active",
			Plan:         model.PlanBasic, // routes to desktop-agent
			RateLimitRPS: intptr(5),
		},
		{
			BusinessName: "Skyline Realty",
			OwnerPhone:   "15551230002",
			APIKey:       "22222222222222222222222222222222",
			Status:       "active",
			Plan:         model.PlanPremium, // routes to cloud-session
			CloudSession: strptr("skyline-main"),
			RateLimitRPS: intptr(20),
		},
		{
			BusinessName: "Grandfathered Goods",
			OwnerPhone:   "15551230003",
			APIKey:       "33333333333333333333333333333333",
			Status:       "active",
			Plan:         "enterprise", // unmapped plan, routes to legacy
			RateLimitRPS: nil,
		},
		{
			BusinessName: "Pinned Provider Ltd",
			OwnerPhone:   "15551230004",
			APIKey:       "44444444444444444444444444444444",
			Status:       "active",
			Plan:         model.PlanPremium,
			Provider:     strptr("desktop-agent"), // explicit override wins over plan
			RateLimitRPS: intptr(10),
		},
		{
			BusinessName: "Suspended Inc",
			OwnerPhone:   "15551230005",
			APIKey:       "55555555555555555555555555555555",
			Status:       "suspended",
			Plan:         model.PlanBasic,
			RateLimitRPS: nil,
		},
	}

	// idempotent upsert based on api_key (UNIQUE)
	const q = `
INSERT INTO tenants
    (business_name, owner_phone, api_key, status, plan, provider, cloud_session, rate_limit_rps, created_at, updated_at)
VALUES
    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    business_name = VALUES(business_name),
    status        = VALUES(status),
    plan          = VALUES(plan),
    provider      = VALUES(provider),
    cloud_session = VALUES(cloud_session),
    rate_limit_rps = VALUES(rate_limit_rps),
    updated_at    = VALUES(updated_at)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	for _, t := range tenants {
		if _, err := tx.Exec(q, t.BusinessName, t.OwnerPhone, t.APIKey, t.Status, t.Plan, t.Provider, t.CloudSession, t.RateLimitRPS, now, now); err != nil {
			return fmt.Errorf("insert tenant %q: %w", t.BusinessName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tenants: %w", err)
	}
	return nil
}

func intptr(i int) *int       { return &i }
func strptr(s string) *string { return &s }
