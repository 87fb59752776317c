package config

import (
	"bytes"
	_ "embed"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP       HTTPConfig      `mapstructure:"http"`
	Log        LogConfig       `mapstructure:"log"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Providers  ProvidersConfig `mapstructure:"providers"`
	Broadcast  BroadcastConfig `mapstructure:"broadcast"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers        []string `mapstructure:"brokers"`
	GroupID        string   `mapstructure:"group_id"`
	MinBytes       int      `mapstructure:"min_bytes"`
	MaxBytes       int      `mapstructure:"max_bytes"`
	CommitInterval int      `mapstructure:"commit_interval_ms"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

// ProvidersConfig holds transport credentials. Every field is optional;
// each adapter validates its own required subset when it is actually invoked.
type ProvidersConfig struct {
	AgentBaseURL    string `mapstructure:"agent_base_url"`
	CloudBaseURL    string `mapstructure:"cloud_base_url"`
	CloudAPIKey     string `mapstructure:"cloud_api_key"`
	LegacyBaseURL   string `mapstructure:"legacy_base_url"`
	LegacyProductID string `mapstructure:"legacy_product_id"`
	LegacyPhoneID   string `mapstructure:"legacy_phone_id"`
	LegacyAPIKey    string `mapstructure:"legacy_api_key"`
}

type BroadcastConfig struct {
	Pacing time.Duration `mapstructure:"pacing"` // inter-message gap between sequential sends
	Topic  string        `mapstructure:"topic"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (WAGW_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (WAGW_*)
	v.SetEnvPrefix("WAGW")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
