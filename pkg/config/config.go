package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "erpbase"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Outbox    OutboxConfig
	Recompute RecomputeConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"ERPBASE_APP_ENV" required:"true"`
	Port            string        `envconfig:"ERPBASE_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"ERPBASE_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"ERPBASE_LOG_WARN_STACK" default:"false"`
	AutoMigrateDev  bool          `envconfig:"ERPBASE_AUTO_MIGRATE_DEV" default:"true"`
	MetricsPort     string        `envconfig:"ERPBASE_METRICS_PORT" default:"9090"`
	ShutdownTimeout time.Duration `envconfig:"ERPBASE_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"ERPBASE_DB_DSN"`

	Host     string `envconfig:"ERPBASE_DB_HOST"`
	Port     int    `envconfig:"ERPBASE_DB_PORT" default:"5432"`
	User     string `envconfig:"ERPBASE_DB_USER"`
	Password string `envconfig:"ERPBASE_DB_PASSWORD"`
	Name     string `envconfig:"ERPBASE_DB_NAME"`
	SSLMode  string `envconfig:"ERPBASE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ERPBASE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ERPBASE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ERPBASE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ERPBASE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	missing := []string{}
	if db.Host == "" {
		missing = append(missing, "ERPBASE_DB_HOST")
	}
	if db.User == "" {
		missing = append(missing, "ERPBASE_DB_USER")
	}
	if db.Name == "" {
		missing = append(missing, "ERPBASE_DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("database configuration incomplete, set ERPBASE_DB_DSN or %s", strings.Join(missing, ", "))
	}
	db.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(db.User),
		url.QueryEscape(db.Password),
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"ERPBASE_REDIS_URL"`
	Address      string        `envconfig:"ERPBASE_REDIS_ADDR"`
	Password     string        `envconfig:"ERPBASE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ERPBASE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ERPBASE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ERPBASE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ERPBASE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ERPBASE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ERPBASE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"ERPBASE_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"ERPBASE_JWT_ISSUER" default:"erp-base"`
}

type OutboxConfig struct {
	PollInterval  time.Duration `envconfig:"ERPBASE_OUTBOX_POLL_INTERVAL" default:"2s"`
	BatchSize     int           `envconfig:"ERPBASE_OUTBOX_BATCH_SIZE" default:"100"`
	ChannelPrefix string        `envconfig:"ERPBASE_OUTBOX_CHANNEL_PREFIX" default:"erpbase.events"`
	LockTTL       time.Duration `envconfig:"ERPBASE_OUTBOX_LOCK_TTL" default:"30s"`
	RetentionDays int           `envconfig:"ERPBASE_OUTBOX_RETENTION_DAYS" default:"14"`
}

type RecomputeConfig struct {
	ControllerIdleTTL time.Duration `envconfig:"ERPBASE_RECOMPUTE_IDLE_TTL" default:"10m"`
}
