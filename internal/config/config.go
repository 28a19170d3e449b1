package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App            AppConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	JWT            JWTConfig
	Reconciliation ReconciliationConfig
}

type AppConfig struct {
	Port     int
	Env      string
	LogLevel string

	// InternalSecret gates the manual reconciliation trigger. It is optional
	// at boot; the guarded endpoint hard-fails while it is unset.
	InternalSecret string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds verification settings for dashboard-issued access tokens.
type JWTConfig struct {
	Secret string
}

// ReconciliationConfig carries the engine's tunables with documented
// defaults, so the orchestrator never reads the environment directly.
type ReconciliationConfig struct {
	// LockTTL bounds a run's exclusivity; a crashed run is stealable after
	// this elapses. Must exceed worst-case run duration.
	LockTTL time.Duration

	// HistoryDays is the cron trigger's intervaloDias window.
	HistoryDays int

	// CronInterval is how often the scheduler wakes up; CronHour is the
	// business-local hour the job actually fires in.
	CronInterval time.Duration
	CronHour     int

	AuditLogPath string
}

func Load() (*Config, error) {
	// Missing .env is fine in production; variables come from the process
	// environment there.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "fieldvolt"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration (job lock store)
	redisPort, err := getEnvInt("REDIS_PORT", 6379)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	config.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     redisPort,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		InternalSecret: getEnv("INTERNAL_SECRET", ""),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Reconciliation engine configuration
	lockTTL, err := getEnvDuration("RECONCILIATION_LOCK_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	historyDays, err := getEnvInt("RECONCILIATION_HISTORY_DAYS", 1)
	if err != nil {
		return nil, err
	}
	cronInterval, err := getEnvDuration("RECONCILIATION_CRON_INTERVAL", 1*time.Hour)
	if err != nil {
		return nil, err
	}
	cronHour, err := getEnvInt("RECONCILIATION_CRON_HOUR", 4)
	if err != nil {
		return nil, err
	}

	config.Reconciliation = ReconciliationConfig{
		LockTTL:      lockTTL,
		HistoryDays:  historyDays,
		CronInterval: cronInterval,
		CronHour:     cronHour,
		AuditLogPath: getEnv("RECONCILIATION_AUDIT_LOG", "reconciliation-audit.log"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Reconciliation.HistoryDays <= 0 {
		return fmt.Errorf("RECONCILIATION_HISTORY_DAYS must be positive")
	}
	if c.Reconciliation.CronHour < 0 || c.Reconciliation.CronHour > 23 {
		return fmt.Errorf("RECONCILIATION_CRON_HOUR must be between 0 and 23")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RedisAddr returns the host:port address of the lock store.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
