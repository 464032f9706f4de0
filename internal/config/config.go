package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Server    ServerConfig
	SMTP      SMTPConfig
	Gateway   GatewayConfig
	Scheduler SchedulerConfig
	Currency  string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds JWT authentication settings.
type JWTConfig struct {
	Secret     string //nolint:gosec // G117: JWT signing secret config
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// SMTPConfig holds outbound email settings. Email delivery is disabled when
// Host is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string //nolint:gosec // G117: SMTP credential config
	From     string
}

// GatewayConfig holds payment gateway settings. Charge intents are disabled
// when BaseURL is empty.
type GatewayConfig struct {
	BaseURL string
	APIKey  string //nolint:gosec // G117: gateway credential config
}

// SchedulerConfig holds the batch job schedules and notification windows.
type SchedulerConfig struct {
	Enabled        bool
	ReminderSpec   string
	OverdueSpec    string
	ExpirySpec     string
	RentGenSpec    string
	ReminderWindow time.Duration
	ExpiryWindow   time.Duration
	RemindRepeat   bool
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password) must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("RENTORA_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("RENTORA_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("RENTORA_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	accessTTL, err := getEnvDuration("RENTORA_JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	refreshTTL, err := getEnvDuration("RENTORA_JWT_REFRESH_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("RENTORA_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("RENTORA_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	smtpPort, err := getEnvInt("RENTORA_SMTP_PORT", 587)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	schedulerEnabled, err := getEnvBool("RENTORA_SCHEDULER_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	reminderWindow, err := getEnvDuration("RENTORA_SCHEDULER_REMINDER_WINDOW", 72*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	expiryWindow, err := getEnvDuration("RENTORA_SCHEDULER_EXPIRY_WINDOW", 30*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	remindRepeat, err := getEnvBool("RENTORA_SCHEDULER_REMIND_REPEAT", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("RENTORA_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("RENTORA_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("RENTORA_DB_USER", "rentora"),
			Password: getEnv("RENTORA_DB_PASSWORD", ""),
			DBName:   getEnv("RENTORA_DB_NAME", "rentora_dev"),
			SSLMode:  getEnv("RENTORA_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("RENTORA_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("RENTORA_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:     getEnv("RENTORA_JWT_SECRET", ""),
			AccessTTL:  accessTTL,
			RefreshTTL: refreshTTL,
		},
		Server: ServerConfig{
			Addr:         getEnv("RENTORA_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		SMTP: SMTPConfig{
			Host:     getEnv("RENTORA_SMTP_HOST", ""),
			Port:     smtpPort,
			Username: getEnv("RENTORA_SMTP_USER", ""),
			Password: getEnv("RENTORA_SMTP_PASSWORD", ""),
			From:     getEnv("RENTORA_SMTP_FROM", "no-reply@rentora.local"),
		},
		Gateway: GatewayConfig{
			BaseURL: getEnv("RENTORA_GATEWAY_URL", ""),
			APIKey:  getEnv("RENTORA_GATEWAY_API_KEY", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:        schedulerEnabled,
			ReminderSpec:   getEnv("RENTORA_SCHEDULER_REMINDER_SPEC", "0 9 * * *"),
			OverdueSpec:    getEnv("RENTORA_SCHEDULER_OVERDUE_SPEC", "30 0 * * *"),
			ExpirySpec:     getEnv("RENTORA_SCHEDULER_EXPIRY_SPEC", "0 10 * * *"),
			RentGenSpec:    getEnv("RENTORA_SCHEDULER_RENTGEN_SPEC", "0 1 1 * *"),
			ReminderWindow: reminderWindow,
			ExpiryWindow:   expiryWindow,
			RemindRepeat:   remindRepeat,
		},
		Currency: getEnv("RENTORA_CURRENCY", "USD"),
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("RENTORA_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("RENTORA_JWT_SECRET must be at least 32 characters")
	}

	if c.Database.SSLMode == "disable" {
		log.Warn().Msg("RENTORA_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("RENTORA_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("RENTORA_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("RENTORA_JWT_ACCESS_TTL must be positive, got %s", c.JWT.AccessTTL)
	}
	if c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("RENTORA_JWT_REFRESH_TTL must be positive, got %s", c.JWT.RefreshTTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("RENTORA_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("RENTORA_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.SMTP.Host != "" && (c.SMTP.Port < 1 || c.SMTP.Port > 65535) {
		return fmt.Errorf("RENTORA_SMTP_PORT must be 1-65535, got %d", c.SMTP.Port)
	}
	if c.Scheduler.ReminderWindow <= 0 {
		return fmt.Errorf("RENTORA_SCHEDULER_REMINDER_WINDOW must be positive, got %s", c.Scheduler.ReminderWindow)
	}
	if c.Scheduler.ExpiryWindow <= 0 {
		return fmt.Errorf("RENTORA_SCHEDULER_EXPIRY_WINDOW must be positive, got %s", c.Scheduler.ExpiryWindow)
	}
	if c.Currency == "" {
		return errors.New("RENTORA_CURRENCY must not be empty")
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
