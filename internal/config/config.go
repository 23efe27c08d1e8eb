package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/prasetyo/school-engine/internal/domain"
)

// Config holds all configuration for our application
type Config struct {
	Server      ServerConfig      `mapstructure:",squash"`
	Database    DatabaseConfig    `mapstructure:",squash"`
	Redis       RedisConfig       `mapstructure:",squash"`
	ObjectStore ObjectStoreConfig `mapstructure:",squash"`
	Auth        AuthConfig        `mapstructure:",squash"`
	Storage     StorageConfig     `mapstructure:",squash"`
	Scheduler   SchedulerConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type ObjectStoreConfig struct {
	Endpoint        string `mapstructure:"S3_ENDPOINT"`
	AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	Bucket          string `mapstructure:"S3_BUCKET"`
	UseSSL          bool   `mapstructure:"S3_USE_SSL"`
	Region          string `mapstructure:"S3_REGION"`
	Prefix          string `mapstructure:"S3_PREFIX"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTExpiry time.Duration `mapstructure:"JWT_EXPIRY"`
	Issuer    string        `mapstructure:"JWT_ISSUER"`
}

type StorageConfig struct {
	DefaultQuota int64 `mapstructure:"STORAGE_DEFAULT_QUOTA"`
	AdminQuota   int64 `mapstructure:"STORAGE_ADMIN_QUOTA"`
	MaxFileSize  int64 `mapstructure:"STORAGE_MAX_FILE_SIZE"`
}

type SchedulerConfig struct {
	OverdueCron  string `mapstructure:"SCHEDULER_OVERDUE_CRON"`
	ReminderCron string `mapstructure:"SCHEDULER_REMINDER_CRON"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	viper.SetDefault("DATABASE_HOST", "127.0.0.1")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_NAME", "school_engine")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("S3_ENDPOINT", "127.0.0.1:9000")
	viper.SetDefault("S3_BUCKET", "school-files")
	viper.SetDefault("S3_USE_SSL", false)
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_PREFIX", "uploads/")
	viper.SetDefault("JWT_EXPIRY", "24h")
	viper.SetDefault("JWT_ISSUER", "school-engine")
	viper.SetDefault("STORAGE_DEFAULT_QUOTA", int64(domain.DefaultStorageLimit))
	viper.SetDefault("STORAGE_ADMIN_QUOTA", int64(domain.DefaultAdminStorageLimit))
	viper.SetDefault("STORAGE_MAX_FILE_SIZE", 20971520) // 20MB
	viper.SetDefault("SCHEDULER_OVERDUE_CRON", "0 0 0 * * *")
	viper.SetDefault("SCHEDULER_REMINDER_CRON", "0 0 9 * * SUN")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	if c.Auth.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("JWT_SECRET is required in production")
	}

	if c.Storage.DefaultQuota <= 0 {
		return fmt.Errorf("STORAGE_DEFAULT_QUOTA must be greater than 0")
	}

	if c.Storage.AdminQuota <= 0 {
		return fmt.Errorf("STORAGE_ADMIN_QUOTA must be greater than 0")
	}

	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("STORAGE_MAX_FILE_SIZE must be greater than 0")
	}

	return nil
}

// DSN builds the postgres connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// JWTSecretOrDefault falls back to a development-only secret.
func (c *Config) JWTSecretOrDefault() string {
	if c.Auth.JWTSecret != "" {
		return c.Auth.JWTSecret
	}
	return "school-engine-dev-secret"
}
