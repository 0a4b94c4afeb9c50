package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Storage      StorageConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	MagicLink    MagicLinkConfig
	CORS         CORSConfig
	Logging      LoggingConfig
	GeminiAPIKey string
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StorageConfig selects the backing store. "memory" keeps everything in
// process and needs neither Postgres nor Redis.
type StorageConfig struct {
	Type                   string
	SessionCleanupInterval time.Duration
}

func (c *StorageConfig) InMemory() bool {
	return c.Type == StorageMemory
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// MagicLinkConfig controls passwordless sign-in links.
type MagicLinkConfig struct {
	BaseURL string
	TTL     time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0, // SSE streams outlive any fixed write deadline
		},
		Storage: StorageConfig{
			Type:                   strings.ToLower(v.GetString("STORAGE_TYPE")),
			SessionCleanupInterval: time.Duration(v.GetInt("SESSION_CLEANUP_INTERVAL_MIN")) * time.Minute,
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			DBName:       v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		MagicLink: MagicLinkConfig{
			BaseURL: strings.TrimRight(v.GetString("MAGIC_LINK_BASE_URL"), "/"),
			TTL:     time.Duration(v.GetInt("MAGIC_LINK_TTL_MIN")) * time.Minute,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE_TYPE", StoragePostgres)
	v.SetDefault("SESSION_CLEANUP_INTERVAL_MIN", 60)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("JWT_EXPIRY_HOURS", 24*7)
	v.SetDefault("MAGIC_LINK_BASE_URL", "http://localhost:3000")
	v.SetDefault("MAGIC_LINK_TTL_MIN", 15)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validation.ValidateStruct(&c.Storage,
		validation.Field(&c.Storage.Type, validation.Required, validation.In(StoragePostgres, StorageMemory)),
		validation.Field(&c.Storage.SessionCleanupInterval, validation.Required, validation.Min(time.Minute)),
	); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if c.Storage.InMemory() {
		return c.validateCommon()
	}
	if err := validation.ValidateStruct(&c.Database,
		validation.Field(&c.Database.Host, validation.Required),
		validation.Field(&c.Database.User, validation.Required),
		validation.Field(&c.Database.DBName, validation.Required),
		validation.Field(&c.Database.SSLMode, validation.In("disable", "require", "verify-ca", "verify-full")),
	); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := validation.ValidateStruct(&c.Redis,
		validation.Field(&c.Redis.Host, validation.Required),
		validation.Field(&c.Redis.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return c.validateCommon()
}

func (c *Config) validateCommon() error {
	if err := validation.ValidateStruct(&c.JWT,
		validation.Field(&c.JWT.Secret, validation.Required, validation.Length(32, 0)),
		validation.Field(&c.JWT.ExpiryHours, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("jwt: %w", err)
	}
	if err := validation.ValidateStruct(&c.MagicLink,
		validation.Field(&c.MagicLink.BaseURL, validation.Required),
		validation.Field(&c.MagicLink.TTL, validation.Required, validation.Min(time.Minute)),
	); err != nil {
		return fmt.Errorf("magic link: %w", err)
	}
	if err := validation.ValidateStruct(&c.Logging,
		validation.Field(&c.Logging.Level, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
