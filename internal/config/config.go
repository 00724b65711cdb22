package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	DB      DatabaseConfig
	App     AppConfig
	Auth    AuthConfig
	Storage StorageConfig
	Redis   RedisConfig
	Mail    MailConfig
	Logger  LoggerConfig
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     string `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`

	MaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	ConnMaxIdleTime time.Duration `mapstructure:"DB_CONN_MAX_IDLE_TIME_MINUTES"`
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	Env             string        `mapstructure:"APP_ENV"`
	HTTPPort        string        `mapstructure:"HTTP_PORT"`
	BaseURL         string        `mapstructure:"BASE_URL"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// AuthConfig holds session token and password hashing settings
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL_HOURS"`
	JWTIssuer  string        `mapstructure:"JWT_ISSUER"`
	BcryptCost int           `mapstructure:"BCRYPT_COST"`
}

// StorageConfig holds upload and avatar locations
type StorageConfig struct {
	PublicDir      string `mapstructure:"PUBLIC_DIR"`
	TmpDir         string `mapstructure:"TMP_DIR"`
	AvatarSize     int    `mapstructure:"AVATAR_SIZE"`
	AvatarMaxPx    int    `mapstructure:"AVATAR_MAX_PIXELS"`
	UploadMaxBytes int64  `mapstructure:"UPLOAD_MAX_BYTES"`
}

// RedisConfig holds configuration for redis, used by the user cache and the mail queue
type RedisConfig struct {
	Host         string        `mapstructure:"REDIS_HOST"`
	Port         string        `mapstructure:"REDIS_PORT"`
	Password     string        `mapstructure:"REDIS_PASSWORD"`
	DB           int           `mapstructure:"REDIS_DB"`
	PoolSize     int           `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConns int           `mapstructure:"REDIS_MIN_IDLE_CONNS"`
	MaxRetries   int           `mapstructure:"REDIS_MAX_RETRIES"`
	CacheTTL     time.Duration `mapstructure:"CACHE_TTL_SECONDS"`
	CacheEnabled bool          `mapstructure:"CACHE_ENABLED"`
}

// MailConfig holds SMTP delivery settings for the worker
type MailConfig struct {
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	From         string `mapstructure:"MAIL_FROM"`
	MaxRetry     int    `mapstructure:"MAIL_MAX_RETRY"`
	Concurrency  int    `mapstructure:"MAIL_WORKER_CONCURRENCY"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	v.AutomaticEnv() // Read from environment variables

	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	config.DB.ConnMaxIdleTime = time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME_MINUTES")) * time.Minute

	config.App.Env = v.GetString("APP_ENV")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.BaseURL = strings.TrimRight(v.GetString("BASE_URL"), "/")
	config.App.ShutdownTimeout = time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second

	config.Auth.JWTSecret = v.GetString("JWT_SECRET")
	config.Auth.JWTTTL = time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour
	config.Auth.JWTIssuer = v.GetString("JWT_ISSUER")
	config.Auth.BcryptCost = v.GetInt("BCRYPT_COST")

	config.Storage.PublicDir = v.GetString("PUBLIC_DIR")
	config.Storage.TmpDir = v.GetString("TMP_DIR")
	config.Storage.AvatarSize = v.GetInt("AVATAR_SIZE")
	config.Storage.AvatarMaxPx = v.GetInt("AVATAR_MAX_PIXELS")
	config.Storage.UploadMaxBytes = v.GetInt64("UPLOAD_MAX_BYTES")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConns = v.GetInt("REDIS_MIN_IDLE_CONNS")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.CacheTTL = time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second
	config.Redis.CacheEnabled = v.GetBool("CACHE_ENABLED")

	config.Mail.SMTPHost = v.GetString("SMTP_HOST")
	config.Mail.SMTPPort = v.GetInt("SMTP_PORT")
	config.Mail.SMTPUser = v.GetString("SMTP_USER")
	config.Mail.SMTPPassword = v.GetString("SMTP_PASSWORD")
	config.Mail.From = v.GetString("MAIL_FROM")
	config.Mail.MaxRetry = v.GetInt("MAIL_MAX_RETRY")
	config.Mail.Concurrency = v.GetInt("MAIL_WORKER_CONCURRENCY")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "contacts")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME_MINUTES", 5)

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "3000")
	v.SetDefault("BASE_URL", "http://localhost:3000")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("JWT_TTL_HOURS", 23)
	v.SetDefault("JWT_ISSUER", "contacts-api")
	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("PUBLIC_DIR", "public")
	v.SetDefault("TMP_DIR", "tmp")
	v.SetDefault("AVATAR_SIZE", 250)
	v.SetDefault("AVATAR_MAX_PIXELS", 4096*4096)
	v.SetDefault("UPLOAD_MAX_BYTES", 250*250*5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("CACHE_TTL_SECONDS", 300)
	v.SetDefault("CACHE_ENABLED", true)

	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM", "no-reply@contacts.local")
	v.SetDefault("MAIL_MAX_RETRY", 5)
	v.SetDefault("MAIL_WORKER_CONCURRENCY", 5)

	// Logger defaults
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "contacts-api")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var problems []string

	if c.Auth.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.Auth.JWTTTL <= 0 {
		problems = append(problems, "JWT_TTL_HOURS must be positive")
	}
	if err := validatePort("HTTP_PORT", c.App.HTTPPort); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Storage.AvatarSize <= 0 {
		problems = append(problems, "AVATAR_SIZE must be positive")
	}
	if c.Storage.AvatarMaxPx <= 0 {
		problems = append(problems, "AVATAR_MAX_PIXELS must be positive")
	}
	if c.Storage.UploadMaxBytes <= 0 {
		problems = append(problems, "UPLOAD_MAX_BYTES must be positive")
	}
	if c.Storage.PublicDir == "" || c.Storage.TmpDir == "" {
		problems = append(problems, "PUBLIC_DIR and TMP_DIR are required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func validatePort(name, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%s must be a port number, got %q", name, value)
	}
	return nil
}

// DSN returns the PostgreSQL Data Source Name
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}
