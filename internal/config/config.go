package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	Extractor ExtractorConfig
	CORS      CORSConfig
	Email     EmailConfig
	Reminder  ReminderConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for uploaded invoice files.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExtractorConfig holds document extraction settings.
type ExtractorConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// ReminderConfig holds payment reminder digest settings.
type ReminderConfig struct {
	HorizonDays int `mapstructure:"horizon_days"`
}

// Load reads configuration from environment variables with the CONTIA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CONTIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "contia")
	v.SetDefault("db.password", "contia_secret")
	v.SetDefault("db.name", "contia_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "24h")
	v.SetDefault("jwt.issuer", "contia")

	// S3 defaults
	v.SetDefault("s3.region", "eu-west-1")
	v.SetDefault("s3.bucket", "contia-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Extractor defaults
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.base_url", "")
	v.SetDefault("extractor.model", "gpt-4o-mini")
	v.SetDefault("extractor.max_tokens", 500)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-west-1")
	v.SetDefault("email.from_address", "noreply@contia.app")
	v.SetDefault("email.from_name", "Contia")

	// Reminder defaults
	v.SetDefault("reminder.horizon_days", 7)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "CONTIA_SERVER_PORT",
		"server.read_timeout":   "CONTIA_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "CONTIA_SERVER_WRITE_TIMEOUT",
		"server.environment":    "CONTIA_SERVER_ENVIRONMENT",
		"db.host":               "CONTIA_DB_HOST",
		"db.port":               "CONTIA_DB_PORT",
		"db.user":               "CONTIA_DB_USER",
		"db.password":           "CONTIA_DB_PASSWORD",
		"db.name":               "CONTIA_DB_NAME",
		"db.sslmode":            "CONTIA_DB_SSLMODE",
		"db.max_open":           "CONTIA_DB_MAX_OPEN",
		"db.max_idle":           "CONTIA_DB_MAX_IDLE",
		"jwt.secret":            "CONTIA_JWT_SECRET",
		"jwt.access_expiry":     "CONTIA_JWT_ACCESS_EXPIRY",
		"jwt.issuer":            "CONTIA_JWT_ISSUER",
		"s3.region":             "CONTIA_S3_REGION",
		"s3.bucket":             "CONTIA_S3_BUCKET",
		"s3.endpoint":           "CONTIA_S3_ENDPOINT",
		"s3.access_key":         "CONTIA_S3_ACCESS_KEY",
		"s3.secret_key":         "CONTIA_S3_SECRET_KEY",
		"s3.max_file_size_mb":   "CONTIA_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":     "CONTIA_S3_PRESIGN_EXPIRY",
		"log.level":             "CONTIA_LOG_LEVEL",
		"log.format":            "CONTIA_LOG_FORMAT",
		"extractor.api_key":     "CONTIA_EXTRACTOR_API_KEY",
		"extractor.base_url":    "CONTIA_EXTRACTOR_BASE_URL",
		"extractor.model":       "CONTIA_EXTRACTOR_MODEL",
		"extractor.max_tokens":  "CONTIA_EXTRACTOR_MAX_TOKENS",
		"cors.allowed_origins":  "CONTIA_CORS_ALLOWED_ORIGINS",
		"email.provider":        "CONTIA_EMAIL_PROVIDER",
		"email.region":          "CONTIA_EMAIL_REGION",
		"email.from_address":    "CONTIA_EMAIL_FROM_ADDRESS",
		"email.from_name":       "CONTIA_EMAIL_FROM_NAME",
		"reminder.horizon_days": "CONTIA_REMINDER_HORIZON_DAYS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CONTIA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CONTIA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Extractor = ExtractorConfig{
		APIKey:    v.GetString("extractor.api_key"),
		BaseURL:   v.GetString("extractor.base_url"),
		Model:     v.GetString("extractor.model"),
		MaxTokens: v.GetInt("extractor.max_tokens"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Reminder = ReminderConfig{
		HorizonDays: v.GetInt("reminder.horizon_days"),
	}

	return cfg, nil
}
