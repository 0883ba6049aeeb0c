package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type StorageConfig struct {
	BucketURL      string
	PublicBaseURL  string
	UploadTokenTTL time.Duration
	MaxUploadBytes int64
	SignedUploads  bool
}

type JWTConfig struct {
	// Secret shared with the identity provider. Empty disables the admin check.
	Secret string
}

type RateLimitConfig struct {
	UploadRequests int
	UploadWindow   time.Duration
}

// DSN builds the pgx connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.Schema,
	)
}

// Addr returns host:port for the redis client
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsProduction reports whether the server runs with production settings
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("STORAGE_BUCKET_URL", "file:///var/lib/catalog/assets")
	viper.SetDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("STORAGE_UPLOAD_TOKEN_TTL", "1h")
	viper.SetDefault("STORAGE_MAX_UPLOAD_BYTES", 10<<20)
	viper.SetDefault("STORAGE_SIGNED_UPLOADS", false)
	viper.SetDefault("RATE_LIMIT_UPLOAD_REQUESTS", 30)
	viper.SetDefault("RATE_LIMIT_UPLOAD_WINDOW", "1m")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			LogLevel:       viper.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			BucketURL:      viper.GetString("STORAGE_BUCKET_URL"),
			PublicBaseURL:  strings.TrimRight(viper.GetString("STORAGE_PUBLIC_BASE_URL"), "/"),
			UploadTokenTTL: viper.GetDuration("STORAGE_UPLOAD_TOKEN_TTL"),
			MaxUploadBytes: viper.GetInt64("STORAGE_MAX_UPLOAD_BYTES"),
			SignedUploads:  viper.GetBool("STORAGE_SIGNED_UPLOADS"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			UploadRequests: viper.GetInt("RATE_LIMIT_UPLOAD_REQUESTS"),
			UploadWindow:   viper.GetDuration("RATE_LIMIT_UPLOAD_WINDOW"),
		},
	}
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
