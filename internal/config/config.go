package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string `env:"LISTEN_ADDR"`
	Port          string `env:"PORT" envDefault:"8080"`
	GinMode       string `env:"GIN_MODE" envDefault:"release"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"portfolio-dev-secret"`
	SiteBaseURL   string `env:"SITE_BASE_URL" envDefault:"http://localhost:8080"`

	// DatabaseDriver 取值 sqlite 或 mysql
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"portfolio.db"`
	DatabaseDSN    string `env:"DATABASE_DSN"`

	// UploadBackend 取值 local 或 s3
	UploadBackend  string `env:"UPLOAD_BACKEND" envDefault:"local"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"web/static/uploads"`
	UploadURLPath  string `env:"UPLOAD_URL_PATH" envDefault:"/uploads"`
	MaxImageWidth  int    `env:"MAX_IMAGE_WIDTH" envDefault:"2400"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3PublicURL    string `env:"S3_PUBLIC_URL"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`

	RedisURL    string        `env:"REDIS_URL"`
	CachePrefix string        `env:"CACHE_PREFIX" envDefault:"portfolio:"`
	CacheTTL    time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// LoginRate 为每个 IP 每分钟允许的登录尝试次数
	LoginRate  int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
	LoginBurst int `env:"LOGIN_BURST" envDefault:"5"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load 从 .env 与环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = "8080"
	}
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.ListenAddr == "" {
		c.ListenAddr = ":" + c.Port
	}
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	c.UploadBackend = strings.ToLower(strings.TrimSpace(c.UploadBackend))
	c.UploadURLPath = "/" + strings.Trim(strings.TrimSpace(c.UploadURLPath), "/")
	c.S3PublicURL = strings.TrimRight(strings.TrimSpace(c.S3PublicURL), "/")
	c.AdminEmail = strings.TrimSpace(c.AdminEmail)
	c.AdminPassword = strings.TrimSpace(c.AdminPassword)
}

// Validate 检查互相依赖的配置项。
func (c AppConfig) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite":
	case "mysql":
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required for mysql")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	switch c.UploadBackend {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 upload backend")
		}
		if c.S3PublicURL == "" {
			return errors.New("S3_PUBLIC_URL is required for the s3 upload backend")
		}
	default:
		return fmt.Errorf("unsupported UPLOAD_BACKEND %q", c.UploadBackend)
	}

	if c.MaxImageWidth < 0 {
		return errors.New("MAX_IMAGE_WIDTH must not be negative")
	}
	return nil
}

// DatabaseTarget 返回当前驱动对应的连接串。
func (c AppConfig) DatabaseTarget() string {
	if c.DatabaseDriver == "mysql" {
		return c.DatabaseDSN
	}
	return c.DatabasePath
}

// UseRedisCache reports whether a redis cache is configured.
func (c AppConfig) UseRedisCache() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

// SlogLevel 将 LOG_LEVEL 映射为 slog 级别，未知值回退到 info。
func (c AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger 根据配置构造结构化日志器。
func (c AppConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
