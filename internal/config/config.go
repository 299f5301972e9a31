package config

import (
	"fmt"
	"strings"
	"time"

	"oneshot-backend/internal/shared/utils"

	"github.com/robfig/cron/v3"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration, populated from
// environment variables (after godotenv has loaded .env).
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Paths    PathsConfig
	Image    ImageConfig
	QR       QRConfig
	Upload   UploadConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name          string
	Environment   string // development, test, production
	Port          string
	Version       string
	FrontendURL   string
	StorageDriver string // memory, postgres
}

// IsProduction hides diagnostic detail in error responses.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN is the lib/pq connection string used by cmd/migrate.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type MinIOConfig struct {
	Enabled   bool
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

type SMTPConfig struct {
	Host             string
	Port             int
	Username         string
	Password         string
	From             string
	ContactRecipient string
}

type PathsConfig struct {
	ProfilesDir  string
	UploadDir    string
	TemplatePath string
}

type ImageConfig struct {
	ThumbnailSize int
	MobileWidth   int
	DesktopWidth  int
	Quality       int
	MaxConcurrent int64
	MaxPixels     int64
}

type QRConfig struct {
	WidthPx       int
	MarginModules int
	Dark          string
	Light         string
}

type UploadConfig struct {
	MaxPhotoBytes      int64
	MaxTranscriptBytes int64
	AsyncProcessing    bool
	BackupRetention    time.Duration
}

type WorkerConfig struct {
	Concurrency   int
	SweepCronSpec string
	HealthPort    string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:          utils.GetEnvVariable("APP_NAME", "OneShot API"),
			Environment:   utils.GetEnvVariable("APP_ENV", "development"),
			Port:          utils.GetEnvVariable("PORT", "5001"),
			Version:       utils.GetEnvVariable("APP_VERSION", "1.0.0"),
			FrontendURL:   strings.TrimRight(utils.GetEnvVariable("FRONTEND_URL", "http://localhost:3000"), "/"),
			StorageDriver: utils.GetEnvVariable("STORAGE_DRIVER", "memory"),
		},
		Database: DatabaseConfig{
			Host:     utils.GetEnvVariable("DB_HOST", "localhost"),
			Port:     utils.GetEnvInt("DB_PORT", 5432),
			User:     utils.GetEnvVariable("DB_USER", "oneshot"),
			Password: utils.GetEnvVariable("DB_PASSWORD", ""),
			Database: utils.GetEnvVariable("DB_NAME", "oneshot"),
			SSLMode:  utils.GetEnvVariable("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
			Password: utils.GetEnvVariable("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
			CacheTTL: utils.GetEnvDuration("REDIS_CACHE_TTL", 5*time.Minute),
		},
		MinIO: MinIOConfig{
			Enabled:   utils.GetEnvBool("MINIO_ENABLED", false),
			Endpoint:  utils.GetEnvVariable("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: utils.GetEnvVariable("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: utils.GetEnvVariable("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    utils.GetEnvVariable("MINIO_BUCKET", "oneshot-uploads"),
			UseSSL:    utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		JWT: JWTConfig{
			Secret:             utils.GetEnvVariable("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry:  utils.GetEnvInt("JWT_ACCESS_EXPIRY", 15),
			RefreshTokenExpiry: utils.GetEnvInt("JWT_REFRESH_EXPIRY", 72),
		},
		SMTP: SMTPConfig{
			Host:             utils.GetEnvVariable("SMTP_HOST", "localhost"),
			Port:             utils.GetEnvInt("SMTP_PORT", 1025),
			Username:         utils.GetEnvVariable("SMTP_USER", ""),
			Password:         utils.GetEnvVariable("SMTP_PASS", ""),
			From:             utils.GetEnvVariable("SMTP_FROM", "noreply@oneshot.local"),
			ContactRecipient: utils.GetEnvVariable("CONTACT_EMAIL_RECIPIENT", ""),
		},
		Paths: PathsConfig{
			ProfilesDir:  utils.GetEnvVariable("PROFILES_DIR", "public/profiles"),
			UploadDir:    utils.GetEnvVariable("UPLOAD_DIR", "public/uploads"),
			TemplatePath: utils.GetEnvVariable("PROFILE_TEMPLATE", "templates/profile-template.html"),
		},
		Image: ImageConfig{
			ThumbnailSize: utils.GetEnvInt("IMAGE_THUMBNAIL_SIZE", 150),
			MobileWidth:   utils.GetEnvInt("IMAGE_MOBILE_WIDTH", 800),
			DesktopWidth:  utils.GetEnvInt("IMAGE_DESKTOP_WIDTH", 1200),
			Quality:       utils.GetEnvInt("IMAGE_QUALITY", 85),
			MaxConcurrent: utils.GetEnvInt64("IMAGE_MAX_CONCURRENT", 2),
			MaxPixels:     utils.GetEnvInt64("IMAGE_MAX_PIXELS", 50_000_000),
		},
		QR: QRConfig{
			WidthPx:       utils.GetEnvInt("QR_WIDTH", 200),
			MarginModules: utils.GetEnvInt("QR_MARGIN", 2),
			Dark:          utils.GetEnvVariable("QR_DARK", "#2c3e50"),
			Light:         utils.GetEnvVariable("QR_LIGHT", "#ffffff"),
		},
		Upload: UploadConfig{
			MaxPhotoBytes:      utils.GetEnvInt64("UPLOAD_MAX_PHOTO_BYTES", 5*1024*1024),
			MaxTranscriptBytes: utils.GetEnvInt64("UPLOAD_MAX_TRANSCRIPT_BYTES", 10*1024*1024),
			AsyncProcessing:    utils.GetEnvBool("UPLOAD_ASYNC_PROCESSING", false),
			BackupRetention:    utils.GetEnvDuration("UPLOAD_BACKUP_RETENTION", 7*24*time.Hour),
		},
		Worker: WorkerConfig{
			Concurrency:   utils.GetEnvInt("WORKER_CONCURRENCY", 10),
			SweepCronSpec: utils.GetEnvVariable("WORKER_SWEEP_CRON", "0 3 * * *"),
			HealthPort:    utils.GetEnvVariable("WORKER_HEALTH_PORT", "9999"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks invariants the rest of the service relies on
func (c *Config) Validate() error {
	if c.App.StorageDriver != "memory" && c.App.StorageDriver != "postgres" {
		return fmt.Errorf("STORAGE_DRIVER must be memory or postgres, got %q", c.App.StorageDriver)
	}

	if c.Image.ThumbnailSize <= 0 {
		return fmt.Errorf("IMAGE_THUMBNAIL_SIZE must be positive")
	}
	if c.Image.MobileWidth <= 0 || c.Image.MobileWidth >= c.Image.DesktopWidth {
		return fmt.Errorf("IMAGE_MOBILE_WIDTH must be positive and below IMAGE_DESKTOP_WIDTH")
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		return fmt.Errorf("IMAGE_QUALITY must be within 1..100")
	}
	if c.Image.MaxPixels <= 0 {
		return fmt.Errorf("IMAGE_MAX_PIXELS must be positive")
	}
	if c.QR.WidthPx <= 0 || c.QR.MarginModules < 0 {
		return fmt.Errorf("QR_WIDTH must be positive and QR_MARGIN not negative")
	}

	if _, err := cron.ParseStandard(c.Worker.SweepCronSpec); err != nil {
		return fmt.Errorf("WORKER_SWEEP_CRON is not a valid cron expression: %w", err)
	}

	// Production must not run on development secrets
	if c.App.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.App.StorageDriver == "postgres" && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}
