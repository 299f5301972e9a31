package container

import (
	"context"
	"fmt"
	"time"

	"oneshot-backend/internal/config"
	infraCache "oneshot-backend/internal/infrastructure/cache"
	"oneshot-backend/internal/infrastructure/database"
	"oneshot-backend/internal/infrastructure/email"
	"oneshot-backend/internal/infrastructure/qrcode"
	"oneshot-backend/internal/infrastructure/queue"
	"oneshot-backend/internal/infrastructure/storage"
	"oneshot-backend/pkg/cache"
	"oneshot-backend/pkg/jwt"
	"oneshot-backend/pkg/keylock"
	"oneshot-backend/pkg/metrics"

	contactHandler "oneshot-backend/internal/domains/contact/handler"
	contactService "oneshot-backend/internal/domains/contact/service"
	profileHandler "oneshot-backend/internal/domains/profile/handler"
	"oneshot-backend/internal/domains/profile/render"
	profileRepo "oneshot-backend/internal/domains/profile/repository"
	profileService "oneshot-backend/internal/domains/profile/service"
	uploadHandler "oneshot-backend/internal/domains/upload/handler"
	uploadModel "oneshot-backend/internal/domains/upload/model"
	uploadService "oneshot-backend/internal/domains/upload/service"
	userHandler "oneshot-backend/internal/domains/user/handler"
	userRepo "oneshot-backend/internal/domains/user/repository"
	userService "oneshot-backend/internal/domains/user/service"
	vcardHandler "oneshot-backend/internal/domains/vcard/handler"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Container holds every long-lived dependency of the API and the worker.
// Optional infrastructure (Postgres, Redis, MinIO) is nil when disabled or unreachable.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	AsynqClient *asynq.Client
	Mirror      *storage.MinIOStorage
	Metrics     *metrics.Manager
	Locks       *keylock.KeyLock
	JWTManager  *jwt.Manager
	Renderer    *render.Renderer
	Templates   *render.TemplateStore
	QR          *qrcode.Encoder
	Local       *storage.LocalStorage

	// Repositories
	ProfileRepo profileRepo.Repository
	UserRepo    userRepo.Repository

	// Services
	ProfileService profileService.ServiceInterface
	UploadService  uploadService.ServiceInterface
	ContactService contactService.ServiceInterface
	AuthService    userService.ServiceInterface

	// Handlers
	ProfileHandler *profileHandler.Handler
	VCardHandler   *vcardHandler.Handler
	UploadHandler  *uploadHandler.Handler
	ContactHandler *contactHandler.Handler
	AuthHandler    *userHandler.Handler
}

// NewContainer builds the dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return Build(cfg)
}

// Build wires a container from an already loaded config.
func Build(cfg *config.Config) (*Container, error) {
	log.Info().
		Str("env", cfg.App.Environment).
		Str("storage", cfg.App.StorageDriver).
		Msg("Initializing container")

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}
	if err := c.initRepositories(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	c.initServices()
	c.initHandlers()

	log.Info().Msg("Container initialized")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	c.Metrics = metrics.NewManager()
	c.Locks = keylock.New()
	c.QR = qrcode.NewEncoder(c.Metrics)
	c.Local = storage.NewLocalStorage(cfg.Paths.UploadDir)
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	c.Renderer = render.NewRenderer()
	c.Templates = render.NewTemplateStore(cfg.Paths.TemplatePath, c.Renderer)
	if err := c.Templates.Watch(); err != nil {
		// pages still render; the template is just read on every call
		log.Warn().Err(err).Str("template", cfg.Paths.TemplatePath).Msg("Template watcher unavailable")
	}

	if cfg.App.StorageDriver == "postgres" {
		dbConfig, err := config.LoadDatabaseConfig(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}
		db := database.NewPostgresDB(dbConfig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db
	}

	// Redis backs the cache and the task queue; without it both degrade
	// to inline behaviour
	redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache and queue")
		_ = redisClient.Close()
	} else {
		c.Redis = redisClient
		c.AsynqClient = queue.NewClient(queue.RedisOpt(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB))
	}

	if cfg.MinIO.Enabled {
		mctx, mcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer mcancel()
		mirror, err := storage.NewMinIOStorage(mctx, cfg.MinIO)
		if err != nil {
			log.Warn().Err(err).Str("endpoint", cfg.MinIO.Endpoint).Msg("MinIO unavailable, uploads stay local")
		} else {
			c.Mirror = mirror
		}
	}

	return nil
}

func (c *Container) initRepositories() error {
	if c.DB == nil {
		c.ProfileRepo = profileRepo.NewMemoryRepository(profileRepo.SeedProfiles()...)
		c.UserRepo = userRepo.NewMemoryRepository()
		return nil
	}

	var profileCache cache.Cache
	if c.Redis != nil {
		profileCache = c.Redis
	}
	c.ProfileRepo = profileRepo.NewPostgresRepository(c.DB.Pool, profileCache, c.Config.Redis.CacheTTL)
	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)
	return nil
}

func (c *Container) initServices() {
	cfg := c.Config
	q := c.Enqueuer()

	var mirror storage.Mirror
	if c.Mirror != nil {
		mirror = c.Mirror
	}

	qrOptions := qrcode.ProfileOptions()
	qrOptions.WidthPx = cfg.QR.WidthPx
	qrOptions.MarginModules = cfg.QR.MarginModules
	qrOptions.Dark = cfg.QR.Dark
	qrOptions.Light = cfg.QR.Light

	generator := profileService.NewGenerator(
		profileService.GeneratorConfig{ProfilesDir: cfg.Paths.ProfilesDir, QROptions: qrOptions},
		c.Templates,
		c.Renderer,
		c.QR,
		c.Locks,
		c.Metrics,
	)
	c.ProfileService = profileService.NewProfileService(c.ProfileRepo, generator, c.QR, q, cfg.App.FrontendURL)

	imageConfig := storage.ImageConfig{
		ThumbnailSize: cfg.Image.ThumbnailSize,
		MobileWidth:   cfg.Image.MobileWidth,
		DesktopWidth:  cfg.Image.DesktopWidth,
		Quality:       float32(cfg.Image.Quality),
		MaxPixels:     cfg.Image.MaxPixels,
	}
	limits := uploadModel.DefaultLimits()
	limits.MaxPhotoBytes = cfg.Upload.MaxPhotoBytes
	limits.MaxTranscriptBytes = cfg.Upload.MaxTranscriptBytes

	c.UploadService = uploadService.NewUploadService(
		uploadService.Config{
			Limits:          limits,
			AsyncProcessing: cfg.Upload.AsyncProcessing,
			BackupRetention: cfg.Upload.BackupRetention,
		},
		c.Local,
		storage.NewImageProcessor(imageConfig, cfg.Image.MaxConcurrent, c.Metrics),
		c.ProfileRepo,
		mirror,
		q,
		c.Locks,
		c.Metrics,
	)

	c.ContactService = contactService.NewContactService(email.NewSMTPSender(cfg.SMTP), q, cfg.SMTP.ContactRecipient)
	c.AuthService = userService.NewAuthService(c.UserRepo, c.JWTManager, userService.DefaultBcryptCost)
}

func (c *Container) initHandlers() {
	c.ProfileHandler = profileHandler.NewHandler(c.ProfileService)
	c.VCardHandler = vcardHandler.NewHandler(c.ProfileRepo, c.Metrics)
	c.UploadHandler = uploadHandler.NewHandler(c.UploadService)
	c.ContactHandler = contactHandler.NewHandler(c.ContactService)
	c.AuthHandler = userHandler.NewHandler(
		c.AuthService,
		time.Duration(c.Config.JWT.RefreshTokenExpiry)*time.Hour,
		c.Config.App.IsProduction(),
	)
}

// Enqueuer returns the task client, or a nil interface when Redis is down.
func (c *Container) Enqueuer() queue.Enqueuer {
	if c.AsynqClient == nil {
		return nil
	}
	return c.AsynqClient
}

// Cleanup releases connections and watchers. Safe on a partially built container.
func (c *Container) Cleanup() {
	if c.Templates != nil {
		if err := c.Templates.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop template watcher")
		}
	}
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close task client")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Info().Msg("Container cleanup completed")
}
