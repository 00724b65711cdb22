package di

import (
	"fmt"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contacts-api/cmd/api/infrastructure"
	"contacts-api/internal/adapter/cache"
	"contacts-api/internal/adapter/db/postgres"
	"contacts-api/internal/adapter/gin/handler"
	"contacts-api/internal/adapter/queue"
	"contacts-api/internal/adapter/repository/cached"
	"contacts-api/internal/adapter/storage"
	"contacts-api/internal/config"
	"contacts-api/internal/usecase/auth"
	"contacts-api/internal/usecase/contact"
	"contacts-api/pkg/gravatar"
	"contacts-api/pkg/imageproc"
	"contacts-api/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	DB             *gorm.DB
	RedisClient    *redis.Client
	QueueClient    *asynq.Client
	AuthUC         *auth.Service
	ContactUC      *contact.Service
	AuthHandler    *handler.AuthHandler
	ContactHandler *handler.ContactHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (_ *Container, err error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	c.DB, err = infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// The cache is optional; a nil UserCache turns the cached repository into a pass-through
	var userCache cache.UserCache
	if cfg.Redis.CacheEnabled {
		c.RedisClient, err = infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		userCache = cache.NewRedisUserCache(c.RedisClient, cfg.Redis.CacheTTL, l)
	} else {
		l.Info("user cache disabled")
	}

	c.QueueClient = infrastructure.NewQueueClient(cfg)

	if err := os.MkdirAll(cfg.Storage.TmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	avatars, err := storage.NewLocalAvatarStore(cfg.Storage.PublicDir, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize avatar storage: %w", err)
	}

	tokens, err := security.NewTokenIssuer(security.TokenConfig{
		Secret: []byte(cfg.Auth.JWTSecret),
		TTL:    cfg.Auth.JWTTTL,
		Issuer: cfg.Auth.JWTIssuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	userRepo := cached.NewCachedUserRepository(postgres.NewUserRepoPG(c.DB, l), userCache, l)
	contactRepo := postgres.NewContactRepoPG(c.DB, l)

	c.AuthUC = auth.New(userRepo, auth.Dependencies{
		Hasher:        security.NewPasswordHasher(cfg.Auth.BcryptCost),
		Tokens:        tokens,
		Generator:     security.NewVerificationTokenGenerator(),
		Dispatcher:    queue.NewMailDispatcher(c.QueueClient, cfg.Mail.MaxRetry, l),
		Normalizer:    imageproc.NewAvatarNormalizer(cfg.Storage.AvatarSize).WithMaxPixels(cfg.Storage.AvatarMaxPx),
		Avatars:       avatars,
		DefaultAvatar: gravatar.URL,
	}, auth.Settings{BaseURL: cfg.App.BaseURL}, l)
	c.ContactUC = contact.New(contactRepo, l)

	c.AuthHandler = handler.NewAuthHandler(c.AuthUC, l)
	c.ContactHandler = handler.NewContactHandler(c.ContactUC, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close queue client: %w", err))
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
