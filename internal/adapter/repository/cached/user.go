package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"contacts-api/internal/adapter/cache"
	domain "contacts-api/internal/domain/user"
	"contacts-api/internal/usecase/auth"
)

// CachedUserRepository implements auth.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
// Only lookups by id are cached; every mutation invalidates the entry.
// Cached users carry no session token.
type CachedUserRepository struct {
	dbRepo auth.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

var _ auth.Repository = (*CachedUserRepository)(nil)

// NewCachedUserRepository creates a new instance of CachedUserRepository.
// A nil cache disables caching.
func NewCachedUserRepository(dbRepo auth.Repository, cache cache.UserCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) (string, error) {
	return r.dbRepo.Create(ctx, u)
}

// GetByID retrieves a user by ID using Cache-Aside pattern.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	// Try to get from cache first
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
		} else if cachedUser != nil {
			r.log.Debug("user retrieved from cache", zap.String("id", id))
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	result, err, _ := r.group.Do("user:"+id, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				r.log.Debug("user retrieved from cache after single-flight wait", zap.String("id", id))
				return cachedUser, nil
			}
		}

		// Only one request hits database
		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		// Store in cache for future requests
		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("id", id), zap.Error(err))
			}
		}

		return u, nil
	})

	if err != nil {
		return nil, err
	}

	// Callers sharing a flight must not share the pointer
	u := *result.(*domain.User)
	return &u, nil
}

// GetSessionToken always reads the DB. A GetByID that raced a signout may
// repopulate the cache, so the token must not come from there.
func (r *CachedUserRepository) GetSessionToken(ctx context.Context, id string) (string, error) {
	return r.dbRepo.GetSessionToken(ctx, id)
}

// GetByEmail delegates to the DB repository.
func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.GetByEmail(ctx, email)
}

// GetByVerificationToken delegates to the DB repository.
func (r *CachedUserRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.dbRepo.GetByVerificationToken(ctx, token)
}

// UpdateToken updates the session token in DB and invalidates the cache.
func (r *CachedUserRepository) UpdateToken(ctx context.Context, id, token string) error {
	if err := r.dbRepo.UpdateToken(ctx, id, token); err != nil {
		return err
	}
	r.invalidate(ctx, id, "update token")
	return nil
}

// MarkVerified marks the user verified in DB and invalidates the cache.
func (r *CachedUserRepository) MarkVerified(ctx context.Context, id, verificationToken string) error {
	if err := r.dbRepo.MarkVerified(ctx, id, verificationToken); err != nil {
		return err
	}
	r.invalidate(ctx, id, "verify")
	return nil
}

// UpdateAvatarURL updates the avatar in DB and invalidates the cache.
func (r *CachedUserRepository) UpdateAvatarURL(ctx context.Context, id, avatarURL string) error {
	if err := r.dbRepo.UpdateAvatarURL(ctx, id, avatarURL); err != nil {
		return err
	}
	r.invalidate(ctx, id, "update avatar")
	return nil
}

func (r *CachedUserRepository) invalidate(ctx context.Context, id, op string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.String("op", op), zap.String("id", id), zap.Error(err))
	}
}
