package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "contacts-api/internal/domain/user"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func testUser() *domain.User {
	return &domain.User{
		ID:           "8f14e45f-ceea-467f-a0e6-0a5b1c2d3e4f",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$hash",
		Subscription: domain.SubscriptionPro,
		AvatarURL:    "avatars/me.png",
		Verify:       true,
		Token:        "session-token",
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestRedisUserCache_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	u := testUser()
	require.NoError(t, cache.Set(ctx, u))

	assert.True(t, mr.Exists("user:"+u.ID))
	assert.Equal(t, 5*time.Minute, mr.TTL("user:"+u.ID))

	got, err := cache.Get(ctx, u.ID)
	require.NoError(t, err)
	want := *u
	want.Token = ""
	assert.Equal(t, &want, got)
}

func TestRedisUserCache_DoesNotStoreSessionToken(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	u := testUser()
	require.NoError(t, cache.Set(context.Background(), u))

	raw, err := mr.Get("user:" + u.ID)
	require.NoError(t, err)
	assert.NotContains(t, raw, "session-token")
}

func TestRedisUserCache_Get_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	got, err := cache.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_Get_Expired(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	u := testUser()
	require.NoError(t, cache.Set(ctx, u))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, u.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_Get_CorruptedData(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	require.NoError(t, mr.Set("user:broken", "{not json"))

	got, err := cache.Get(context.Background(), "broken")
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_Set_NilUser(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	assert.Error(t, cache.Set(context.Background(), nil))
}

func TestRedisUserCache_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	u := testUser()
	require.NoError(t, cache.Set(ctx, u))
	require.NoError(t, cache.Delete(ctx, u.ID))

	assert.False(t, mr.Exists("user:"+u.ID))
	assert.NoError(t, cache.Delete(ctx, "never-cached"))
}

func TestRedisUserCache_ServerDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))
	mr.Close()

	_, err := cache.Get(context.Background(), "any")
	assert.Error(t, err)
	assert.Error(t, cache.Set(context.Background(), testUser()))
}
