package postgres

import (
	"context"
	"net/http"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"contacts-api/internal/domain/user"
	pkgerrors "contacts-api/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: would open its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func newUser(email string) *user.User {
	return &user.User{
		Email:             email,
		PasswordHash:      "$2a$10$hash",
		Subscription:      user.SubscriptionStarter,
		AvatarURL:         "//www.gravatar.com/avatar/abc",
		VerificationToken: "tok-" + email,
	}
}

func TestUserRepoPG_CreateAndGet(t *testing.T) {
	repo := NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
	ctx := context.Background()

	u := newUser("a@x.com")
	id, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.Equal(t, id, u.ID)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, user.SubscriptionStarter, got.Subscription)
	assert.False(t, got.Verify)
	assert.Equal(t, "tok-a@x.com", got.VerificationToken)
	assert.Empty(t, got.Token)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)

	byToken, err := repo.GetByVerificationToken(ctx, "tok-a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, byToken.ID)
}

func TestUserRepoPG_Create_DefaultSubscription(t *testing.T) {
	repo := NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
	ctx := context.Background()

	u := newUser("a@x.com")
	u.Subscription = ""
	id, err := repo.Create(ctx, u)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, user.SubscriptionStarter, got.Subscription)
}

func TestUserRepoPG_Create_DuplicateEmail(t *testing.T) {
	repo := NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("a@x.com"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, http.StatusConflict, pkgerrors.StatusOf(err))
}

func TestUserRepoPG_GetSessionToken(t *testing.T) {
	repo := NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)

	token, err := repo.GetSessionToken(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, repo.UpdateToken(ctx, id, "session-1"))
	token, err = repo.GetSessionToken(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "session-1", token)

	_, err = repo.GetSessionToken(ctx, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUserRepoPG_Missing(t *testing.T) {
	repo := NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.True(t, pkgerrors.IsNotFound(err))

	u, err := repo.GetByEmail(ctx, "ghost@x.com")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = repo.GetByVerificationToken(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, u)

	assert.True(t, pkgerrors.IsNotFound(repo.UpdateToken(ctx, "missing", "t")))
	assert.True(t, pkgerrors.IsNotFound(repo.UpdateAvatarURL(ctx, "missing", "avatars/x.png")))
}

func TestUserRepoPG_UpdateToken(t *testing.T) {
	repo := NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateToken(ctx, id, "session-1"))
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.Token)

	require.NoError(t, repo.UpdateToken(ctx, id, ""))
	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Token)
}

func TestUserRepoPG_MarkVerified_SingleUse(t *testing.T) {
	repo := NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, repo.MarkVerified(ctx, id, "tok-a@x.com"))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Verify)
	assert.Empty(t, got.VerificationToken)

	assert.True(t, pkgerrors.IsNotFound(repo.MarkVerified(ctx, id, "tok-a@x.com")))

	u, err := repo.GetByVerificationToken(ctx, "tok-a@x.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepoPG_MarkVerified_WrongToken(t *testing.T) {
	repo := NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)

	assert.True(t, pkgerrors.IsNotFound(repo.MarkVerified(ctx, id, "other")))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Verify)
}

func TestUserRepoPG_UpdateAvatarURL(t *testing.T) {
	repo := NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, newUser("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateAvatarURL(ctx, id, "avatars/"+id+"_me.png"))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "avatars/"+id+"_me.png", got.AvatarURL)
}
