package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLogLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLogLevel("unknown"))
}

func TestNewWithConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := NewWithConfig(Config{
		Level:          "info",
		Format:         "json",
		OutputPath:     path,
		ServiceName:    "contacts-api",
		ServiceVersion: "test",
		Environment:    "test",
	})
	require.NoError(t, err)

	l.Info("hello")
	_ = l.Sync()

	assert.FileExists(t, path)
}

func TestWithContext_AddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "user-1")
	WithContext(ctx, base).Info("signed in")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-1", fields["user_id"])
}

func TestWithContext_NoFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	WithContext(context.Background(), base).Info("plain")

	require.Equal(t, 1, logs.Len())
	assert.Empty(t, logs.All()[0].Context)
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetUserID(context.Background()))
}

func TestRequestID_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("generates", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("reuses incoming header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), 0.1, "warn")

	begin := time.Now()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), begin, sql, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len())

	gl.Trace(context.Background(), begin.Add(-time.Second), sql, nil)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "gorm slow query", logs.All()[0].Message)

	gl.Trace(context.Background(), begin, sql, assert.AnError)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "gorm query error", logs.All()[1].Message)

	gl.Trace(context.Background(), begin, sql, gorm.ErrDuplicatedKey)
	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "gorm unique violation", logs.All()[2].Message)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[2].Level)

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), begin, sql, assert.AnError)
	assert.Equal(t, 3, logs.Len())
}

func TestGormLogger_HidesBoundValues(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), 0, "info")

	sql, vars := gl.ParamsFilter(context.Background(), "INSERT INTO users (email,password_hash) VALUES ($1,$2)", "a@x.com", "$2a$10$hash")

	assert.Equal(t, "INSERT INTO users (email,password_hash) VALUES ($1,$2)", sql)
	assert.Empty(t, vars)
}

func TestNewGormLogger_Levels(t *testing.T) {
	assert.Equal(t, gormlogger.Info, NewGormLogger(zap.NewNop(), 0, "debug").LogLevel)
	assert.Equal(t, gormlogger.Silent, NewGormLogger(zap.NewNop(), 0, "silent").LogLevel)
	assert.Equal(t, gormlogger.Warn, NewGormLogger(zap.NewNop(), 0, "verbose").LogLevel)
	assert.Equal(t, 1500*time.Millisecond, NewGormLogger(zap.NewNop(), 1.5, "warn").SlowThreshold)
}
