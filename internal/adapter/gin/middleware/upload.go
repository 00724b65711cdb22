package middleware

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/adapter/gin/response"
	pkgerrors "contacts-api/pkg/errors"
)

const (
	uploadKey = "upload"
	// multipartOverhead is the body allowance for boundaries, part headers and
	// other form fields on top of UploadConfig.MaxBytes.
	multipartOverhead = 64 << 10
)

// Upload describes a file received by SingleFile.
type Upload struct {
	Path     string // Path is the location in the temp dir
	Filename string // Filename is the generated name, <unix-millis>_<random>_<original>
}

// UploadConfig configures SingleFile.
type UploadConfig struct {
	Field    string
	Dir      string
	MaxBytes int64
	Now      func() time.Time
}

// SingleFile stores the multipart file of cfg.Field in cfg.Dir under a
// collision-resistant name. The request body is capped near cfg.MaxBytes
// before it is parsed. A request without the field passes through with no
// Upload so the handler can decide how to report it.
func SingleFile(cfg UploadConfig, log *zap.Logger) gin.HandlerFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	tooLarge := func(c *gin.Context) {
		response.Error(c, log, pkgerrors.NewValidationError(cfg.Field,
			fmt.Sprintf("%s must be at most %d bytes", cfg.Field, cfg.MaxBytes)))
	}

	return func(c *gin.Context) {
		if cfg.MaxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxBytes+multipartOverhead)
		}

		header, err := c.FormFile(cfg.Field)
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				log.Warn("upload body over limit", zap.String("field", cfg.Field), zap.Int64("limit", mbe.Limit))
				tooLarge(c)
				return
			}
			if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
				log.Debug("no upload in request", zap.String("field", cfg.Field), zap.Error(err))
			}
			c.Next()
			return
		}

		if cfg.MaxBytes > 0 && header.Size > cfg.MaxBytes {
			tooLarge(c)
			return
		}

		name := fmt.Sprintf("%d_%d_%s", cfg.Now().UnixMilli(), rand.Int64N(1e9), filepath.Base(header.Filename))
		dst := filepath.Join(cfg.Dir, name)
		if err := c.SaveUploadedFile(header, dst); err != nil {
			response.Error(c, log, pkgerrors.NewInternalError("failed to store upload", err))
			return
		}

		c.Set(uploadKey, &Upload{Path: dst, Filename: name})
		c.Next()
	}
}

// UploadedFile returns the file stored by SingleFile, or nil.
func UploadedFile(c *gin.Context) *Upload {
	v, ok := c.Get(uploadKey)
	if !ok {
		return nil
	}
	u, _ := v.(*Upload)
	return u
}
