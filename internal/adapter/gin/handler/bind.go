package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	pkgerrors "contacts-api/pkg/errors"
)

var errInvalidBody = pkgerrors.NewValidationError("body", "invalid request body")

// bindJSON decodes the request body into dst. An empty body leaves dst zeroed
// so that field validation in the usecase reports what is missing.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidBody
	}
	return nil
}
