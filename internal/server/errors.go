package server

import (
	"errors"
	"net/http"

	"github.com/acrobase/backend/internal/catalog"
	"github.com/acrobase/backend/internal/users"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps the core error taxonomy onto HTTP status codes:
// not-found 404, bad-request 400, conflict 409, authentication 401, and
// everything else 500 with the service error code when one is present.
func (h *httpHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, users.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, catalog.ErrBadRequest), errors.Is(err, users.ErrInvalidRegistration):
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
	case errors.Is(err, catalog.ErrConflict), errors.Is(err, users.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		var serviceErr *catalog.ServiceError
		if errors.As(err, &serviceErr) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "code": serviceErr.Code()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}
