package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secretspace/secretspace/internal/common"
)

// abortWithError translates service errors into HTTP responses. The "code"
// field lets clients tell the secret-message outcomes apart without parsing
// prose.
func (s *Server) abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrorNotOwner):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, common.ErrWrongRecipient):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "this message was sent to someone else",
			"code":  "wrong_recipient",
		})
	case errors.Is(err, common.ErrMessageNotFoundOrExpired):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error": "message not found or expired",
			"code":  "not_found_or_expired",
		})
	case errors.Is(err, common.ErrorNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
