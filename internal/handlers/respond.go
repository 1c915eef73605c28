package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"miniportfolio/api/internal/apperr"
)

// respondError translates a failure into the contract's {"error": message}
// body. Business-rule failures surface verbatim; anything unexpected is
// generalized so internal detail never reaches the client.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.StatusCode(), gin.H{"error": appErr.Message})
		return
	}

	h.log.Error().
		Err(err).
		Str("path", c.Request.URL.Path).
		Msg("unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
