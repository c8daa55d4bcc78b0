package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/clipvault/internal/common"
	"github.com/gin-gonic/gin"
)

// respondError writes {"error", "message"}. Only input errors echo their text
// back; everything else is logged and replaced with a fixed message.
func (s *HTTPServer) respondError(c *gin.Context, err error) {
	code, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorNotFound):
		code, msg = http.StatusNotFound, "video not found"
	case errors.Is(err, common.ErrStagingFailed):
		msg = "failed to stage upload"
	case errors.Is(err, common.ErrTranscodeFailed):
		msg = "video processing failed"
	case errors.Is(err, common.ErrPersistFailed):
		msg = "failed to save video"
	}

	if code == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	}
	writeError(c, code, msg)
}

func writeError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"error": http.StatusText(code), "message": msg})
}
