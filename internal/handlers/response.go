package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
)

type ErrorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RespondError maps a service error to its HTTP status and machine code.
// Service messages are written for end users, so they pass through verbatim;
// storage failures are logged with their cause before being returned.
func RespondError(c *gin.Context, log *logger.Logger, err error) {
	status, code := apierr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, ErrorEnvelope{Error: err.Error(), Code: code})
}

func RespondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: err.Error(), Code: apierr.CodeValidation})
}
