package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: msg})
}

// writeError maps service errors to a status code and a client-safe message.
// Anything unrecognised is logged and reported as 500.
func writeError(c *gin.Context, logger logging.Logger, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		abortWithMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrRefreshTokenNotFound):
		abortWithMessage(c, http.StatusUnauthorized, common.ErrRefreshTokenNotFound.Error())
	case errors.Is(err, common.ErrRefreshTokenInvalid):
		abortWithMessage(c, http.StatusUnauthorized, common.ErrRefreshTokenInvalid.Error())
	case errors.Is(err, common.ErrorStorage):
		logger.Error(c.Request.Context(), "storage error", "error", err)
		abortWithMessage(c, http.StatusInternalServerError, "internal error")
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		abortWithMessage(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		abortWithMessage(c, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		abortWithMessage(c, http.StatusConflict, "already exists")
	default:
		logger.Error(c.Request.Context(), "internal error", "error", err)
		abortWithMessage(c, http.StatusInternalServerError, "internal error")
	}
}
