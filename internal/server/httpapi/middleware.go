package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/logging"
	"github.com/dmitrijs2005/postkeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	claimsKey      = "claims"
	accessTokenKey = "access_token"
	requestIDKey   = "request_id"
)

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)

		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// bearerAuth rejects requests without a currently valid access token and
// stores its claims in the gin context.
func bearerAuth(as AuthService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			abortWithMessage(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := as.Authenticate(c.Request.Context(), token)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Set(accessTokenKey, token)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
