package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/katherineChen0/crosscoach/backend/internal/apierror"
	"github.com/katherineChen0/crosscoach/backend/internal/logger"
)

// Identity middleware resolves the acting user from the X-User-ID header.
// The API trusts the caller to identify itself; there is no token exchange.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			log.Debug("identity resolution failed: missing X-User-ID header")
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewBadRequestError(
				requestID,
				"The X-User-ID header is required",
				"Provide your user ID in the X-User-ID header",
			))
			c.Abort()
			return
		}

		// Set user in context
		c.Set("user_id", userID)

		// Add user ID to request context for logging
		ctx := logger.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
