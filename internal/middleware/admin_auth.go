package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// adminKeyHeader carries the shared admin key on treasury endpoints.
const adminKeyHeader = "X-Admin-Key"

// AdminAuthMiddleware guards the privileged treasury operations (mint,
// deposit, withdraw, expiry sweep). The configured value is a bcrypt hash of
// the key, so the plaintext never lives in the environment.
func AdminAuthMiddleware(adminKeyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		key := c.GetHeader(adminKeyHeader)
		if key == "" {
			logger.Warn("Admin key header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin key required"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(adminKeyHash), []byte(key)); err != nil {
			logger.Warn("Admin key rejected")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin key invalid"})
			return
		}

		c.Next()
	}
}
