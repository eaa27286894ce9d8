package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/XiongPengNUS/canvasplus/internal/app/models/dto"
)

// tokenContextKey is where the Canvas access token lives in the gin context
const tokenContextKey = "canvasToken"

// AuthMiddleware extracts the caller's Canvas access token. The service
// never validates or stores the token itself; it is passed through to
// the course directory on every upstream call, and an upstream 401
// surfaces as a single recoverable error.
type AuthMiddleware struct{}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{}
}

// AccessTokenRequired rejects requests without a bearer token and puts
// the token on the context for handlers.
func (m *AuthMiddleware) AccessTokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Access token required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" || token == authHeader {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Access token required")
			errorDetail = errorDetail.WithDetails("Expected 'Bearer <token>'")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(tokenContextKey, token)
		c.Next()
	}
}

// AccessToken returns the Canvas token placed on the context by
// AccessTokenRequired.
func AccessToken(c *gin.Context) string {
	token, _ := c.Get(tokenContextKey)
	s, _ := token.(string)
	return s
}
