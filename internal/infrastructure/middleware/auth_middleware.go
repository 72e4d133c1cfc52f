package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rhizano/era-beacon-api/internal/infrastructure/security"
	"github.com/rhizano/era-beacon-api/internal/shared/errors"
	"github.com/rhizano/era-beacon-api/internal/shared/utils"
)

type AuthMiddleware struct {
	jwtService *security.JWTService
}

func NewAuthMiddleware(jwtService *security.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			utils.Error(c, errors.Wrap(errors.ErrUnauthorized, errors.ErrCodeUnauthorized, "Invalid authorization header format"))
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if tokenString == "" {
			utils.Error(c, errors.Wrap(errors.ErrUnauthorized, errors.ErrCodeUnauthorized, "Missing token"))
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			utils.Error(c, err)
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), security.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, security.UsernameKey, claims.Username)
		c.Request = c.Request.WithContext(ctx)

		c.Set(string(security.UserIDKey), claims.UserID)
		c.Set(string(security.UsernameKey), claims.Username)

		c.Next()
	}
}

func GetCurrentUserID(c *gin.Context) (uint64, error) {
	userID, exists := c.Get(string(security.UserIDKey))
	if !exists {
		return 0, errors.ErrUnauthorized
	}

	id, ok := userID.(uint64)
	if !ok {
		return 0, errors.Wrap(errors.ErrUnauthorized, errors.ErrCodeInternal, "Invalid user ID type in context")
	}

	return id, nil
}

func GetCurrentUsername(c *gin.Context) (string, error) {
	username, exists := c.Get(string(security.UsernameKey))
	if !exists {
		return "", errors.ErrUnauthorized
	}

	name, ok := username.(string)
	if !ok {
		return "", errors.Wrap(errors.ErrUnauthorized, errors.ErrCodeInternal, "Invalid username type in context")
	}

	return name, nil
}
