package auth

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/security"
)

func RegisterRoutes(router *gin.Engine, handler *Handler, rateLimiter security.RateLimiter) {
	authGroup := router.Group("/v1/auth")
	{
		authGroup.POST("/register",
			security.RouteRateLimitMiddleware(rateLimiter, 5, time.Minute),
			handler.Register,
		)

		authGroup.POST("/login",
			security.RouteRateLimitMiddleware(rateLimiter, 5, time.Minute),
			handler.Login,
		)
	}
}
