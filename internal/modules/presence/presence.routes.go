package presence

import (
	"github.com/gin-gonic/gin"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/middleware"
)

func RegisterRoutes(router *gin.Engine, handler *Handler, authMiddleware *middleware.AuthMiddleware) {
	presenceGroup := router.Group("/v1/presence-logs")
	presenceGroup.Use(authMiddleware.Authenticate())
	{
		presenceGroup.POST("", handler.Create)
		presenceGroup.GET("", handler.List)
		presenceGroup.GET("/:id", handler.Get)
		presenceGroup.DELETE("/:id", handler.Delete)
	}
}
