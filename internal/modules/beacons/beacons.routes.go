package beacons

import (
	"github.com/gin-gonic/gin"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/middleware"
)

func RegisterRoutes(router *gin.Engine, handler *Handler, authMiddleware *middleware.AuthMiddleware) {
	beaconsGroup := router.Group("/v1/beacons")
	beaconsGroup.Use(authMiddleware.Authenticate())
	{
		beaconsGroup.POST("", handler.Create)
		beaconsGroup.GET("", handler.List)
		beaconsGroup.GET("/:id", handler.Get)
		beaconsGroup.PUT("/:id", handler.Update)
		beaconsGroup.DELETE("/:id", handler.Delete)
	}
}
