package notifications

import (
	"github.com/gin-gonic/gin"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/middleware"
)

func RegisterRoutes(router *gin.Engine, handler *Handler, authMiddleware *middleware.AuthMiddleware) {
	notificationsGroup := router.Group("/v1/notifications")
	notificationsGroup.Use(authMiddleware.Authenticate())
	{
		notificationsGroup.POST("/notify-absence", handler.NotifyAbsence)
	}

	detailGroup := router.Group("/v1/absent-detail")
	detailGroup.Use(authMiddleware.Authenticate())
	{
		detailGroup.GET("/:employee_id", handler.AbsentDetail)
	}
}
