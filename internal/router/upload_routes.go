package router

import (
	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/middleware"
	uploadhandler "github.com/toughbox/pocketpic/internal/modules/upload/handler"
	"github.com/toughbox/pocketpic/internal/platform/service"
)

func registerUploadRoutes(api *gin.RouterGroup, sessionAuth, uploadLimiter gin.HandlerFunc, appService *service.AppService, h *uploadhandler.Handler) {
	uploads := api.Group("/uploads")
	uploads.Use(sessionAuth)
	{
		uploads.POST("", uploadLimiter, middleware.UploadBodyLimitMiddleware(appService), h.CreateBatch)
		uploads.POST("/:id/start", h.StartBatch)
		uploads.GET("/:id", h.GetBatch)
		uploads.GET("/:id/events", h.Events)
	}
}
