package router

import (
	"github.com/gin-gonic/gin"

	photohandler "github.com/toughbox/pocketpic/internal/modules/photo/handler"
)

func registerPhotoRoutes(api *gin.RouterGroup, sessionAuth gin.HandlerFunc, h *photohandler.Handler) {
	photos := api.Group("/photos")
	photos.Use(sessionAuth)
	{
		photos.GET("", h.ListPhotos)
		photos.POST("", h.UploadPhoto)
		photos.DELETE("/:id", h.DeletePhoto)
	}
}
