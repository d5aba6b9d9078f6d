package router

import (
	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/consts"
	"github.com/toughbox/pocketpic/internal/platform/service"
)

func registerPublicRoutes(api *gin.RouterGroup, appService *service.AppService) {
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong from gin"})
	})
	api.GET("/webinfo", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":          consts.ApplicationName,
			"version":       consts.ApplicationVersion,
			"maxBatchFiles": appService.GetInt(consts.SettingMaxBatchFiles),
			"maxUploadMB":   appService.GetInt(consts.SettingMaxUploadMB),
		})
	})
}
