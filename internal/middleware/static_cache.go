package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/consts"
	"github.com/toughbox/pocketpic/internal/platform/service"
)

// StaticCacheMiddleware 为静态资源添加 Cache-Control 头
// 缓存策略由 SettingStaticCacheControl 配置决定
func StaticCacheMiddleware(appService *service.AppService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cc := appService.GetString(consts.SettingStaticCacheControl)
		if cc != "" {
			c.Header("Cache-Control", cc)
		}
		c.Next()
	}
}
