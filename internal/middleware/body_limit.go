package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/consts"
	"github.com/toughbox/pocketpic/internal/platform/service"
)

// BodyLimitMiddleware 限制普通 JSON 请求体大小
func BodyLimitMiddleware(appService *service.AppService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 上传路由有独立的大小限制，这里跳过
		if strings.HasPrefix(c.Request.URL.Path, "/api/uploads") {
			c.Next()
			return
		}

		maxSizeMB := appService.GetInt(consts.SettingMaxRequestBodyMB)
		if maxSizeMB <= 0 {
			maxSizeMB = 2
		}

		maxBytes := int64(maxSizeMB) * 1024 * 1024
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		c.Next()
	}
}

// UploadBodyLimitMiddleware 限制批量上传接口的请求体大小
// 上限为单文件限制乘以批次文件数上限
func UploadBodyLimitMiddleware(appService *service.AppService) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxFileMB := appService.GetInt(consts.SettingMaxUploadMB)
		if maxFileMB <= 0 {
			maxFileMB = 10
		}
		maxFiles := appService.GetInt(consts.SettingMaxBatchFiles)
		if maxFiles <= 0 {
			maxFiles = 100
		}

		maxBytes := int64(maxFileMB) * 1024 * 1024 * int64(maxFiles)

		if c.Request.ContentLength > maxBytes && c.Request.ContentLength != -1 {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("上传内容过大，单个文件不能超过 %dMB", maxFileMB)})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
