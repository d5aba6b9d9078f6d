package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders 添加安全相关的 HTTP 响应头
// backendOrigin 为远端后端地址，图片直接由浏览器从后端加载，需要放行
func SecurityHeaders(backendOrigin string) gin.HandlerFunc {
	csp := fmt.Sprintf(
		"default-src 'self'; img-src 'self' data: blob: %s; style-src 'self' 'unsafe-inline'; script-src 'self'; connect-src 'self' ws: wss: %s;",
		backendOrigin, backendOrigin,
	)

	return func(c *gin.Context) {
		// 防止浏览器猜测内容类型
		c.Header("X-Content-Type-Options", "nosniff")

		// 防止点击劫持 (Clickjacking)
		c.Header("X-Frame-Options", "DENY")

		c.Header("Content-Security-Policy", csp)

		c.Next()
	}
}
