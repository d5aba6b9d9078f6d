package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/pocketbase"
)

// SessionSource 按会话 ID 查找认证快照
type SessionSource interface {
	StoreFor(sid string) *pocketbase.AuthStore
}

// SessionAuth 校验会话 Cookie，通过后把 sid 与后端令牌写入请求上下文
func SessionAuth(cookieName string, sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "需要登录才能访问"})
			c.Abort()
			return
		}

		store := sessions.StoreFor(sid)
		if store == nil || !store.IsValid() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "登录已过期，请重新登录"})
			c.Abort()
			return
		}

		c.Set("sid", sid)
		c.Set("token", store.Token())
		c.Next()
	}
}
