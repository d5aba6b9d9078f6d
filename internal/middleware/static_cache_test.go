package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/config"
	"github.com/toughbox/pocketpic/internal/platform/service"
)

// 测试内容：验证静态资源响应带有配置的 Cache-Control 头。
func TestStaticCache_SetsHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	appService := service.NewAppService(config.Config{
		Security: config.SecurityConfig{StaticCacheControl: "public, max-age=86400"},
	})

	r := gin.New()
	r.GET("/assets/x", StaticCacheMiddleware(appService), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/x", nil))

	if got := w.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Fatalf("期望 Cache-Control 为配置值，实际为 %q", got)
	}
}
