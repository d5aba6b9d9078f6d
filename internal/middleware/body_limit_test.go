package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/config"
	"github.com/toughbox/pocketpic/internal/platform/service"
)

func bodyLimitRouter(appService *service.AppService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BodyLimitMiddleware(appService))
	r.POST("/api/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "请求体过大"})
			return
		}
		c.Status(http.StatusOK)
	})
	r.POST("/api/uploads", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "请求体过大"})
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

// 测试内容：验证超过限制的普通请求体读取失败。
func TestBodyLimit_RejectsOversized(t *testing.T) {
	appService := service.NewAppService(config.Config{
		Security: config.SecurityConfig{MaxRequestBodyMB: 1},
	})
	r := bodyLimitRouter(appService)

	big := bytes.Repeat([]byte("a"), 2<<20)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/echo", bytes.NewReader(big)))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("期望 413，实际为 %v", w.Code)
	}
}

// 测试内容：验证小请求体正常通过，上传路由不受普通限制约束。
func TestBodyLimit_AllowsSmallAndSkipsUploads(t *testing.T) {
	appService := service.NewAppService(config.Config{
		Security: config.SecurityConfig{MaxRequestBodyMB: 1},
	})
	r := bodyLimitRouter(appService)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader("ok")))
	if w.Code != http.StatusOK {
		t.Fatalf("期望小请求体通过，实际为 %v", w.Code)
	}

	big := bytes.Repeat([]byte("a"), 2<<20)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/uploads", bytes.NewReader(big)))
	if w.Code != http.StatusOK {
		t.Fatalf("期望上传路由跳过普通限制，实际为 %v", w.Code)
	}
}

// 测试内容：验证上传限制中间件拒绝超大 Content-Length。
func TestUploadBodyLimit_RejectsByContentLength(t *testing.T) {
	gin.SetMode(gin.TestMode)
	appService := service.NewAppService(config.Config{
		Upload: config.UploadConfig{MaxUploadMB: 1, MaxBatchFiles: 1},
	})

	r := gin.New()
	r.POST("/api/uploads", UploadBodyLimitMiddleware(appService), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", strings.NewReader("x"))
	req.ContentLength = 10 << 20
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("期望 413，实际为 %v", w.Code)
	}
}
