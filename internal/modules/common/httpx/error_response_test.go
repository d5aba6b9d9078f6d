package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/platform/service"
)

func responseFor(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	WriteServiceError(c, err, "后备消息")
	return w
}

// 测试内容：验证各类 ServiceError 映射到对应的 HTTP 状态码。
func TestWriteServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.NewValidationError("v"), http.StatusBadRequest},
		{service.NewUnauthorizedError("u"), http.StatusUnauthorized},
		{service.NewForbiddenError("f"), http.StatusForbidden},
		{service.NewConflictError("c"), http.StatusConflict},
		{service.NewNotFoundError("n"), http.StatusNotFound},
		{service.NewInternalError("i"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if w := responseFor(t, tc.err); w.Code != tc.status {
			t.Fatalf("期望 %v 映射为 %v，实际为 %v", tc.err, tc.status, w.Code)
		}
	}
}

// 测试内容：验证非 ServiceError 使用后备消息并返回 500。
func TestWriteServiceError_Fallback(t *testing.T) {
	w := responseFor(t, errors.New("raw error"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("期望 500，实际为 %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "后备消息") {
		t.Fatalf("期望响应包含后备消息，实际为 %q", w.Body.String())
	}
}
