package router_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/config"
	"github.com/toughbox/pocketpic/internal/modules"
	photorepo "github.com/toughbox/pocketpic/internal/modules/photo/repo"
	"github.com/toughbox/pocketpic/internal/pocketbase"
	platformservice "github.com/toughbox/pocketpic/internal/platform/service"
	"github.com/toughbox/pocketpic/internal/router"
	"github.com/toughbox/pocketpic/internal/testutils"
)

func newTestApp(t *testing.T) (*gin.Engine, *testutils.FakeBackend) {
	t.Helper()

	backend := testutils.NewFakeBackend(t)
	t.Setenv("POCKET_PIC_BACKEND_URL", backend.URL())
	t.Setenv("POCKET_PIC_RATELIMIT_ENABLED", "false")
	config.InitConfig(t.TempDir())
	cfg := config.Get()

	appService := platformservice.NewAppService(cfg)
	client := pocketbase.New(cfg.Backend.URL)
	photoStore := photorepo.NewPhotoRepository(client, cfg.Backend.PhotosCollection)
	appModules := modules.New(appService, client, photoStore, cfg)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	router.NewRouter(appModules, appService).Init(r)
	return r, backend
}

func doJSON(r *gin.Engine, method, path string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// 测试内容：验证公开探活与应用信息接口。
func TestPublicRoutes(t *testing.T) {
	r, _ := newTestApp(t)

	w := doJSON(r, http.MethodGet, "/api/ping", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 ping 返回 200，实际为 %v", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/webinfo", nil, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "PocketPic") {
		t.Fatalf("期望 webinfo 包含应用名，实际为 %v %q", w.Code, w.Body.String())
	}
}

// 测试内容：验证受保护路由在没有会话时返回 401。
func TestProtectedRoutes_RequireSession(t *testing.T) {
	r, _ := newTestApp(t)

	for _, path := range []string{"/api/photos", "/api/me"} {
		w := doJSON(r, http.MethodGet, path, nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("期望 %q 返回 401，实际为 %v", path, w.Code)
		}
	}
}

// 测试内容：验证注册、上传、列表、删除的端到端流程。
func TestRegisterUploadListDelete(t *testing.T) {
	r, backend := newTestApp(t)

	// 注册并取得会话 Cookie
	w := doJSON(r, http.MethodPost, "/api/register", map[string]string{
		"email":           "new@example.com",
		"password":        "pass1234",
		"passwordConfirm": "pass1234",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望注册成功，实际为 %v %q", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("期望注册响应设置会话 Cookie")
	}

	// 当前用户
	w = doJSON(r, http.MethodGet, "/api/me", nil, cookies)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "new@example.com") {
		t.Fatalf("期望 me 返回当前用户，实际为 %v %q", w.Code, w.Body.String())
	}

	// 单文件上传
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("file", "cat.png")
	if err != nil {
		t.Fatalf("构建 multipart 失败: %v", err)
	}
	if _, err := fw.Write(testutils.MinimalPNG()); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
	_ = mw.WriteField("title", "小猫")
	if err := mw.Close(); err != nil {
		t.Fatalf("关闭 multipart 失败: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/photos", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	upload := httptest.NewRecorder()
	r.ServeHTTP(upload, req)
	if upload.Code != http.StatusOK {
		t.Fatalf("期望上传成功，实际为 %v %q", upload.Code, upload.Body.String())
	}

	// 列表
	w = doJSON(r, http.MethodGet, "/api/photos", nil, cookies)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "cat.png") {
		t.Fatalf("期望列表包含 cat.png，实际为 %v %q", w.Code, w.Body.String())
	}

	var listResp struct {
		List []struct {
			ID string `json:"id"`
		} `json:"list"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("解析列表响应失败: %v", err)
	}
	if listResp.Total != 1 || len(listResp.List) != 1 {
		t.Fatalf("期望 1 张照片，实际为 %v", listResp.Total)
	}

	// 删除
	w = doJSON(r, http.MethodDelete, "/api/photos/"+listResp.List[0].ID, nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("期望删除成功，实际为 %v %q", w.Code, w.Body.String())
	}
	if backend.PhotoCount() != 0 {
		t.Fatalf("期望后端记录为 0，实际为 %v", backend.PhotoCount())
	}
}

// 测试内容：验证批量上传接口建批、启动并能查询快照。
func TestUploadBatchRoutes(t *testing.T) {
	r, backend := newTestApp(t)
	backend.AddUser("user@example.com", "pass1234", "")

	w := doJSON(r, http.MethodPost, "/api/login", map[string]string{
		"email":    "user@example.com",
		"password": "pass1234",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望登录成功，实际为 %v %q", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()

	// 建批
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for _, name := range []string{"a.png", "b.png"} {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("构建 multipart 失败: %v", err)
		}
		if _, err := fw.Write(testutils.MinimalPNG()); err != nil {
			t.Fatalf("写入文件失败: %v", err)
		}
		_ = mw.WriteField("lastModified", "1700000000000")
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("关闭 multipart 失败: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	create := httptest.NewRecorder()
	r.ServeHTTP(create, req)
	if create.Code != http.StatusOK {
		t.Fatalf("期望建批成功，实际为 %v %q", create.Code, create.Body.String())
	}

	var batch struct {
		ID    string `json:"id"`
		Total int    `json:"total"`
	}
	if err := json.Unmarshal(create.Body.Bytes(), &batch); err != nil {
		t.Fatalf("解析建批响应失败: %v", err)
	}
	if batch.Total != 2 {
		t.Fatalf("期望批次包含 2 个任务，实际为 %v", batch.Total)
	}

	// 启动
	w = doJSON(r, http.MethodPost, "/api/uploads/"+batch.ID+"/start", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("期望启动成功，实际为 %v %q", w.Code, w.Body.String())
	}

	// 轮询快照直到完成
	for i := 0; i < 200; i++ {
		w = doJSON(r, http.MethodGet, "/api/uploads/"+batch.ID, nil, cookies)
		if w.Code != http.StatusOK {
			t.Fatalf("期望快照成功，实际为 %v", w.Code)
		}
		if strings.Contains(w.Body.String(), `"finished":true`) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.Contains(w.Body.String(), `"completed":2`) {
		t.Fatalf("期望批次全部成功，实际为 %q", w.Body.String())
	}
	if backend.PhotoCount() != 2 {
		t.Fatalf("期望后端记录 2 条，实际为 %v", backend.PhotoCount())
	}

	// 未知批次
	w = doJSON(r, http.MethodGet, "/api/uploads/missing", nil, cookies)
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望未知批次返回 404，实际为 %v", w.Code)
	}
}
