package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FakeBackend 模拟远端 PocketBase 兼容后端的最小行为子集：
// 密码认证、记录列表/创建/删除，以及标准错误响应格式。
type FakeBackend struct {
	Server *httptest.Server

	// CreateDelay 人为延迟创建请求，用于并发场景测试
	CreateDelay time.Duration

	mu          sync.Mutex
	users       map[string]fakeUser
	photos      []map[string]any
	nextID      int
	validTokens map[string]bool
	failCreate  string // 非空时下一次创建返回该错误消息
}

type fakeUser struct {
	password string
	record   map[string]any
}

func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	b := &FakeBackend{
		users:       make(map[string]fakeUser),
		validTokens: make(map[string]bool),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.Server.Close)
	return b
}

func (b *FakeBackend) URL() string {
	return b.Server.URL
}

// AddUser 预置一个可登录的用户
func (b *FakeBackend) AddUser(email, password, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.users[email] = fakeUser{
		password: password,
		record: map[string]any{
			"id":    fmt.Sprintf("usr_%04d", b.nextID),
			"email": email,
			"name":  name,
		},
	}
}

// FailNextCreate 让下一次创建请求返回 400 错误
func (b *FakeBackend) FailNextCreate(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failCreate = message
}

// PhotoCount 返回已创建的照片记录数
func (b *FakeBackend) PhotoCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.photos)
}

// IssueToken 签发一个带有效期的测试令牌并登记为合法
func (b *FakeBackend) IssueToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	token := SignedJWT(t, ttl)
	b.mu.Lock()
	b.validTokens[token] = true
	b.mu.Unlock()
	return token
}

// SignedJWT 生成一个 HS256 签名的 JWT，仅携带过期时间
func SignedJWT(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{"exp": time.Now().Add(ttl).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("签发测试令牌失败: %v", err)
	}
	return token
}

func (b *FakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/collections/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		writeError(w, http.StatusNotFound, "Not found.", nil)
		return
	}

	collection := parts[0]
	switch {
	case len(parts) == 2 && parts[1] == "auth-with-password" && r.Method == http.MethodPost:
		b.handleAuth(w, r)
	case len(parts) == 2 && parts[1] == "records" && r.Method == http.MethodGet:
		b.handleList(w, r)
	case len(parts) == 2 && parts[1] == "records" && r.Method == http.MethodPost:
		b.handleCreate(w, r, collection)
	case len(parts) == 3 && parts[1] == "records" && r.Method == http.MethodDelete:
		b.handleDelete(w, r, parts[2])
	default:
		writeError(w, http.StatusNotFound, "Not found.", nil)
	}
}

func (b *FakeBackend) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identity string `json:"identity"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Something went wrong while processing your request.", nil)
		return
	}

	b.mu.Lock()
	user, ok := b.users[req.Identity]
	b.mu.Unlock()
	if !ok || user.password != req.Password {
		writeError(w, http.StatusBadRequest, "Failed to authenticate.", nil)
		return
	}

	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix(), "id": user.record["id"]}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	b.mu.Lock()
	b.validTokens[token] = true
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"token": token, "record": user.record})
}

func (b *FakeBackend) authorized(r *http.Request) bool {
	token := r.Header.Get("Authorization")
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.validTokens[token]
}

func (b *FakeBackend) handleList(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "The request requires valid record authorization token to be set.", nil)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	if perPage <= 0 {
		perPage = 30
	}

	b.mu.Lock()
	items := make([]map[string]any, len(b.photos))
	copy(items, b.photos)
	b.mu.Unlock()

	// "-created" 按创建倒序
	if r.URL.Query().Get("sort") == "-created" {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}

	total := len(items)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page":       page,
		"perPage":    perPage,
		"totalItems": total,
		"totalPages": totalPages,
		"items":      items[start:end],
	})
}

func (b *FakeBackend) handleCreate(w http.ResponseWriter, r *http.Request, collection string) {
	if b.CreateDelay > 0 {
		time.Sleep(b.CreateDelay)
	}

	b.mu.Lock()
	failMessage := b.failCreate
	b.failCreate = ""
	b.mu.Unlock()
	if failMessage != "" {
		writeError(w, http.StatusBadRequest, failMessage, nil)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		b.createFromJSON(w, r)
		return
	}

	// 照片创建走 multipart
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "The request requires valid record authorization token to be set.", nil)
		return
	}
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart payload.", nil)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to create record.", map[string]map[string]string{
			"image": {"code": "validation_required", "message": "Missing required value."},
		})
		return
	}
	file.Close()

	b.mu.Lock()
	b.nextID++
	record := map[string]any{
		"id":          fmt.Sprintf("rec_%04d", b.nextID),
		"title":       r.FormValue("title"),
		"description": r.FormValue("description"),
		"image":       header.Filename,
		"thumbnail":   "",
		"size":        header.Size,
		"mimeType":    r.FormValue("mimeType"),
		"created":     time.Now().UTC().Format("2006-01-02 15:04:05.000Z"),
	}
	if width := r.FormValue("width"); width != "" {
		record["width"], _ = strconv.Atoi(width)
	}
	if height := r.FormValue("height"); height != "" {
		record["height"], _ = strconv.Atoi(height)
	}
	b.photos = append(b.photos, record)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, record)
}

// createFromJSON 处理用户注册
func (b *FakeBackend) createFromJSON(w http.ResponseWriter, r *http.Request) {
	var payload map[string]string
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Something went wrong while processing your request.", nil)
		return
	}

	email := payload["email"]
	if payload["password"] != payload["passwordConfirm"] {
		writeError(w, http.StatusBadRequest, "Failed to create record.", map[string]map[string]string{
			"passwordConfirm": {"code": "validation_values_mismatch", "message": "Values don't match."},
		})
		return
	}

	b.mu.Lock()
	_, exists := b.users[email]
	b.mu.Unlock()
	if exists {
		writeError(w, http.StatusBadRequest, "Failed to create record.", map[string]map[string]string{
			"email": {"code": "validation_not_unique", "message": "Value must be unique."},
		})
		return
	}

	b.AddUser(email, payload["password"], payload["name"])

	b.mu.Lock()
	record := b.users[email].record
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, record)
}

func (b *FakeBackend) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "The request requires valid record authorization token to be set.", nil)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, photo := range b.photos {
		if photo["id"] == id {
			b.photos = append(b.photos[:i], b.photos[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "The requested resource wasn't found.", nil)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string, data map[string]map[string]string) {
	body := map[string]any{"code": status, "message": message}
	if data != nil {
		body["data"] = data
	}
	writeJSON(w, status, body)
}
