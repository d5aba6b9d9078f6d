package pocketbase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// 一个最小化的 PocketBase 客户端
// 只覆盖本应用用到的能力：记录 CRUD、密码认证、文件 URL 拼接

// Record 是后端返回的一条原始记录
type Record map[string]any

type Client struct {
	baseURL string
	hc      *http.Client
	token   string
}

func New(baseURL string) *Client {
	return NewWithTimeout(baseURL, 30*time.Second)
}

func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithToken 返回一个绑定了认证令牌的浅拷贝
// 底层 http.Client 共享，复制开销可忽略，适合每请求调用
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// send 发送请求并将 2xx 响应解码到 out（out 为 nil 时丢弃响应体）
// 非 2xx 响应统一转换为 *ResponseError
func (c *Client) send(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("构建请求失败: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("请求后端失败: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseResponseError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析后端响应失败: %w", err)
	}
	return nil
}

func collectionPath(collection string) string {
	return "/api/collections/" + url.PathEscape(collection)
}
