package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// AuthWithPassword 对指定集合执行密码认证
// 返回用户记录和认证令牌，令牌的保存由调用方的 AuthStore 负责
func (c *Client) AuthWithPassword(ctx context.Context, collection, identity, password string) (Record, string, error) {
	payload := map[string]string{
		"identity": identity,
		"password": password,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("序列化认证请求失败: %w", err)
	}

	var result struct {
		Token  string `json:"token"`
		Record Record `json:"record"`
	}
	if err := c.send(ctx, http.MethodPost, collectionPath(collection)+"/auth-with-password", nil, "application/json", bytes.NewReader(data), &result); err != nil {
		return nil, "", err
	}
	return result.Record, result.Token, nil
}
