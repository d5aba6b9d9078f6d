package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// ListResult 是分页列表响应
type ListResult struct {
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
	Items      []Record `json:"items"`
}

const fullListPerPage = 200

// GetList 获取指定集合的一页记录
func (c *Client) GetList(ctx context.Context, collection string, page, perPage int, sort string) (*ListResult, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("perPage", strconv.Itoa(perPage))
	if sort != "" {
		query.Set("sort", sort)
	}

	var result ListResult
	if err := c.send(ctx, http.MethodGet, collectionPath(collection)+"/records", query, "", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetFullList 翻页拉取集合的全部记录
func (c *Client) GetFullList(ctx context.Context, collection, sort string) ([]Record, error) {
	var all []Record
	for page := 1; ; page++ {
		result, err := c.GetList(ctx, collection, page, fullListPerPage, sort)
		if err != nil {
			return nil, err
		}
		all = append(all, result.Items...)
		if page >= result.TotalPages || len(result.Items) == 0 {
			break
		}
	}
	return all, nil
}

// CreateRecord 以 multipart 表单创建记录（用于带文件的 photos）
func (c *Client) CreateRecord(ctx context.Context, collection string, body io.Reader, contentType string) (Record, error) {
	var record Record
	if err := c.send(ctx, http.MethodPost, collectionPath(collection)+"/records", nil, contentType, body, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// CreateRecordJSON 以 JSON 创建记录（用于 users 注册）
func (c *Client) CreateRecordJSON(ctx context.Context, collection string, payload any) (Record, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}
	var record Record
	if err := c.send(ctx, http.MethodPost, collectionPath(collection)+"/records", nil, "application/json", bytes.NewReader(data), &record); err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteRecord 删除一条记录
func (c *Client) DeleteRecord(ctx context.Context, collection, id string) error {
	return c.send(ctx, http.MethodDelete, collectionPath(collection)+"/records/"+url.PathEscape(id), nil, "", nil, nil)
}
