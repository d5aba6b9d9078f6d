package pocketbase

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// FieldError 是后端逐字段校验错误
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseError 是后端非 2xx 响应的统一形态
// Data 里可能带有逐字段的校验信息
type ResponseError struct {
	Status  int                   `json:"status"`
	Message string                `json:"message"`
	Data    map[string]FieldError `json:"data"`
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("后端返回状态码 %d", e.Status)
}

// FieldSummary 将逐字段错误合并为一条可读消息（按字段名排序，保证稳定输出）
func (e *ResponseError) FieldSummary() string {
	if len(e.Data) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e.Data))
	for field := range e.Data {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		fe := e.Data[field]
		msg := fe.Message
		if msg == "" {
			msg = fe.Code
		}
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, ", ")
}

// AsResponseError 提取链上的 *ResponseError
func AsResponseError(err error) (*ResponseError, bool) {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr, true
	}
	return nil, false
}

func parseResponseError(resp *http.Response) error {
	respErr := &ResponseError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return respErr
	}

	var payload struct {
		Message string                     `json:"message"`
		Data    map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return respErr
	}

	respErr.Message = payload.Message
	if len(payload.Data) > 0 {
		respErr.Data = make(map[string]FieldError, len(payload.Data))
		for field, raw := range payload.Data {
			var fe FieldError
			if err := json.Unmarshal(raw, &fe); err == nil && (fe.Message != "" || fe.Code != "") {
				respErr.Data[field] = fe
				continue
			}
			// 后端偶尔会返回裸字符串
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				respErr.Data[field] = FieldError{Message: s}
			}
		}
	}
	return respErr
}
