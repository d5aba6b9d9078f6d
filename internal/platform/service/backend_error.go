package service

import (
	"net/http"

	"github.com/toughbox/pocketpic/internal/pocketbase"
)

// NormalizeBackendError 把后端错误整理为单条可读消息的 ServiceError
// 逐字段校验错误会被合并；非后端错误（网络失败等）原样透传
func NormalizeBackendError(err error, fallback string) error {
	respErr, ok := pocketbase.AsResponseError(err)
	if !ok {
		return err
	}

	if summary := respErr.FieldSummary(); summary != "" {
		return NewValidationError(fallback + " - " + summary)
	}

	message := respErr.Message
	if message == "" {
		message = fallback
	}

	switch respErr.Status {
	case http.StatusUnauthorized:
		return NewUnauthorizedError(message)
	case http.StatusForbidden:
		return NewForbiddenError(message)
	case http.StatusNotFound:
		return NewNotFoundError(message)
	case http.StatusBadRequest:
		return NewValidationError(message)
	default:
		return NewInternalError(message)
	}
}
