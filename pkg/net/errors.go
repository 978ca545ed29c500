package net

import (
	"errors"
	"fmt"
)

// ==================== 错误分类 ====================

var (
	// ErrTransport 网络层失败 (连接、超时、取消)
	ErrTransport = errors.New("request failed")
	// ErrInvalidJSON 响应体不是合法 JSON
	ErrInvalidJSON = errors.New("invalid JSON from server")
	// ErrContract 响应不符合该接口约定的信封结构
	ErrContract = errors.New("unexpected response shape")
)

// APIError 后端返回非 2xx
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// ValidationError 发请求前的本地校验失败 (缺字段、文件过大、库存不足)
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError 构造校验错误
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StatusCode 取 APIError 的状态码，其它错误返回 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// UserMessage 把任意错误转换成给用户看的提示文本
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	switch {
	case errors.Is(err, ErrInvalidJSON):
		return ErrInvalidJSON.Error()
	case errors.Is(err, ErrContract):
		return ErrContract.Error()
	}
	if fallback != "" {
		return fallback
	}
	return ErrTransport.Error()
}
