package net

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"lineboost_console/pkg/logger"
)

const defaultErrorMessage = "Request failed"

// ClientConfig 后端客户端配置
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// Client 后端 REST/SSE 客户端，所有页面服务共用一个实例
// REST 调用不重试，失败交给调用方转换成提示
type Client struct {
	rest    *resty.Client
	stream  *resty.Client
	baseURL string
}

// NewClient 创建客户端。SSE 使用独立的无超时 resty 实例
func NewClient(cfg ClientConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rest := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetDebug(cfg.Debug).
		SetHeader("User-Agent", "LineBoost-Console/1.0")

	stream := resty.New().
		SetBaseURL(base).
		SetDebug(cfg.Debug).
		SetHeader("User-Agent", "LineBoost-Console/1.0")

	return &Client{rest: rest, stream: stream, baseURL: base}
}

// BaseURL 后端根地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send 发送请求并返回校验过的 JSON 响应体
// 1. 网络失败 -> ErrTransport
// 2. 非 JSON -> ErrInvalidJSON (无论状态码)
// 3. 非 2xx -> *APIError，message 取响应体的 message 字段
func (c *Client) Send(ctx context.Context, req *Request) ([]byte, error) {
	resp, err := req.build(ctx, c.rest).Execute(req.Method, req.Path)
	if err != nil {
		logger.Module("net").WithField("path", req.Path).Debugf("transport error: %v", err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.Path, err)
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) > 0 && !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, truncate(body, 200))
	}

	code := resp.StatusCode()
	if code < 200 || code >= 300 {
		return nil, &APIError{StatusCode: code, Message: messageOf(body)}
	}
	return body, nil
}

// Exec 只关心成功与否的调用
func (c *Client) Exec(ctx context.Context, req *Request) error {
	_, err := c.Send(ctx, req)
	return err
}

// ==================== 信封解码 ====================

// Data 解码 {success, message, data} 信封，缺少 data 视为契约错误
func Data[T any](ctx context.Context, c *Client, req *Request) (T, error) {
	var out T
	body, err := c.Send(ctx, req)
	if err != nil {
		return out, err
	}

	var env struct {
		Success *bool           `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrContract, req.Path, err)
	}
	if env.Success != nil && !*env.Success {
		return out, &APIError{StatusCode: 200, Message: orDefault(env.Message)}
	}
	if env.Data == nil {
		return out, fmt.Errorf("%w: %s: missing data", ErrContract, req.Path)
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrContract, req.Path, err)
	}
	return out, nil
}

// Flat 解码扁平响应，required 中的字段必须出现
func Flat[T any](ctx context.Context, c *Client, req *Request, required ...string) (T, error) {
	var out T
	body, err := c.Send(ctx, req)
	if err != nil {
		return out, err
	}
	if err := decodeFlat(body, &out, required...); err != nil {
		return out, fmt.Errorf("%s: %w", req.Path, err)
	}
	return out, nil
}

func decodeFlat(body []byte, out any, required ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return fmt.Errorf("%w: not an object", ErrContract)
	}
	if raw, ok := fields["success"]; ok && string(raw) == "false" {
		var m struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &m)
		return &APIError{StatusCode: 200, Message: orDefault(m.Message)}
	}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return fmt.Errorf("%w: missing %s", ErrContract, key)
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrContract, err)
	}
	return nil
}

// ==================== 工具函数 ====================

func messageOf(body []byte) string {
	var m struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(body) > 0 {
		_ = json.Unmarshal(body, &m)
	}
	if m.Message != "" {
		return m.Message
	}
	return orDefault(m.Error)
}

func orDefault(msg string) string {
	if msg == "" {
		return defaultErrorMessage
	}
	return msg
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
