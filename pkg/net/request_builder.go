package net

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Request 一次后端调用的描述
// Token 为空时不带 Authorization (公开接口)
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Token  string
}

// Get 构建 GET 请求
func Get(path string, token string) *Request {
	return &Request{Method: http.MethodGet, Path: path, Token: token}
}

// Post 构建 POST 请求
func Post(path string, body any, token string) *Request {
	return &Request{Method: http.MethodPost, Path: path, Body: body, Token: token}
}

// Put 构建 PUT 请求
func Put(path string, body any, token string) *Request {
	return &Request{Method: http.MethodPut, Path: path, Body: body, Token: token}
}

// Patch 构建 PATCH 请求
func Patch(path string, body any, token string) *Request {
	return &Request{Method: http.MethodPatch, Path: path, Body: body, Token: token}
}

// Delete 构建 DELETE 请求
func Delete(path string, token string) *Request {
	return &Request{Method: http.MethodDelete, Path: path, Token: token}
}

// WithQuery 追加查询参数，空值跳过
func (r *Request) WithQuery(key, value string) *Request {
	if value == "" {
		return r
	}
	if r.Query == nil {
		r.Query = url.Values{}
	}
	r.Query.Set(key, value)
	return r
}

// build 统一封装鉴权头和缓存头
func (r *Request) build(ctx context.Context, client *resty.Client) *resty.Request {
	req := client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("Cache-Control", "no-cache, no-store, must-revalidate").
		SetHeader("Pragma", "no-cache")

	if r.Token != "" {
		req.SetAuthToken(r.Token)
	}
	if len(r.Query) > 0 {
		req.SetQueryParamsFromValues(r.Query)
	}
	if r.Body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(r.Body)
	}
	return req
}

// JoinPath 拼接路径片段并转义
func JoinPath(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}
