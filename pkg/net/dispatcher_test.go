package net

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type storeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second})
}

// ==================== 信封解码 ====================

func TestData_Success(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("storeId")
		_, _ = io.WriteString(w, `{"success":true,"data":[{"id":"s1","name":"Shop"}]}`)
	})

	stores, err := Data[[]storeDTO](context.Background(), c, Get("/stores", "tok").WithQuery("storeId", "s1"))

	assert.NoError(t, err)
	assert.Equal(t, []storeDTO{{ID: "s1", Name: "Shop"}}, stores)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "/api/stores", gotPath)
	assert.Equal(t, "s1", gotQuery)
}

func TestData_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "非 2xx 带 message",
			status: http.StatusForbidden,
			body:   `{"message":"ไม่มีสิทธิ์"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				assert.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
				assert.Equal(t, "ไม่มีสิทธิ์", apiErr.Message)
			},
		},
		{
			name:   "非 2xx 无 message",
			status: http.StatusInternalServerError,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				assert.Equal(t, "Request failed", UserMessage(err, ""))
			},
		},
		{
			name:   "非 JSON",
			status: http.StatusOK,
			body:   `<html>oops</html>`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidJSON)
			},
		},
		{
			name:   "缺少 data",
			status: http.StatusOK,
			body:   `{"stores":[]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrContract)
			},
		},
		{
			name:   "success=false",
			status: http.StatusOK,
			body:   `{"success":false,"message":"store not found","data":null}`,
			check: func(t *testing.T, err error) {
				assert.Equal(t, "store not found", UserMessage(err, ""))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := Data[[]storeDTO](context.Background(), c, Get("/stores", "tok"))
			assert.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestSend_Transport(t *testing.T) {
	c := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := c.Send(context.Background(), Get("/stores", ""))

	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "โหลดไม่สำเร็จ", UserMessage(err, "โหลดไม่สำเร็จ"))
}

func TestFlat_RequiredKeys(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"orderId":"o1","total":200}`)
	})

	type orderResp struct {
		OrderID string `json:"orderId"`
		Total   int    `json:"total"`
	}

	out, err := Flat[orderResp](context.Background(), c, Post("/sites/order", map[string]string{"a": "b"}, ""), "orderId")
	assert.NoError(t, err)
	assert.Equal(t, "o1", out.OrderID)

	_, err = Flat[orderResp](context.Background(), c, Post("/sites/order", nil, ""), "qrUrl")
	assert.ErrorIs(t, err, ErrContract)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/stores/a%2Fb/reset", JoinPath("stores", "a/b", "reset"))
	assert.Equal(t, "/knowledge/s1/qa", JoinPath("/knowledge/", "s1", "", "qa"))
}
