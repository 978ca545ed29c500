package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/middleware"
	"lineboost_console/internal/session"
	"lineboost_console/pkg/net"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "本地校验", err: net.NewValidationError("name", "x"), want: http.StatusBadRequest},
		{name: "后端 404", err: &net.APIError{StatusCode: 404, Message: "x"}, want: http.StatusNotFound},
		{name: "包装后的 403", err: fmt.Errorf("load: %w", &net.APIError{StatusCode: 403}), want: http.StatusForbidden},
		{name: "success:false", err: &net.APIError{StatusCode: 200, Message: "x"}, want: http.StatusUnprocessableEntity},
		{name: "后端 500", err: &net.APIError{StatusCode: 500}, want: http.StatusBadGateway},
		{name: "网络错误", err: net.ErrTransport, want: http.StatusBadGateway},
		{name: "契约错误", err: net.ErrContract, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusOf(tt.err))
		})
	}
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) dto.PageResp {
	var resp dto.PageResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应不是 JSON: %s", w.Body.String())
	}
	return resp
}

func TestPage_FailureStillOK(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/api/console/orders", nil)

	page(ctx, []string{}, &net.APIError{StatusCode: 500, Message: "db down"}, "โหลดไม่สำเร็จ")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodePage(t, w)
	assert.True(t, resp.Empty)
	if assert.NotNil(t, resp.Notice) {
		assert.Equal(t, dto.NoticeError, resp.Notice.Level)
		assert.Equal(t, "db down", resp.Notice.Message)
	}
}

func TestPage_EmptyFlag(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	page(ctx, map[string]int{}, nil, "")
	assert.True(t, decodePage(t, w).Empty)

	w = httptest.NewRecorder()
	ctx, _ = gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	page(ctx, []int{1}, nil, "")
	resp := decodePage(t, w)
	assert.False(t, resp.Empty)
	assert.Nil(t, resp.Notice)
}

func TestDone_ValidationIsWarning(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	done(ctx, nil, net.NewValidationError("content", "กรุณากรอกข้อความก่อนส่ง"), "ส่งแล้ว", "ส่งไม่สำเร็จ")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodePage(t, w)
	assert.Equal(t, dto.NoticeWarning, resp.Notice.Level)
	assert.Equal(t, "กรุณากรอกข้อความก่อนส่ง", resp.Notice.Message)
}

func TestScopeOf_OnlyOwnStores(t *testing.T) {
	st := session.NewStore("k1")
	st.SetStores([]session.StoreInfo{{ID: "s1"}, {ID: "s2"}})

	scope := func(query string) string {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Request = httptest.NewRequest(http.MethodGet, "/api/console/orders"+query, nil)
		ctx.Set(middleware.ContextKeySession, st)
		return scopeOf(ctx).StoreID
	}

	assert.Equal(t, "s1", scope(""))
	assert.Equal(t, "s2", scope("?storeId=s2"))
	// 不属于自己的店铺被忽略
	assert.Equal(t, "s1", scope("?storeId=other"))
}

func TestCartMessage(t *testing.T) {
	msg, ok := cartMessage(fmt.Errorf("add: %w", errors.New("boom")))
	assert.False(t, ok)
	assert.Empty(t, msg)
}
