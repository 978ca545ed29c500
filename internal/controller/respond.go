package controller

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/middleware"
	"lineboost_console/internal/service"
	"lineboost_console/internal/session"
	"lineboost_console/pkg/logger"
	"lineboost_console/pkg/net"
)

const msgBadRequest = "ข้อมูลไม่ถูกต้อง"

// ==================== 页面响应 ====================

// page 读接口统一返回 200：失败时 data 为空默认值并附带 notice
func page(ctx *gin.Context, data any, err error, fallback string) {
	if err != nil {
		logFailure(ctx, err)
		ctx.JSON(http.StatusOK, dto.PageResp{
			Data:   data,
			Empty:  true,
			Notice: &dto.Notice{Level: noticeLevel(err), Message: net.UserMessage(err, fallback)},
		})
		return
	}
	ctx.JSON(http.StatusOK, dto.PageResp{Data: data, Empty: isEmpty(data)})
}

// done 写接口：成功带 success 提示，失败按错误类型给状态码
func done(ctx *gin.Context, data any, err error, success, fallback string) {
	if err != nil {
		fail(ctx, err, fallback)
		return
	}
	resp := dto.PageResp{Data: data}
	if success != "" {
		resp.Notice = &dto.Notice{Level: dto.NoticeSuccess, Message: success}
	}
	ctx.JSON(http.StatusOK, resp)
}

// fail 只返回错误提示
func fail(ctx *gin.Context, err error, fallback string) {
	logFailure(ctx, err)
	ctx.JSON(statusOf(err), dto.PageResp{
		Notice: &dto.Notice{Level: noticeLevel(err), Message: net.UserMessage(err, fallback)},
	})
}

// badRequest 参数绑定失败
func badRequest(ctx *gin.Context, err error) {
	logger.Module("controller").WithField("path", ctx.FullPath()).Debugf("bind failed: %v", err)
	ctx.JSON(http.StatusBadRequest, dto.PageResp{
		Notice: &dto.Notice{Level: dto.NoticeError, Message: msgBadRequest},
	})
}

// ==================== 会话作用域 ====================

// scopeOf 当前会话的调用范围
// 查询参数 storeId 只能是会话里已有的店铺
func scopeOf(ctx *gin.Context) service.Scope {
	st := middleware.GetSession(ctx)
	sc := service.ScopeOf(st)
	if id := ctx.Query("storeId"); id != "" && st != nil {
		for _, s := range st.Snapshot().Stores {
			if s.ID == id {
				sc.StoreID = id
				break
			}
		}
	}
	return sc
}

func sessionOf(ctx *gin.Context) *session.Store {
	return middleware.GetSession(ctx)
}

// ==================== 工具函数 ====================

func statusOf(err error) int {
	var vErr *net.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}
	if code := net.StatusCode(err); code >= 400 && code < 500 {
		return code
	}
	if net.StatusCode(err) == http.StatusOK {
		// success:false
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func noticeLevel(err error) string {
	var vErr *net.ValidationError
	if errors.As(err, &vErr) {
		return dto.NoticeWarning
	}
	return dto.NoticeError
}

func logFailure(ctx *gin.Context, err error) {
	var vErr *net.ValidationError
	if errors.As(err, &vErr) {
		return
	}
	logger.LogError("controller", ctx.HandlerName(), ctx.Request.Method+" "+ctx.FullPath(), nil, err)
}

// isEmpty 切片或 map 长度为 0
func isEmpty(data any) bool {
	if data == nil {
		return true
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	}
	return false
}
