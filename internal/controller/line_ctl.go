package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/service"
	"lineboost_console/pkg/net"
)

// LineController LINE OA 连接
type LineController struct {
	lineSvc *service.LineService
}

func NewLineController(lineSvc *service.LineService) *LineController {
	return &LineController{lineSvc: lineSvc}
}

// GetStatus 查询并写回会话
func (c *LineController) GetStatus(ctx *gin.Context) {
	status, err := c.lineSvc.Status(ctx.Request.Context(), sessionOf(ctx))
	page(ctx, status, err, "ตรวจสอบสถานะ LINE ไม่สำเร็จ")
}

// Connect 返回授权地址，前端自行跳转
func (c *LineController) Connect(ctx *gin.Context) {
	var req dto.LineConnectReq
	// 请求体可以为空
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			badRequest(ctx, err)
			return
		}
	}
	resp, err := c.lineSvc.Connect(ctx.Request.Context(), scopeOf(ctx), req.State)
	done(ctx, resp, err, "", "เชื่อมต่อ LINE ไม่สำเร็จ")
}

// Callback LINE 授权回跳，完成后回到设置页
func (c *LineController) Callback(ctx *gin.Context) {
	if reason := ctx.Query("error"); reason != "" {
		ctx.Redirect(http.StatusFound, "/app/settings?line=denied")
		return
	}
	var q dto.LineCallbackQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.Redirect(http.StatusFound, "/app/settings?line=invalid")
		return
	}

	if _, err := c.lineSvc.Callback(ctx.Request.Context(), sessionOf(ctx), q); err != nil {
		logFailure(ctx, err)
		ctx.Redirect(http.StatusFound, "/app/settings?line=error&message="+net.UserMessage(err, "เชื่อมต่อ LINE ไม่สำเร็จ"))
		return
	}
	ctx.Redirect(http.StatusFound, "/app/settings?line=connected")
}
