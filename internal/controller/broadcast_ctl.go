package controller

import (
	"io"

	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/service"
)

// BroadcastController 群发消息
type BroadcastController struct {
	broadcastSvc *service.BroadcastService
}

func NewBroadcastController(broadcastSvc *service.BroadcastService) *BroadcastController {
	return &BroadcastController{broadcastSvc: broadcastSvc}
}

// Send 普通文本群发
func (c *BroadcastController) Send(ctx *gin.Context) {
	var req dto.BroadcastReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	result, err := c.broadcastSvc.Send(ctx.Request.Context(), sessionOf(ctx), req.Content)
	done(ctx, result, err, "ส่งบรอดแคสต์สำเร็จ", "ส่งบรอดแคสต์ไม่สำเร็จ")
}

// GenerateAI AI 生成多种版式
func (c *BroadcastController) GenerateAI(ctx *gin.Context) {
	var req dto.BroadcastAIReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	resp, err := c.broadcastSvc.GenerateAI(ctx.Request.Context(), scopeOf(ctx), req.Content)
	done(ctx, resp, err, "", "สร้างข้อความด้วย AI ไม่สำเร็จ")
}

// SendVariant 发送选中的版式
func (c *BroadcastController) SendVariant(ctx *gin.Context) {
	var req dto.BroadcastSendReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	result, err := c.broadcastSvc.SendVariant(ctx.Request.Context(), sessionOf(ctx), req)
	done(ctx, result, err, "ส่งบรอดแคสต์สำเร็จ", "ส่งบรอดแคสต์ไม่สำเร็จ")
}

// UploadImage multipart 字段 image，上限 1 MiB
func (c *BroadcastController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		badRequest(ctx, err)
		return
	}
	if file.Size > service.MaxImageBytes {
		fail(ctx, service.ErrImageTooLarge, "")
		return
	}

	f, err := file.Open()
	if err != nil {
		badRequest(ctx, err)
		return
	}
	defer f.Close()

	// 多读一个字节判断是否超限
	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageBytes+1))
	if err != nil {
		badRequest(ctx, err)
		return
	}

	url, err := c.broadcastSvc.UploadImage(ctx.Request.Context(), scopeOf(ctx), file.Filename, file.Header.Get("Content-Type"), data)
	done(ctx, dto.UploadImageResp{URL: url}, err, "", "อัปโหลดรูปไม่สำเร็จ")
}
