package controller

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/service"
	"lineboost_console/pkg/logger"
)

// InboxController 收件箱
type InboxController struct {
	inboxSvc *service.InboxService

	// 每个会话只保留一条实时流，切换客户时关闭旧的
	mu      sync.Mutex
	streams map[string]*inboxStream
}

type inboxStream struct {
	customerID string
	cancel     context.CancelFunc
}

func NewInboxController(inboxSvc *service.InboxService) *InboxController {
	return &InboxController{inboxSvc: inboxSvc, streams: make(map[string]*inboxStream)}
}

// GetCustomers 会话列表
func (c *InboxController) GetCustomers(ctx *gin.Context) {
	list, err := c.inboxSvc.Customers(ctx.Request.Context(), scopeOf(ctx))
	page(ctx, list, err, "โหลดรายชื่อลูกค้าไม่สำเร็จ")
}

// GetHistory 聊天记录
func (c *InboxController) GetHistory(ctx *gin.Context) {
	list, err := c.inboxSvc.History(ctx.Request.Context(), scopeOf(ctx), ctx.Param("id"))
	if list == nil {
		list = []dto.InboxMessage{}
	}
	page(ctx, list, err, "โหลดประวัติแชทไม่สำเร็จ")
}

// SendMessage 回复客户
func (c *InboxController) SendMessage(ctx *gin.Context) {
	var req dto.SendMessageReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	err := c.inboxSvc.Send(ctx.Request.Context(), scopeOf(ctx), ctx.Param("id"), req.Message)
	done(ctx, nil, err, "", "ส่งข้อความไม่สำเร็จ")
}

// Suggest AI 建议回复
func (c *InboxController) Suggest(ctx *gin.Context) {
	replies, err := c.inboxSvc.Suggest(ctx.Request.Context(), scopeOf(ctx), ctx.Param("id"))
	if replies == nil {
		replies = []string{}
	}
	done(ctx, dto.SuggestResp{Replies: replies}, err, "", "สร้างคำตอบแนะนำไม่สำเร็จ")
}

// SetAdmin 标记客户为管理员
func (c *InboxController) SetAdmin(ctx *gin.Context) {
	var req dto.CustomerAdminReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	err := c.inboxSvc.SetAdmin(ctx.Request.Context(), scopeOf(ctx), ctx.Param("id"), *req.IsAdmin)
	done(ctx, gin.H{"isAdmin": *req.IsAdmin}, err, "อัปเดตสิทธิ์แล้ว", "อัปเดตสิทธิ์ไม่สำเร็จ")
}

// Stream 把后端 SSE 转发给浏览器
// 1. 关闭该会话之前的流
// 2. 订阅后端，按客户过滤
// 3. 浏览器断开或被新流替换时退出
func (c *InboxController) Stream(ctx *gin.Context) {
	st := sessionOf(ctx)
	customerID := ctx.Param("id")

	streamCtx, cancel := context.WithCancel(ctx.Request.Context())
	own := c.replace(st.Key(), customerID, cancel)
	defer c.release(st.Key(), own)
	defer cancel()

	msgs, sub, err := c.inboxSvc.Stream(streamCtx, scopeOf(ctx), customerID)
	if err != nil {
		fail(ctx, err, "เชื่อมต่อแชทแบบเรียลไทม์ไม่สำเร็จ")
		return
	}
	defer sub.Close()

	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-msgs:
			if !ok {
				if err := sub.Err(); err != nil {
					ctx.SSEvent("error", gin.H{"message": "การเชื่อมต่อแชทถูกตัด"})
					logger.Module("inbox").WithField("customer", customerID).Warnf("stream closed: %v", err)
				}
				return false
			}
			ctx.SSEvent("message", msg)
			return true
		case <-heartbeat.C:
			ctx.SSEvent("ping", time.Now().Unix())
			return true
		case <-streamCtx.Done():
			return false
		}
	})
}

func (c *InboxController) replace(sessionKey, customerID string, cancel context.CancelFunc) *inboxStream {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.streams[sessionKey]; ok {
		prev.cancel()
	}
	s := &inboxStream{customerID: customerID, cancel: cancel}
	c.streams[sessionKey] = s
	return s
}

// release 只删除自己登记的流
func (c *InboxController) release(sessionKey string, own *inboxStream) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.streams[sessionKey] == own {
		delete(c.streams, sessionKey)
	}
}

// ActiveStreams 当前打开的实时流数量
func (c *InboxController) ActiveStreams() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.streams)
}
