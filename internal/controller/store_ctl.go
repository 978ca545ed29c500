package controller

import (
	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/service"
)

// StoreController 店铺与设置页
type StoreController struct {
	storeSvc *service.StoreService
}

func NewStoreController(storeSvc *service.StoreService) *StoreController {
	return &StoreController{storeSvc: storeSvc}
}

// GetStoreList 当前用户的店铺，同时刷新会话
// @Summary 店铺列表
// @Tags Store
// @Produce json
// @Success 200 {object} dto.PageResp
// @Router /api/console/stores [get]
func (c *StoreController) GetStoreList(ctx *gin.Context) {
	st := sessionOf(ctx)
	err := c.storeSvc.Sync(ctx.Request.Context(), st)
	snap := st.Snapshot()
	page(ctx, gin.H{"stores": snap.Stores, "store": snap.Store}, err, "โหลดรายชื่อร้านค้าไม่สำเร็จ")
}

// CreateStore 新建店铺并切换
func (c *StoreController) CreateStore(ctx *gin.Context) {
	var req dto.CreateStoreReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	store, err := c.storeSvc.Create(ctx.Request.Context(), sessionOf(ctx), req.Name)
	done(ctx, store, err, "สร้างร้านค้าสำเร็จ", "สร้างร้านค้าไม่สำเร็จ")
}

// ResetStore 清空店铺数据，请求体必须是 {"confirm":"RESET"}
func (c *StoreController) ResetStore(ctx *gin.Context) {
	var req dto.ResetStoreReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	err := c.storeSvc.Reset(ctx.Request.Context(), scopeOf(ctx))
	done(ctx, nil, err, "รีเซ็ตข้อมูลร้านค้าแล้ว", "รีเซ็ตข้อมูลไม่สำเร็จ")
}

// GetStats 店铺统计
func (c *StoreController) GetStats(ctx *gin.Context) {
	stats, err := c.storeSvc.Stats(ctx.Request.Context(), scopeOf(ctx))
	page(ctx, stats, err, "โหลดสถิติไม่สำเร็จ")
}

// GetLineCredentials Messaging API 凭证
func (c *StoreController) GetLineCredentials(ctx *gin.Context) {
	creds, err := c.storeSvc.LineCredentials(ctx.Request.Context(), scopeOf(ctx))
	page(ctx, creds, err, "โหลดข้อมูล LINE ไม่สำเร็จ")
}

// SaveLineCredentials 保存凭证
func (c *StoreController) SaveLineCredentials(ctx *gin.Context) {
	var req dto.SaveLineCredentialsReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	err := c.storeSvc.SaveLineCredentials(ctx.Request.Context(), scopeOf(ctx), req)
	done(ctx, nil, err, "บันทึกข้อมูล LINE สำเร็จ", "บันทึกข้อมูล LINE ไม่สำเร็จ")
}

// GetOALink 加好友链接
func (c *StoreController) GetOALink(ctx *gin.Context) {
	link, err := c.storeSvc.OALink(ctx.Request.Context(), scopeOf(ctx))
	page(ctx, link, err, "")
}

// GetAISettings AI 自动回复开关
func (c *StoreController) GetAISettings(ctx *gin.Context) {
	settings, err := c.storeSvc.AISettings(ctx.Request.Context(), scopeOf(ctx))
	page(ctx, settings, err, "โหลดการตั้งค่า AI ไม่สำเร็จ")
}

// UpdateAISettings 修改开关
func (c *StoreController) UpdateAISettings(ctx *gin.Context) {
	var req dto.UpdateAISettingsReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	err := c.storeSvc.UpdateAISettings(ctx.Request.Context(), scopeOf(ctx), *req.AIEnable)
	done(ctx, dto.AISettings{AIEnable: *req.AIEnable}, err, "บันทึกการตั้งค่าแล้ว", "บันทึกการตั้งค่าไม่สำเร็จ")
}
