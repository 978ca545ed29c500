package controller

import (
	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/service"
)

// AdminController 平台管理员：店铺管理
// 是否有权限由后端判断，这里只转发
type AdminController struct {
	adminSvc *service.AdminService
}

func NewAdminController(adminSvc *service.AdminService) *AdminController {
	return &AdminController{adminSvc: adminSvc}
}

// GetShopList 全部店铺，支持 keyword 搜索
// @Summary 管理员店铺列表
// @Tags Admin
// @Produce json
// @Param keyword query string false "店名或店主邮箱"
// @Success 200 {object} dto.PageResp
// @Router /api/console/admin/shops [get]
func (c *AdminController) GetShopList(ctx *gin.Context) {
	shops, err := c.adminSvc.Shops(ctx.Request.Context(), scopeOf(ctx).Token)
	page(ctx, service.FilterShops(shops, ctx.Query("keyword")), err, "โหลดรายชื่อร้านค้าไม่สำเร็จ")
}

func (c *AdminController) GetShopDetail(ctx *gin.Context) {
	shop, err := c.adminSvc.Shop(ctx.Request.Context(), scopeOf(ctx).Token, ctx.Param("id"))
	page(ctx, shop, err, "ไม่พบร้านค้า")
}

func (c *AdminController) CreateShop(ctx *gin.Context) {
	var req dto.CreateAdminShopReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	err := c.adminSvc.CreateShop(ctx.Request.Context(), scopeOf(ctx).Token, req)
	done(ctx, nil, err, "สร้างร้านค้าสำเร็จ", "สร้างร้านค้าไม่สำเร็จ")
}

func (c *AdminController) UpdateIntegration(ctx *gin.Context) {
	var req dto.ShopIntegrationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	err := c.adminSvc.UpdateIntegration(ctx.Request.Context(), scopeOf(ctx).Token, ctx.Param("id"), req)
	done(ctx, nil, err, "บันทึกการเชื่อมต่อแล้ว", "บันทึกการเชื่อมต่อไม่สำเร็จ")
}

func (c *AdminController) UpdateTier(ctx *gin.Context) {
	var req dto.UpdateShopTierReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	err := c.adminSvc.UpdateTier(ctx.Request.Context(), scopeOf(ctx).Token, ctx.Param("id"), req.Tier)
	done(ctx, gin.H{"tier": req.Tier}, err, "เปลี่ยนแพ็กเกจแล้ว", "เปลี่ยนแพ็กเกจไม่สำเร็จ")
}
