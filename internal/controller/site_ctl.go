package controller

import (
	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/service"
	"lineboost_console/pkg/siteconfig"
)

// SiteController 网站搭建页
type SiteController struct {
	siteSvc *service.SiteService
}

func NewSiteController(siteSvc *service.SiteService) *SiteController {
	return &SiteController{siteSvc: siteSvc}
}

// GetSite GET /sites 原样返回草稿和已发布版本
func (c *SiteController) GetSite(ctx *gin.Context) {
	site, err := c.siteSvc.Get(ctx.Request.Context(), scopeOf(ctx))
	page(ctx, site, err, "โหลดข้อมูลเว็บไซต์ไม่สำเร็จ")
}

// GetBuilder 搭建页初始数据
func (c *SiteController) GetBuilder(ctx *gin.Context) {
	state, err := c.siteSvc.Builder(ctx.Request.Context(), sessionOf(ctx), ctx.Query("template"))
	page(ctx, state, err, "โหลดข้อมูลเว็บไซต์ไม่สำเร็จ")
}

// ApplyTemplate 切换模板，不保存
func (c *SiteController) ApplyTemplate(ctx *gin.Context) {
	storeName := ""
	if snap := sessionOf(ctx).Snapshot(); snap.Store != nil {
		storeName = snap.Store.Name
	}
	page(ctx, c.siteSvc.ApplyTemplate(ctx.Param("template"), storeName), nil, "")
}

// Preview 编辑中的配置实时预览
func (c *SiteController) Preview(ctx *gin.Context) {
	var req dto.SaveSiteReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	storeName := ""
	if snap := sessionOf(ctx).Snapshot(); snap.Store != nil {
		storeName = snap.Store.Name
	}
	page(ctx, siteconfig.NormalizeConfig(siteconfig.Config{V2: &req.Config}, storeName), nil, "")
}

// SaveDraft 保存草稿
func (c *SiteController) SaveDraft(ctx *gin.Context) {
	var req dto.SaveSiteReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	err := c.siteSvc.SaveDraft(ctx.Request.Context(), scopeOf(ctx), req.Config)
	done(ctx, nil, err, "บันทึกแบบร่างแล้ว", "บันทึกแบบร่างไม่สำเร็จ")
}

// Replace PUT /sites
func (c *SiteController) Replace(ctx *gin.Context) {
	var req dto.SaveSiteReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	err := c.siteSvc.Replace(ctx.Request.Context(), scopeOf(ctx), req.Config)
	done(ctx, nil, err, "บันทึกเว็บไซต์แล้ว", "บันทึกเว็บไซต์ไม่สำเร็จ")
}

// Publish 保存并发布
func (c *SiteController) Publish(ctx *gin.Context) {
	var req dto.SaveSiteReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	publicURL, err := c.siteSvc.Publish(ctx.Request.Context(), scopeOf(ctx), req.Config)
	data := gin.H{"publicUrl": publicURL}
	if publicURL != "" {
		data["liffUrl"] = c.siteSvc.LiffURL(publicURL)
	}
	done(ctx, data, err, "เผยแพร่เว็บไซต์แล้ว", "เผยแพร่ไม่สำเร็จ")
}
