package controller

import (
	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/service"
)

// AnalyticsController 仪表盘与数据分析
type AnalyticsController struct {
	analyticsSvc *service.AnalyticsService
	siteSvc      *service.SiteService
}

func NewAnalyticsController(analyticsSvc *service.AnalyticsService, siteSvc *service.SiteService) *AnalyticsController {
	return &AnalyticsController{analyticsSvc: analyticsSvc, siteSvc: siteSvc}
}

// GetDashboard 首页数据
func (c *AnalyticsController) GetDashboard(ctx *gin.Context) {
	data, err := c.analyticsSvc.Dashboard(ctx.Request.Context(), sessionOf(ctx))
	page(ctx, data, err, "โหลดแดชบอร์ดไม่สำเร็จ")
}

// GetOverview 消息分析 + 网站分析
func (c *AnalyticsController) GetOverview(ctx *gin.Context) {
	var q dto.AnalyticsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		badRequest(ctx, err)
		return
	}
	data, err := c.analyticsSvc.Overview(ctx.Request.Context(), scopeOf(ctx), q.Period, q.Days)
	page(ctx, data, err, "โหลดข้อมูลวิเคราะห์ไม่สำเร็จ")
}

// GetMessages GET /analytics
func (c *AnalyticsController) GetMessages(ctx *gin.Context) {
	var q dto.AnalyticsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		badRequest(ctx, err)
		return
	}
	data, err := c.analyticsSvc.Messages(ctx.Request.Context(), scopeOf(ctx), q.Period)
	page(ctx, data, err, "โหลดข้อมูลวิเคราะห์ไม่สำเร็จ")
}

// GetSiteAnalytics GET /sites/analytics
func (c *AnalyticsController) GetSiteAnalytics(ctx *gin.Context) {
	var q dto.AnalyticsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		badRequest(ctx, err)
		return
	}
	data, err := c.siteSvc.Analytics(ctx.Request.Context(), scopeOf(ctx), q.Days)
	page(ctx, data, err, "โหลดสถิติเว็บไซต์ไม่สำเร็จ")
}
