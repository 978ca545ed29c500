package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// OrderController 订单页
type OrderController struct {
	orderSvc *service.OrderService
}

func NewOrderController(orderSvc *service.OrderService) *OrderController {
	return &OrderController{orderSvc: orderSvc}
}

// GetOrderList 订单列表，可按状态筛选
// @Summary 订单列表
// @Tags Order
// @Produce json
// @Param storeId query string false "店铺 ID，缺省为当前店铺"
// @Param status query string false "订单状态"
// @Success 200 {object} dto.PageResp
// @Router /api/console/orders [get]
func (c *OrderController) GetOrderList(ctx *gin.Context) {
	var req dto.OrderListReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	orders, err := c.orderSvc.List(ctx.Request.Context(), scopeOf(ctx), req.Status)
	page(ctx, orders, err, "โหลดคำสั่งซื้อไม่สำเร็จ")
}

// GetStatuses 可选状态及泰文名称
func (c *OrderController) GetStatuses(ctx *gin.Context) {
	out := make([]gin.H, 0, len(service.OrderStatuses))
	for _, s := range service.OrderStatuses {
		out = append(out, gin.H{"value": s, "label": service.StatusLabel(s)})
	}
	page(ctx, out, nil, "")
}

// UpdateStatus 修改订单状态
func (c *OrderController) UpdateStatus(ctx *gin.Context) {
	var req dto.UpdateOrderStatusReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	orderID := ctx.Param("id")
	err := c.orderSvc.UpdateStatus(ctx.Request.Context(), scopeOf(ctx), orderID, req.Status)
	done(ctx, gin.H{"id": orderID, "status": req.Status, "statusLabel": service.StatusLabel(req.Status)},
		err, "อัปเดตสถานะแล้ว", "อัปเดตสถานะไม่สำเร็จ")
}

// Export 下载 Excel
func (c *OrderController) Export(ctx *gin.Context) {
	sc := scopeOf(ctx)
	data, err := c.orderSvc.ExportXLSX(ctx.Request.Context(), sc, ctx.Query("status"))
	if err != nil {
		fail(ctx, err, "ส่งออกไฟล์ไม่สำเร็จ")
		return
	}
	name := fmt.Sprintf("orders-%s-%s.xlsx", sc.StoreID, time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	ctx.Data(http.StatusOK, xlsxContentType, data)
}
