package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"lineboost_console/internal/api/dto"
	"lineboost_console/pkg/net"
)

// 订单状态
const (
	OrderAwaitingPayment = "awaiting_payment"
	OrderPendingReview   = "pending_review"
	OrderPaid            = "paid"
	OrderShipped         = "shipped"
	OrderRefunded        = "refunded"
	OrderCancelled       = "cancelled"
)

var orderStatusLabels = map[string]string{
	OrderAwaitingPayment: "รอโอน",
	OrderPendingReview:   "รอตรวจสอบ",
	OrderPaid:            "ชำระแล้ว",
	OrderShipped:         "จัดส่งแล้ว",
	OrderRefunded:        "คืนเงิน",
	OrderCancelled:       "ยกเลิก",
}

// OrderStatuses 筛选下拉框顺序
var OrderStatuses = []string{
	OrderAwaitingPayment, OrderPendingReview, OrderPaid, OrderShipped, OrderRefunded, OrderCancelled,
}

// StatusLabel 未知状态原样返回
func StatusLabel(status string) string {
	if label, ok := orderStatusLabels[status]; ok {
		return label
	}
	return status
}

type OrderService struct {
	api *net.Client
}

func NewOrderService(api *net.Client) *OrderService {
	return &OrderService{api: api}
}

// List 订单列表，status 为空时不过滤
func (s *OrderService) List(ctx context.Context, sc Scope, status string) ([]dto.OrderRecord, error) {
	if err := sc.requireStore(); err != nil {
		return []dto.OrderRecord{}, err
	}
	req := net.Get("/orders", sc.Token).WithQuery("storeId", sc.StoreID).WithQuery("status", status)
	resp, err := net.Data[dto.OrderListResp](ctx, s.api, req)
	if err != nil {
		return []dto.OrderRecord{}, err
	}

	orders := resp.Orders
	if orders == nil {
		orders = []dto.OrderRecord{}
	}
	for i := range orders {
		orders[i].StatusLabel = StatusLabel(orders[i].Status)
	}
	return orders, nil
}

// UpdateStatus 修改订单状态
func (s *OrderService) UpdateStatus(ctx context.Context, sc Scope, orderID, status string) error {
	if err := sc.requireStore(); err != nil {
		return err
	}
	if _, ok := orderStatusLabels[status]; !ok {
		return net.NewValidationError("status", "สถานะคำสั่งซื้อไม่ถูกต้อง")
	}
	body := map[string]string{"storeId": sc.StoreID, "status": status}
	return s.api.Exec(ctx, net.Patch(net.JoinPath("orders", orderID), body, sc.Token))
}

// ==================== 导出 ====================

var orderSheetHeaders = []string{
	"Order ID", "สถานะ", "ยอดรวม", "ลูกค้า", "เบอร์โทร", "ที่อยู่", "หมายเหตุ", "สินค้า", "สลิป",
}

// ExportXLSX 导出订单为 Excel
func (s *OrderService) ExportXLSX(ctx context.Context, sc Scope, status string) ([]byte, error) {
	orders, err := s.List(ctx, sc, status)
	if err != nil {
		return nil, err
	}
	return BuildOrderWorkbook(orders)
}

// BuildOrderWorkbook 一行一个订单
func BuildOrderWorkbook(orders []dto.OrderRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, h := range orderSheetHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, o := range orders {
		row := i + 2
		total, _ := decimal.NewFromString(o.Total.String())
		values := []any{
			o.ID,
			StatusLabel(o.Status),
			total.InexactFloat64(),
			customerField(o.Customer, func(c *dto.OrderCustomer) string { return c.Name }),
			customerField(o.Customer, func(c *dto.OrderCustomer) string { return c.Phone }),
			customerField(o.Customer, func(c *dto.OrderCustomer) string { return c.Address }),
			customerField(o.Customer, func(c *dto.OrderCustomer) string { return c.Note }),
			itemsSummary(o.Items),
			slipURL(o.Payment),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("生成 Excel 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func customerField(c *dto.OrderCustomer, get func(*dto.OrderCustomer) string) string {
	if c == nil {
		return ""
	}
	return get(c)
}

func itemsSummary(items []dto.OrderItem) string {
	var buf bytes.Buffer
	for i, it := range items {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s x%d", it.Name, it.Qty)
	}
	return buf.String()
}

func slipURL(p *dto.OrderPayment) string {
	if p == nil {
		return ""
	}
	return p.SlipURL
}
