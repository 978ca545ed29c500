package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"lineboost_console/internal/api/dto"
	"lineboost_console/pkg/net"
)

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "รอโอน", StatusLabel(OrderAwaitingPayment))
	assert.Equal(t, "ยกเลิก", StatusLabel(OrderCancelled))
	assert.Equal(t, "on_hold", StatusLabel("on_hold"))
	assert.Len(t, OrderStatuses, 6)
}

func TestBuildOrderWorkbook(t *testing.T) {
	orders := []dto.OrderRecord{
		{
			ID:       "o-1",
			Status:   OrderPaid,
			Total:    json.Number("1290.50"),
			Items:    []dto.OrderItem{{Name: "Tea", Qty: 2}, {Name: "Cake", Qty: 1}},
			Customer: &dto.OrderCustomer{Name: "สมชาย", Phone: "0812345678", Address: "Bangkok"},
			Payment:  &dto.OrderPayment{SlipURL: "https://cdn.test/slip.jpg"},
		},
		{ID: "o-2", Status: "unknown", Total: json.Number("0")},
	}

	data, err := BuildOrderWorkbook(orders)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if !assert.NoError(t, err) {
		return
	}
	defer f.Close()

	rows, err := f.GetRows("Orders")
	assert.NoError(t, err)
	if assert.Len(t, rows, 3) {
		assert.Equal(t, orderSheetHeaders, rows[0])
		assert.Equal(t, "o-1", rows[1][0])
		assert.Equal(t, "ชำระแล้ว", rows[1][1])
		assert.Equal(t, "1290.5", rows[1][2])
		assert.Equal(t, "สมชาย", rows[1][3])
		assert.Equal(t, "Tea x2, Cake x1", rows[1][7])
		assert.Equal(t, "https://cdn.test/slip.jpg", rows[1][8])
		assert.Equal(t, "unknown", rows[2][1])
	}
}

func TestOrderService_ListLabelsAndFilter(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/orders", 200, `{"success":true,"data":{"orders":[{"id":"o-1","status":"pending_review","total":100,"items":[]}]}}`)
	svc := NewOrderService(api)

	got, err := svc.List(context.Background(), Scope{Token: "tok", StoreID: "s1"}, "")

	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "รอตรวจสอบ", got[0].StatusLabel)
	}
	// 空状态不带 status 参数
	rec, _ := b.last("GET", "/orders")
	assert.Equal(t, "storeId=s1", rec.Query)
}

func TestOrderService_UpdateStatusValidation(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("PATCH", "/orders/o-1", 200, `{"success":true}`)
	svc := NewOrderService(api)
	sc := Scope{Token: "tok", StoreID: "s1"}

	err := svc.UpdateStatus(context.Background(), sc, "o-1", "lost")
	var vErr *net.ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, 0, b.count("PATCH", "/orders/o-1"))

	assert.NoError(t, svc.UpdateStatus(context.Background(), sc, "o-1", OrderShipped))
	rec, _ := b.last("PATCH", "/orders/o-1")
	assert.Equal(t, "shipped", rec.Body["status"])
	assert.Equal(t, "s1", rec.Body["storeId"])
}
