package dto

import "encoding/json"

// ================== 订单 DTO ==================

// OrderListReq 订单筛选
type OrderListReq struct {
	StoreID string `form:"storeId"`
	Status  string `form:"status"`
}

// OrderListResp GET /orders
type OrderListResp struct {
	Orders []OrderRecord `json:"orders"`
}

// OrderItem 订单行
type OrderItem struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Qty      int         `json:"qty"`
	ImageURL *string     `json:"imageUrl,omitempty"`
}

// OrderCustomer 下单人
type OrderCustomer struct {
	Name       string  `json:"name,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Address    string  `json:"address,omitempty"`
	Note       string  `json:"note,omitempty"`
	LineUserID *string `json:"lineUserId,omitempty"`
}

// OrderPayment 付款信息
type OrderPayment struct {
	Method      string      `json:"method,omitempty"`
	PromptpayID string      `json:"promptpayId,omitempty"`
	QRURL       string      `json:"qrUrl,omitempty"`
	SlipURL     string      `json:"slipUrl,omitempty"`
	Amount      json.Number `json:"amount,omitempty"`
}

// OrderRecord 订单
type OrderRecord struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"storeId"`
	Status      string          `json:"status"`
	StatusLabel string          `json:"statusLabel"`
	Total       json.Number     `json:"total"`
	Items       []OrderItem     `json:"items"`
	Customer    *OrderCustomer  `json:"customer,omitempty"`
	Payment     *OrderPayment   `json:"payment,omitempty"`
	CreatedAt   json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt   json.RawMessage `json:"updatedAt,omitempty"`
}

// UpdateOrderStatusReq 修改订单状态
type UpdateOrderStatusReq struct {
	Status string `json:"status" binding:"required,oneof=awaiting_payment pending_review paid shipped refunded cancelled"`
}
