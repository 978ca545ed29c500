package dto

import "encoding/json"

// ================== 管理员店铺 DTO ==================

// AdminShop 管理后台的店铺
type AdminShop struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	OwnerEmail    string `json:"ownerEmail"`
	Tier          string `json:"tier"` // Free / Pro
	LineConnected bool   `json:"lineConnected"`
	ShopID        string `json:"shop_id,omitempty"`
	PublicURL     string `json:"public_url,omitempty"`
}

// CreateAdminShopReq 新建店铺
type CreateAdminShopReq struct {
	Name     string `json:"name" binding:"required"`
	OwnerUID string `json:"owner_uid" binding:"required"`
}

// UpdateShopTierReq 修改店铺套餐
type UpdateShopTierReq struct {
	Tier string `json:"tier" binding:"required,oneof=Free Pro"`
}

// ShopIntegrationReq 对接配置，字段由后端定义
type ShopIntegrationReq map[string]json.RawMessage
