package dto

import "lineboost_console/internal/session"

// ================== 登录 DTO ==================

// LoginReq 前端用 Firebase 登录后提交 ID Token
type LoginReq struct {
	IDToken string `json:"idToken" binding:"required"`
}

// LoginResp 登录结果
type LoginResp struct {
	Token   string           `json:"token"`
	Session session.Snapshot `json:"session"`
}

// SelectStoreReq 切换店铺
type SelectStoreReq struct {
	StoreID string `json:"storeId" binding:"required"`
}

// LineOAReq 前端回写 LINE 状态
type LineOAReq struct {
	session.LineOAPatch
}
