package dto

// ================== 控制台通用响应 ==================

// Notice 一次性提示
type Notice struct {
	Level   string `json:"level"` // success / info / warning / error
	Message string `json:"message"`
}

const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// PageResp 页面数据统一结构
// 失败时 Data 为空默认值，Notice 说明原因
type PageResp struct {
	Data   any     `json:"data"`
	Empty  bool    `json:"empty,omitempty"`
	Notice *Notice `json:"notice,omitempty"`
}

// StoreQuery 大部分读接口只需要可选的店铺 ID，缺省用当前店铺
type StoreQuery struct {
	StoreID string `form:"storeId"`
}
