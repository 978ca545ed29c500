package dto

// ================== LINE OA DTO ==================

// LineStatus GET /line/status
type LineStatus struct {
	Connected     bool   `json:"connected"`
	LineAccountID string `json:"lineAccountId,omitempty"`
	LineUserID    string `json:"lineUserId,omitempty"`
	DisplayName   string `json:"displayName,omitempty"`
	PictureURL    string `json:"pictureUrl,omitempty"`
}

// LineConnectReq POST /line/connect
type LineConnectReq struct {
	State map[string]any `json:"state,omitempty"`
}

// LineConnectResp 后端返回的 LINE 授权地址
type LineConnectResp struct {
	URL string `json:"url"`
}

// LineCallbackQuery GET /callback
type LineCallbackQuery struct {
	Code  string `form:"code" binding:"required"`
	State string `form:"state" binding:"required"`
}

// LineCallbackResp 授权完成后的 OA 信息
type LineCallbackResp struct {
	DisplayName  string `json:"displayName"`
	UserID       string `json:"userId"`
	Followers    int    `json:"followers"`
	ResponseRate int    `json:"responseRate"`
}
