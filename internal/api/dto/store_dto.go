package dto

// ================== 店铺 DTO ==================

// StoreListResp GET /stores
type StoreListResp struct {
	Stores []StoreItem `json:"stores"`
}

// StoreItem 店铺
type StoreItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateStoreReq 新建店铺
type CreateStoreReq struct {
	Name string `json:"name" binding:"required"`
}

// CreateStoreResp POST /stores
type CreateStoreResp struct {
	Store StoreItem `json:"store"`
}

// ResetStoreReq 重置店铺数据，需要输入 RESET 确认
type ResetStoreReq struct {
	Confirm string `json:"confirm" binding:"required,eq=RESET"`
}

// StoreStats 后端统计字段不固定，原样透传
type StoreStats map[string]any

// LineCredentials GET /stores/{id}/line-credentials
type LineCredentials struct {
	ChannelAccessToken string `json:"channelAccessToken,omitempty"`
	ChannelSecret      string `json:"channelSecret,omitempty"`
	LineUserID         string `json:"lineUserId,omitempty"`
	DisplayName        string `json:"displayName,omitempty"`
	BasicID            string `json:"basicId,omitempty"`
	LineID             string `json:"lineId,omitempty"`
	LineOAURL          string `json:"lineOaUrl,omitempty"`
}

// SaveLineCredentialsReq POST /stores/{id}/line-credentials
type SaveLineCredentialsReq struct {
	ChannelAccessToken string `json:"channelAccessToken" binding:"required"`
	ChannelSecret      string `json:"channelSecret" binding:"required"`
	LineUserID         string `json:"lineUserId"`
	DisplayName        string `json:"displayName"`
	BasicID            string `json:"basicId"`
}

// LineOALink 店铺 OA 加好友链接
type LineOALink struct {
	BasicID string `json:"basicId"`
	URL     string `json:"url"`
}

// AISettings /stores/{id}/ai-settings
type AISettings struct {
	AIEnable bool `json:"aiEnable"`
}

// UpdateAISettingsReq 更新 AI 自动回复开关
type UpdateAISettingsReq struct {
	AIEnable *bool `json:"aiEnable" binding:"required"`
}
