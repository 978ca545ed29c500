package dto

// ================== 收件箱 DTO ==================

// InboxCustomer 会话列表项
type InboxCustomer struct {
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	PictureURL   string `json:"pictureUrl,omitempty"`
	LastMessage  string `json:"lastMessage,omitempty"`
	LastActivity string `json:"lastActivity,omitempty"`
	IsAdmin      bool   `json:"isAdmin,omitempty"`
}

// InboxMessage 聊天记录
type InboxMessage struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	IsFromUser bool   `json:"isFromUser"`
	Timestamp  string `json:"timestamp"`
}

// SendMessageReq 回复客户
type SendMessageReq struct {
	Message string `json:"message" binding:"required"`
}

// SuggestResp AI 建议回复
type SuggestResp struct {
	Replies []string `json:"replies"`
}

// CustomerAdminReq 设置客户为管理员
type CustomerAdminReq struct {
	IsAdmin *bool `json:"isAdmin" binding:"required"`
}

// RecentMessage 仪表盘最近消息
type RecentMessage struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
	Timestamp   string `json:"timestamp"`
}
