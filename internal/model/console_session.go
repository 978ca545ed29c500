package model

import (
	"time"

	"gorm.io/datatypes"
)

// ConsoleSession 控制台会话的持久化部分
// 只保存用户、主题、当前店铺和上游 Token，店铺列表和 LINE 状态不落库
type ConsoleSession struct {
	BaseModel
	SessionKey      string         `gorm:"size:64;uniqueIndex;not null" json:"session_key"`
	UserID          string         `gorm:"size:128;index" json:"user_id"`
	UserData        datatypes.JSON `json:"user_data"`
	Theme           string         `gorm:"size:16" json:"theme"`
	ActiveStoreID   string         `gorm:"size:128" json:"active_store_id"`
	ActiveStoreName string         `gorm:"size:255" json:"active_store_name"`
	Token           string         `gorm:"type:text" json:"-"`
	ExpiresAt       time.Time      `gorm:"index" json:"expires_at"`
}

func (ConsoleSession) TableName() string {
	return "console_sessions"
}
