package dto

import "encoding/json"

// ================== 广播 DTO ==================

// BroadcastReq 普通文本广播
type BroadcastReq struct {
	Content string `json:"content" binding:"required"`
}

// BroadcastAIReq AI 生成文案
type BroadcastAIReq struct {
	Content string `json:"content" binding:"required"`
}

// BroadcastCard 卡片消息
type BroadcastCard struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"imageUrl,omitempty"`
	CtaLabel string `json:"ctaLabel,omitempty"`
	CtaURL   string `json:"ctaUrl,omitempty"`
	AltText  string `json:"altText,omitempty"`
}

// BroadcastFlex Flex 消息，contents 原样透传
type BroadcastFlex struct {
	Contents json.RawMessage `json:"contents"`
	AltText  string          `json:"altText,omitempty"`
}

// BroadcastVariant AI 返回的一种版式
type BroadcastVariant struct {
	Type    string         `json:"type"` // text / card / flex
	Text    string         `json:"text,omitempty"`
	AltText string         `json:"altText,omitempty"`
	Card    *BroadcastCard `json:"card,omitempty"`
	Flex    *BroadcastFlex `json:"flex,omitempty"`
}

// BroadcastAIResp POST /mcp/line/broadcast/ai
type BroadcastAIResp struct {
	Variants  []BroadcastVariant `json:"variants"`
	Preferred *BroadcastVariant  `json:"preferred,omitempty"`
}

// BroadcastSendReq 发送选中的版式
type BroadcastSendReq struct {
	Type string         `json:"type" binding:"required,oneof=text card flex"`
	Text string         `json:"text,omitempty"`
	Card *BroadcastCard `json:"card,omitempty"`
	Flex *BroadcastFlex `json:"flex,omitempty"`
}

// BroadcastQuota 发送后剩余额度
type BroadcastQuota struct {
	Remaining *int `json:"remaining,omitempty"`
	Limit     *int `json:"limit,omitempty"`
	Used      *int `json:"used,omitempty"`
}

// BroadcastResult 发送结果
type BroadcastResult struct {
	Quota *BroadcastQuota `json:"quota,omitempty"`
}

// UploadImageResp 上传图片后的公开地址
type UploadImageResp struct {
	URL string `json:"url"`
}
