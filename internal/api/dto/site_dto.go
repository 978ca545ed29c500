package dto

import (
	"encoding/json"

	"lineboost_console/pkg/siteconfig"
)

// ================== 网站搭建 DTO ==================

// SiteDraft 草稿
type SiteDraft struct {
	Config    siteconfig.Config `json:"config"`
	UpdatedAt json.RawMessage   `json:"updatedAt,omitempty"`
}

// SitePublished 已发布版本
type SitePublished struct {
	Config      siteconfig.Config `json:"config"`
	Slug        string            `json:"slug"`
	Version     int               `json:"version"`
	PublishedAt json.RawMessage   `json:"publishedAt,omitempty"`
}

// SiteResp GET /sites
type SiteResp struct {
	Draft     *SiteDraft     `json:"draft"`
	Published *SitePublished `json:"published"`
}

// SaveSiteReq 保存草稿/发布时提交的配置
type SaveSiteReq struct {
	Config siteconfig.V2 `json:"config"`
}

// PublishResp POST /sites/publish
type PublishResp struct {
	Slug string `json:"slug"`
}

// BuilderState 搭建页面的完整数据
type BuilderState struct {
	Config    siteconfig.V2             `json:"config"`
	Preview   siteconfig.NormalizedSite `json:"preview"`
	Templates []siteconfig.TemplateInfo `json:"templates"`
	HasDraft  bool                      `json:"hasDraft"`
	Published *SitePublished            `json:"published,omitempty"`
	PublicURL string                    `json:"publicUrl,omitempty"`
	LiffURL   string                    `json:"liffUrl,omitempty"`
	LineOAURL string                    `json:"lineOaUrl,omitempty"`
}

// SiteAnalytics GET /sites/analytics
type SiteAnalytics struct {
	Days           int        `json:"days"`
	PageViews      int        `json:"pageViews"`
	UniqueSessions int        `json:"uniqueSessions"`
	CtaClicks      int        `json:"ctaClicks"`
	TopPages       []PageStat `json:"topPages"`
}

// PageStat 页面访问排行
type PageStat struct {
	Page  string `json:"page"`
	Count int    `json:"count"`
}

// PublicSite GET /public/sites/{slug}
type PublicSite struct {
	StoreID      string            `json:"storeId"`
	Config       siteconfig.Config `json:"config"`
	Version      int               `json:"version"`
	BusinessInfo *struct {
		Name string `json:"name"`
	} `json:"businessInfo,omitempty"`
}

// ConsentReq POST /pdpa/consent
type ConsentReq struct {
	StoreID       string `json:"storeId"`
	LineUserID    string `json:"lineUserId"`
	Consented     bool   `json:"consented"`
	Source        string `json:"source"`
	Purpose       string `json:"purpose"`
	PolicyVersion string `json:"policyVersion"`
}
