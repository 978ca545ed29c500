package siteconfig

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ==================== 默认值 ====================

const (
	VersionV1 = "v1"
	VersionV2 = "v2"

	DefaultThemeColor   = "#111827"
	DefaultBusinessName = "ConnectBridge Store"
	LegacyTemplateID    = "legacy"

	defaultHeroSubheadline = "เว็บไซต์หน้าร้านที่เชื่อมต่อกับ LINE OA ของคุณ"
	defaultCtaText         = "ติดต่อผ่าน LINE"
	heroHeadlinePrefix     = "ยินดีต้อนรับสู่ "
)

// ==================== v1 扁平结构 ====================

// V1 旧版扁平配置，offerings 没有 ID
type V1 struct {
	Category        string   `json:"category,omitempty"`
	TemplateID      string   `json:"templateId,omitempty"`
	Slug            string   `json:"slug,omitempty"`
	BusinessName    string   `json:"businessName,omitempty"`
	Tagline         string   `json:"tagline,omitempty"`
	HeroHeadline    string   `json:"heroHeadline,omitempty"`
	HeroSubheadline string   `json:"heroSubheadline,omitempty"`
	HeroImageURL    string   `json:"heroImageUrl,omitempty"`
	CtaText         string   `json:"ctaText,omitempty"`
	CtaURL          string   `json:"ctaUrl,omitempty"`
	ThemeColor      string   `json:"themeColor,omitempty"`
	Highlights      []string `json:"highlights,omitempty"`
	Offerings       []string `json:"offerings,omitempty"`
	Gallery         []string `json:"gallery,omitempty"`
	Address         string   `json:"address,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Payment         *Payment `json:"payment,omitempty"`
}

// ==================== v2 结构化配置 ====================

// V2 结构化配置
type V2 struct {
	Version    string    `json:"version"`
	TemplateID string    `json:"templateId"`
	Business   Business  `json:"business"`
	Hero       Hero      `json:"hero"`
	Products   []Product `json:"products"`
	Sections   *Sections `json:"sections,omitempty"`
	PDPA       *PDPA     `json:"pdpa,omitempty"`
	Payment    *Payment  `json:"payment,omitempty"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

type Business struct {
	Name       string `json:"name"`
	Tagline    string `json:"tagline,omitempty"`
	ThemeColor string `json:"themeColor"`
	LogoURL    string `json:"logoUrl,omitempty"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type Hero struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CtaText     string `json:"ctaText"`
	CtaURL      string `json:"ctaUrl,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Product 商品。Stock 为 nil 表示不限库存
type Product struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     Price    `json:"price,omitempty"`
	ImageURL  string   `json:"imageUrl,omitempty"`
	URL       string   `json:"url,omitempty"`
	ShortDesc string   `json:"shortDesc,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Stock     *int     `json:"stock,omitempty"`
}

type Sections struct {
	Highlights []string `json:"highlights,omitempty"`
	Trust      []string `json:"trust,omitempty"`
	Gallery    []string `json:"gallery,omitempty"`
}

type PDPA struct {
	ConsentText   string `json:"consentText,omitempty"`
	PolicyVersion string `json:"policyVersion,omitempty"`
	ShowBanner    *bool  `json:"showBanner,omitempty"`
}

type Payment struct {
	PromptpayID string `json:"promptpayId,omitempty"`
}

type Metadata struct {
	Slug string `json:"slug,omitempty"`
}

// HasFiniteStock 是否声明了有限库存
func (p Product) HasFiniteStock() bool {
	return p.Stock != nil
}

// InStock 无库存声明或库存大于 0
func (p Product) InStock() bool {
	return p.Stock == nil || *p.Stock > 0
}

// ==================== 宽松解析 ====================

// Price 价格文本，兼容 "1,290" 与 1290 两种写法
type Price string

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		_ = json.Unmarshal(b, &s)
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		// 非字符串非数字，按无价格处理
		*p = ""
		return nil
	}
	*p = Price(n.String())
	return nil
}

func (p *Product) UnmarshalJSON(b []byte) error {
	type alias Product
	aux := struct {
		*alias
		Stock json.RawMessage `json:"stock"`
	}{alias: (*alias)(p)}
	// 类型不匹配的字段直接跳过，保留已解析部分
	_ = json.Unmarshal(b, &aux)
	p.Stock = parseStock(aux.Stock)
	return nil
}

// parseStock 数字或数字字符串视为有限库存，其余视为不限
func parseStock(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Floor(f))
	return &n
}

// ==================== 规范化结果 ====================

// NormalizedSite 渲染层唯一使用的结构
type NormalizedSite struct {
	Version    string    `json:"version"`
	TemplateID string    `json:"templateId"`
	Business   Business  `json:"business"`
	Hero       Hero      `json:"hero"`
	Products   []Product `json:"products"`
	Sections   Sections  `json:"sections"`
	PDPA       *PDPA     `json:"pdpa,omitempty"`
	Payment    *Payment  `json:"payment,omitempty"`
	Slug       string    `json:"slug,omitempty"`
}

// FindProduct 按 ID 查找商品
func (s NormalizedSite) FindProduct(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ShowPDPABanner 未显式关闭横幅时默认显示
func (s NormalizedSite) ShowPDPABanner() bool {
	if s.PDPA == nil || s.PDPA.ShowBanner == nil {
		return true
	}
	return *s.PDPA.ShowBanner
}

// PromptpayID 收款 PromptPay ID
func (s NormalizedSite) PromptpayID() string {
	if s.Payment == nil {
		return ""
	}
	return s.Payment.PromptpayID
}
