package siteconfig

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Config 站点配置的两种历史形态，只有一个字段非 nil
type Config struct {
	V1 *V1
	V2 *V2
}

// Parse 按 version 字段区分 v1 / v2，任何解析失败都退化为空的 v1
func Parse(raw []byte) Config {
	raw = bytes.TrimSpace(raw)
	var probe struct {
		Version json.RawMessage `json:"version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Config{V1: &V1{}}
	}

	var version string
	_ = json.Unmarshal(probe.Version, &version)
	if version == VersionV2 {
		v2 := &V2{}
		// 字段类型错误时 encoding/json 会继续填充其余字段
		_ = json.Unmarshal(raw, v2)
		v2.Version = VersionV2
		return Config{V2: v2}
	}

	v1 := &V1{}
	_ = json.Unmarshal(raw, v1)
	return Config{V1: v1}
}

// IsV2 是否为结构化配置
func (c Config) IsV2() bool {
	return c.V2 != nil
}

func (c *Config) UnmarshalJSON(b []byte) error {
	*c = Parse(b)
	return nil
}

func (c Config) MarshalJSON() ([]byte, error) {
	if c.V2 != nil {
		return json.Marshal(c.V2)
	}
	if c.V1 != nil {
		return json.Marshal(c.V1)
	}
	return []byte("{}"), nil
}

// Normalize 解析原始 JSON 并规范化
func Normalize(raw []byte, fallbackName string) NormalizedSite {
	return NormalizeConfig(Parse(raw), fallbackName)
}

// NormalizeConfig 把 v1 / v2 合并为渲染层使用的统一结构。纯函数，不会失败
func NormalizeConfig(cfg Config, fallbackName string) NormalizedSite {
	if cfg.V2 != nil {
		return normalizeV2(*cfg.V2, fallbackName)
	}
	if cfg.V1 != nil {
		return normalizeV1(*cfg.V1, fallbackName)
	}
	return normalizeV1(V1{}, fallbackName)
}

func normalizeV2(data V2, fallbackName string) NormalizedSite {
	business := data.Business
	business.Name = firstNonEmpty(business.Name, fallbackName, DefaultBusinessName)
	business.ThemeColor = firstNonEmpty(business.ThemeColor, DefaultThemeColor)

	site := NormalizedSite{
		Version:    VersionV2,
		TemplateID: data.TemplateID,
		Business:   business,
		Hero:       data.Hero,
		Products:   data.Products,
		PDPA:       data.PDPA,
		Payment:    data.Payment,
	}
	if site.Products == nil {
		site.Products = []Product{}
	}
	if data.Sections != nil {
		site.Sections = *data.Sections
	}
	site.Sections = fillSections(site.Sections)
	if data.Metadata != nil {
		site.Slug = data.Metadata.Slug
	}
	return site
}

func normalizeV1(v1 V1, fallbackName string) NormalizedSite {
	name := firstNonEmpty(v1.BusinessName, fallbackName, DefaultBusinessName)

	products := make([]Product, 0, len(v1.Offerings))
	for idx, item := range v1.Offerings {
		p := Product{ID: buildID(item, idx), Name: item}
		if idx < len(v1.Highlights) {
			p.ShortDesc = v1.Highlights[idx]
		}
		products = append(products, p)
	}

	return NormalizedSite{
		Version:    VersionV1,
		TemplateID: firstNonEmpty(v1.TemplateID, LegacyTemplateID),
		Business: Business{
			Name:       name,
			Tagline:    v1.Tagline,
			ThemeColor: firstNonEmpty(v1.ThemeColor, DefaultThemeColor),
			Address:    v1.Address,
			Phone:      v1.Phone,
		},
		Hero: Hero{
			Headline:    firstNonEmpty(v1.HeroHeadline, heroHeadlinePrefix+name),
			Subheadline: firstNonEmpty(v1.HeroSubheadline, defaultHeroSubheadline),
			CtaText:     firstNonEmpty(v1.CtaText, defaultCtaText),
			CtaURL:      v1.CtaURL,
			ImageURL:    v1.HeroImageURL,
		},
		Products: products,
		Sections: fillSections(Sections{
			Highlights: v1.Highlights,
			Gallery:    v1.Gallery,
		}),
		Payment: v1.Payment,
		Slug:    v1.Slug,
	}
}

// ==================== 工具函数 ====================

// 泰文字符 ก-๙ 之外的非字母数字压缩为单个 "-"
var idCleaner = regexp.MustCompile(`[^a-z0-9\x{0E01}-\x{0E59}]+`)

// buildID 由商品名和下标生成稳定 ID，下标后缀保证唯一
func buildID(value string, idx int) string {
	if value == "" {
		return "item-" + strconv.Itoa(idx)
	}
	return idCleaner.ReplaceAllString(strings.ToLower(value), "-") + "-" + strconv.Itoa(idx)
}

func fillSections(s Sections) Sections {
	if s.Highlights == nil {
		s.Highlights = []string{}
	}
	if s.Trust == nil {
		s.Trust = []string{}
	}
	if s.Gallery == nil {
		s.Gallery = []string{}
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
