package siteconfig

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	TemplateStandard = "standard"
	TemplateClinic   = "clinic"

	defaultPolicyVersion = "v1"
)

// NormalizeTemplateID 旧模板 ID 映射到现有模板，未知值回落 standard
func NormalizeTemplateID(id string) string {
	switch id {
	case "apple-commerce", TemplateClinic:
		return TemplateClinic
	default:
		return TemplateStandard
	}
}

// ToV2 把任意配置转换为编辑器使用的 v2 文档
func ToV2(cfg Config, storeName, fallbackTemplate string) V2 {
	if cfg.V2 != nil {
		out := *cfg.V2
		out.Version = VersionV2
		out.TemplateID = NormalizeTemplateID(out.TemplateID)
		return out
	}

	legacy := V1{}
	if cfg.V1 != nil {
		legacy = *cfg.V1
	}
	name := firstNonEmpty(legacy.BusinessName, storeName, DefaultBusinessName)

	products := make([]Product, 0, len(legacy.Offerings))
	for idx, item := range legacy.Offerings {
		p := Product{ID: "legacy-" + strconv.Itoa(idx), Name: item, Tags: []string{}}
		if idx < len(legacy.Highlights) {
			p.ShortDesc = legacy.Highlights[idx]
		}
		products = append(products, p)
	}

	showBanner := true
	promptpay := ""
	if legacy.Payment != nil {
		promptpay = legacy.Payment.PromptpayID
	}
	out := V2{
		Version:    VersionV2,
		TemplateID: NormalizeTemplateID(fallbackTemplate),
		Business: Business{
			Name:       name,
			Tagline:    legacy.Tagline,
			ThemeColor: firstNonEmpty(legacy.ThemeColor, DefaultThemeColor),
			Address:    legacy.Address,
			Phone:      legacy.Phone,
		},
		Hero: Hero{
			Headline:    firstNonEmpty(legacy.HeroHeadline, heroHeadlinePrefix+name),
			Subheadline: firstNonEmpty(legacy.HeroSubheadline, defaultHeroSubheadline),
			CtaText:     firstNonEmpty(legacy.CtaText, defaultCtaText),
			CtaURL:      legacy.CtaURL,
			ImageURL:    legacy.HeroImageURL,
		},
		Products: products,
		Sections: &Sections{
			Highlights: nonNil(legacy.Highlights),
			Trust:      []string{},
			Gallery:    nonNil(legacy.Gallery),
		},
		PDPA:    &PDPA{ShowBanner: &showBanner, PolicyVersion: defaultPolicyVersion},
		Payment: &Payment{PromptpayID: promptpay},
	}
	if legacy.Slug != "" {
		out.Metadata = &Metadata{Slug: legacy.Slug}
	}
	return out
}

// NewProduct 编辑器新增的空白商品
func NewProduct() Product {
	return Product{
		ID:   "product-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6],
		Tags: []string{},
	}
}

// ==================== 内置模板 ====================

// TemplateInfo 模板元信息
type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Config      V2     `json:"config"`
}

// Templates 内置模板列表，每次返回新副本
func Templates() []TemplateInfo {
	return []TemplateInfo{standardTemplate(), clinicTemplate()}
}

// Template 按 ID 取模板，未知 ID 回落 standard
func Template(id string) TemplateInfo {
	if NormalizeTemplateID(id) == TemplateClinic {
		return clinicTemplate()
	}
	return standardTemplate()
}

func standardTemplate() TemplateInfo {
	showBanner := true
	return TemplateInfo{
		ID:          TemplateStandard,
		Name:        "Standard",
		Description: "เหมาะกับสินค้าทั่วไป เน้นภาพชัด โฟกัสการสั่งซื้อ",
		Config: V2{
			Version:    VersionV2,
			TemplateID: TemplateStandard,
			Business: Business{
				Name:       DefaultBusinessName,
				Tagline:    "ร้านค้าสมัยใหม่เชื่อมต่อ LINE",
				ThemeColor: DefaultThemeColor,
			},
			Hero: Hero{
				Headline:    "หน้าร้านที่สะอาด เรียบ และชวนซื้อ",
				Subheadline: "Mobile-first full layout สำหรับ SME ที่ต้องการปิดการขายเร็ว",
				CtaText:     "คุยกับร้านผ่าน LINE",
			},
			Products: []Product{
				{ID: "product-1", Name: "สินค้าเด่นประจำสัปดาห์", Price: "890", ShortDesc: "ขายดีสุดในหมวดนี้", Tags: []string{"best-seller"}},
				{ID: "product-2", Name: "สินค้าขายดี", Price: "1290", ShortDesc: "โปรโมชันพิเศษสำหรับลูกค้า LINE", Tags: []string{"promo"}},
			},
			Sections: &Sections{
				Highlights: []string{"สินค้าใหม่อัปเดตทุกสัปดาห์", "ตอบกลับไวผ่าน LINE OA", "จัดส่งภายใน 24 ชั่วโมง"},
				Trust:      []string{"ยืนยันตัวตนด้วย LINE", "เก็บข้อมูลตามมาตรฐาน PDPA", "บันทึก RoPA ทุกการยินยอม"},
				Gallery:    []string{},
			},
			PDPA:    &PDPA{ShowBanner: &showBanner, PolicyVersion: defaultPolicyVersion},
			Payment: &Payment{},
		},
	}
}

func clinicTemplate() TemplateInfo {
	showBanner := true
	return TemplateInfo{
		ID:          TemplateClinic,
		Name:        "Clinic",
		Description: "เหมาะกับคลินิกที่ต้องการระบบนัดหมายผ่าน LINE",
		Config: V2{
			Version:    VersionV2,
			TemplateID: TemplateClinic,
			Business: Business{
				Name:       "ConnectBridge Clinic",
				Tagline:    "คลินิกทันสมัยพร้อมระบบนัดหมาย",
				ThemeColor: "#0f766e",
				Address:    "123 ถนนสุขุมวิท กรุงเทพฯ",
				Phone:      "02-000-0000",
			},
			Hero: Hero{
				Headline:    "ดูแลสุขภาพด้วยทีมแพทย์ผู้เชี่ยวชาญ",
				Subheadline: "นัดหมายง่ายผ่าน LINE พร้อมแจ้งเตือนคิวอัตโนมัติ",
				CtaText:     "นัดหมายผ่าน LINE",
			},
			Products: []Product{
				{ID: "product-1", Name: "ตรวจสุขภาพฟันเบื้องต้น", Price: "1200", ShortDesc: "ตรวจ-วิเคราะห์โดยทันตแพทย์", Tags: []string{"appointment"}},
				{ID: "product-2", Name: "ขูดหินปูน + เคลือบฟลูออไรด์", Price: "1800", ShortDesc: "ลดอาการเสียวฟัน พร้อมคำแนะนำดูแล", Tags: []string{"clinic-care"}},
			},
			Sections: &Sections{
				Highlights: []string{"จองคิวออนไลน์ผ่าน LINE ได้ทันที", "ยืนยันตัวตน + แจ้งเตือนนัดหมายอัตโนมัติ", "บริการมาตรฐานคลินิก พร้อมทีมแพทย์ดูแล"},
				Trust:      []string{"ดูแลข้อมูลตาม PDPA", "บันทึก RoPA ทุกการยินยอม", "มาตรฐานความปลอดภัยระดับคลินิก"},
				Gallery:    []string{},
			},
			PDPA:    &PDPA{ShowBanner: &showBanner, PolicyVersion: defaultPolicyVersion},
			Payment: &Payment{},
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
