package siteconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTemplateID(t *testing.T) {
	tests := map[string]string{
		"apple-commerce": TemplateClinic,
		"apple-minimal":  TemplateStandard,
		"clinic":         TemplateClinic,
		"standard":       TemplateStandard,
		"":               TemplateStandard,
		"unknown":        TemplateStandard,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTemplateID(in), in)
	}
}

func TestToV2_FromLegacy(t *testing.T) {
	cfg := Parse([]byte(`{"businessName":"","offerings":["A","B"],"highlights":["ha"],"payment":{"promptpayId":"0899"},"slug":"shop-a"}`))

	out := ToV2(cfg, "Store Name", "apple-commerce")

	assert.Equal(t, VersionV2, out.Version)
	assert.Equal(t, TemplateClinic, out.TemplateID)
	assert.Equal(t, "Store Name", out.Business.Name)
	assert.Equal(t, "ยินดีต้อนรับสู่ Store Name", out.Hero.Headline)
	if assert.Len(t, out.Products, 2) {
		assert.Equal(t, "legacy-0", out.Products[0].ID)
		assert.Equal(t, "ha", out.Products[0].ShortDesc)
		assert.Equal(t, "legacy-1", out.Products[1].ID)
		assert.Equal(t, "", out.Products[1].ShortDesc)
	}
	assert.Equal(t, "0899", out.Payment.PromptpayID)
	assert.Equal(t, "v1", out.PDPA.PolicyVersion)
	assert.True(t, *out.PDPA.ShowBanner)
	assert.Equal(t, "shop-a", out.Metadata.Slug)
}

func TestToV2_KeepsV2(t *testing.T) {
	cfg := Parse([]byte(`{"version":"v2","templateId":"apple-minimal","business":{"name":"Keep"}}`))

	out := ToV2(cfg, "Other", TemplateClinic)

	assert.Equal(t, TemplateStandard, out.TemplateID)
	assert.Equal(t, "Keep", out.Business.Name)
}

func TestTemplates(t *testing.T) {
	list := Templates()
	assert.Len(t, list, 2)

	clinic := Template("apple-commerce")
	assert.Equal(t, "#0f766e", clinic.Config.Business.ThemeColor)
	assert.Equal(t, Price("1800"), clinic.Config.Products[1].Price)

	// 修改副本不影响后续调用
	clinic.Config.Products[0].Name = "changed"
	assert.NotEqual(t, "changed", Template(TemplateClinic).Config.Products[0].Name)
}

func TestNewProduct(t *testing.T) {
	a, b := NewProduct(), NewProduct()
	assert.True(t, strings.HasPrefix(a.ID, "product-"))
	assert.Len(t, a.ID, len("product-")+6)
	assert.NotEqual(t, a.ID, b.ID)
}
