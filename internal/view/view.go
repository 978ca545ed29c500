package view

import (
	"embed"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"lineboost_console/pkg/siteconfig"
)

//go:embed templates/*.html
var files embed.FS

// 模板名
const (
	Storefront = "storefront.html"
	PDPA       = "pdpa.html"
	LiffBridge = "liff_bridge.html"
	Login      = "login.html"
	Console    = "console.html"
	NotFound   = "not_found.html"
)

var funcs = template.FuncMap{
	"baht": func(d decimal.Decimal) string {
		return "฿" + d.StringFixedBank(2)
	},
	"price": func(p siteconfig.Price) string {
		s := strings.TrimSpace(string(p))
		if s == "" {
			return "สอบถามราคา"
		}
		if strings.HasPrefix(s, "฿") {
			return s
		}
		return "฿" + s
	},
	"inStock": func(p siteconfig.Product) bool {
		return p.InStock()
	},
}

// Templates 解析全部内嵌模板，给 gin.SetHTMLTemplate 使用
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(files, "templates/*.html"))
}
