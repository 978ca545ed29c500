package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lineboost_console/pkg/utils"
)

// 公开店铺访客 Cookie
const (
	VisitorCookie    = "cb_session_id"
	LineUserCookie   = "cb_line_user_id"
	pdpaCookiePrefix = "cb_pdpa_"

	visitorCookieAge = 365 * 24 * 3600
)

const ContextKeyVisitor = "visitor_id"

// Visitor 保证每个访客都有 cb_session_id
func Visitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(VisitorCookie)
		if err != nil || id == "" {
			id = utils.NewAnonSessionID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(VisitorCookie, id, visitorCookieAge, "/", "", false, true)
		}
		c.Set(ContextKeyVisitor, id)
		c.Next()
	}
}

// GetVisitorID 从 Context 获取访客 ID
func GetVisitorID(c *gin.Context) string {
	if id, exists := c.Get(ContextKeyVisitor); exists {
		return id.(string)
	}
	return ""
}

// GetLineUserID LIFF 登录后记录的 LINE 用户 ID
// 参数 lineUserId 优先 (LIFF 回跳)，并写回 Cookie
func GetLineUserID(c *gin.Context) string {
	if fromQuery := c.Query("lineUserId"); fromQuery != "" {
		SetLineUserID(c, fromQuery)
		return fromQuery
	}
	id, _ := c.Cookie(LineUserCookie)
	return id
}

// SetLineUserID 记住 LINE 用户 ID
func SetLineUserID(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(LineUserCookie, id, visitorCookieAge, "/", "", false, true)
}

// PDPAAccepted 该店铺是否已同意 PDPA
func PDPAAccepted(c *gin.Context, storeID string) bool {
	v, err := c.Cookie(pdpaCookiePrefix + storeID)
	return err == nil && v == "1"
}

// MarkPDPAAccepted 记录同意
func MarkPDPAAccepted(c *gin.Context, storeID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(pdpaCookiePrefix+storeID, "1", visitorCookieAge, "/", "", false, false)
}
