package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"lineboost_console/internal/session"
)

// ==================== JWT 配置 ====================

// JWTConfig 控制台会话 Token 配置
type JWTConfig struct {
	SecretKey  string        // 签名密钥
	SessionTTL time.Duration // 会话有效期
	Issuer     string        // 签发者
	CookieName string
	Secure     bool // Cookie 是否只走 HTTPS
}

// DefaultJWTConfig 默认配置
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:  "lineboost-console-secret-change-in-production",
		SessionTTL: 7 * 24 * time.Hour,
		Issuer:     "lineboost-console",
		CookieName: "lb_console",
	}
}

// 全局配置
var jwtConfig = DefaultJWTConfig()

// SetJWTConfig 设置 JWT 配置
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

// GetJWTConfig 获取 JWT 配置
func GetJWTConfig() *JWTConfig {
	return jwtConfig
}

// ==================== Claims 定义 ====================

// SessionClaims 只携带会话 Key，用户数据以服务端会话为准
type SessionClaims struct {
	SessionKey string `json:"sid"`
	UserID     string `json:"uid"`
	jwt.RegisteredClaims
}

// GenerateSessionToken 生成控制台会话 Token
func GenerateSessionToken(sessionKey, userID string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		SessionKey: sessionKey,
		UserID:     userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			Subject:   "console",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtConfig.SessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SecretKey))
}

// ParseSessionToken 解析 Token
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid && claims.Subject == "console" {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// SetSessionCookie 写入会话 Cookie
func SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtConfig.CookieName, token, int(jwtConfig.SessionTTL.Seconds()), "/", "", jwtConfig.Secure, true)
}

// ClearSessionCookie 删除会话 Cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(jwtConfig.CookieName, "", -1, "/", "", jwtConfig.Secure, true)
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeySession = "console_session"
	ContextKeyClaims  = "claims"
)

// SessionLoader 会话查询，由 session.Manager 实现
type SessionLoader interface {
	Get(ctx context.Context, key string) (*session.Store, error)
}

// SessionAuth API 路由使用，未登录返回 401
func SessionAuth(loader SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loadSession(c, loader) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "กรุณาเข้าสู่ระบบ",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// PageAuth 页面路由使用，未登录跳转 /login?next=
func PageAuth(loader SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loadSession(c, loader) {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin 管理员校验，最终权限仍由后端 /admin 接口判定
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := GetSession(c)
		if st == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "กรุณาเข้าสู่ระบบ",
			})
			c.Abort()
			return
		}
		if user := st.Snapshot().User; user == nil || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "ไม่มีสิทธิ์เข้าถึง",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ==================== 辅助函数 ====================

// loadSession Cookie 优先，其次 Bearer
func loadSession(c *gin.Context, loader SessionLoader) bool {
	raw := bearerToken(c)
	if cookie, err := c.Cookie(jwtConfig.CookieName); err == nil && cookie != "" {
		raw = cookie
	}
	if raw == "" {
		return false
	}

	claims, err := ParseSessionToken(raw)
	if err != nil {
		return false
	}

	st, err := loader.Get(c.Request.Context(), claims.SessionKey)
	if err != nil || st.Snapshot().User == nil {
		return false
	}

	c.Set(ContextKeySession, st)
	c.Set(ContextKeyClaims, claims)
	return true
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetSession 从 Context 获取会话
func GetSession(c *gin.Context) *session.Store {
	if st, exists := c.Get(ContextKeySession); exists {
		return st.(*session.Store)
	}
	return nil
}

// GetClaims 从 Context 获取完整 Claims
func GetClaims(c *gin.Context) *SessionClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*SessionClaims)
	}
	return nil
}
