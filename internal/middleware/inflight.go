package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lineboost_console/pkg/logger"
)

// ==================== 重复提交中间件 ====================

// InFlight 同一会话的同一动作执行中时拒绝新的请求 (409)
//
// 使用示例:
//
//	api.POST("/broadcast", middleware.InFlight(guard, "broadcast"), ctl.Send)
//
// 锁在处理函数返回后释放，处理函数 panic 时同样释放
func InFlight(guard InFlightGuard, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := c.ClientIP()
		if st := GetSession(c); st != nil {
			owner = st.Key()
		} else if v := GetVisitorID(c); v != "" {
			owner = v
		} else if v, err := c.Cookie(VisitorCookie); err == nil && v != "" {
			owner = v
		}

		release, ok, err := guard.Acquire(c.Request.Context(), InFlightKey(owner, action))
		if err != nil {
			logger.LogError("middleware", "InFlight", "获取锁失败", action, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"code":    503,
				"message": "ระบบไม่พร้อมใช้งาน กรุณาลองใหม่",
			})
			c.Abort()
			return
		}
		if !ok {
			c.JSON(http.StatusConflict, gin.H{
				"code":    409,
				"message": "กำลังดำเนินการอยู่ กรุณารอสักครู่",
				"data": gin.H{
					"action": action,
				},
			})
			c.Abort()
			return
		}
		defer release()

		c.Next()
	}
}
