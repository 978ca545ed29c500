package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lineboost_console/internal/view"
)

// PageController 控制台页面外壳与登录页
type PageController struct{}

func NewPageController() *PageController {
	return &PageController{}
}

// Login 登录页，next 只允许站内路径
func (c *PageController) Login(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, view.Login, gin.H{"Next": safeNext(ctx.Query("next"))})
}

// Console /app/* 页面，登录校验由 PageAuth 完成
func (c *PageController) Console(ctx *gin.Context) {
	name := strings.Trim(ctx.Param("page"), "/")
	if name == "" {
		name = "dashboard"
	}
	ctx.HTML(http.StatusOK, view.Console, gin.H{
		"Page":    name,
		"Session": sessionOf(ctx).Snapshot(),
	})
}

// Health 存活检查
func (c *PageController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/app/dashboard"
	}
	return next
}
