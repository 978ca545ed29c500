package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/middleware"
	"lineboost_console/internal/service"
	"lineboost_console/internal/session"
)

// SessionController 登录、会话状态、切换店铺
type SessionController struct {
	authSvc  *service.AuthService
	storeSvc *service.StoreService
}

func NewSessionController(authSvc *service.AuthService, storeSvc *service.StoreService) *SessionController {
	return &SessionController{authSvc: authSvc, storeSvc: storeSvc}
}

// Login 用 Firebase ID Token 登录
// @Summary 控制台登录
// @Tags Session
// @Accept json
// @Produce json
// @Param request body dto.LoginReq true "ID Token"
// @Success 200 {object} dto.LoginResp
// @Router /api/console/session/login [post]
func (c *SessionController) Login(ctx *gin.Context) {
	var req dto.LoginReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	st, err := c.authSvc.Login(ctx.Request.Context(), req.IDToken)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.PageResp{
			Notice: &dto.Notice{Level: dto.NoticeError, Message: "เข้าสู่ระบบไม่สำเร็จ"},
		})
		logFailure(ctx, err)
		return
	}

	snap := st.Snapshot()
	token, err := middleware.GenerateSessionToken(st.Key(), snap.User.ID)
	if err != nil {
		fail(ctx, err, "เข้าสู่ระบบไม่สำเร็จ")
		return
	}
	middleware.SetSessionCookie(ctx, token)

	done(ctx, dto.LoginResp{Token: token, Session: snap}, nil, "", "")
}

// Current 当前会话快照，店铺列表为空时先刷新
func (c *SessionController) Current(ctx *gin.Context) {
	st := sessionOf(ctx)
	snap := st.Snapshot()
	if !snap.AuthReady || len(snap.Stores) == 0 {
		if err := c.authSvc.Bootstrap(ctx.Request.Context(), st); err != nil {
			page(ctx, st.Snapshot(), err, "โหลดข้อมูลบัญชีไม่สำเร็จ")
			return
		}
		snap = st.Snapshot()
	}
	page(ctx, snap, nil, "")
}

// RefreshToken 前端拿到新的 ID Token 后提交
func (c *SessionController) RefreshToken(ctx *gin.Context) {
	var req dto.LoginReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	st := sessionOf(ctx)
	err := c.authSvc.RefreshToken(ctx.Request.Context(), st, req.IDToken)
	done(ctx, st.Snapshot(), err, "", "ต่ออายุการเข้าสู่ระบบไม่สำเร็จ")
}

// Logout 退出登录
func (c *SessionController) Logout(ctx *gin.Context) {
	if st := sessionOf(ctx); st != nil {
		if err := c.authSvc.Logout(ctx.Request.Context(), st); err != nil {
			logFailure(ctx, err)
		}
	}
	middleware.ClearSessionCookie(ctx)
	done(ctx, nil, nil, "ออกจากระบบแล้ว", "")
}

// SelectStore 切换当前店铺
func (c *SessionController) SelectStore(ctx *gin.Context) {
	var req dto.SelectStoreReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	st := sessionOf(ctx)
	err := c.storeSvc.Select(st, req.StoreID)
	done(ctx, st.Snapshot(), err, "", "ไม่พบร้านค้า")
}

// UpdateLineOA 前端回写 LINE 连接状态 (合并)
func (c *SessionController) UpdateLineOA(ctx *gin.Context) {
	var req dto.LineOAReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	st := sessionOf(ctx)
	st.SetLineOA(req.LineOAPatch)
	done(ctx, st.Snapshot(), nil, "", "")
}

// Plans 套餐列表与当前套餐
func (c *SessionController) Plans(ctx *gin.Context) {
	sc := scopeOf(ctx)
	page(ctx, gin.H{
		"current": session.PlanFor(sc.Tier),
		"plans":   session.Plans(),
	}, nil, "")
}
