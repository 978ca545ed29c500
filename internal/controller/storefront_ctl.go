package controller

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/cart"
	"lineboost_console/internal/middleware"
	"lineboost_console/internal/service"
	"lineboost_console/internal/view"
	"lineboost_console/pkg/net"
	"lineboost_console/pkg/siteconfig"
)

const consentSourcePublicSite = "public_site"

// StorefrontController 公开店铺：页面、购物车、结账、PDPA
type StorefrontController struct {
	storefrontSvc *service.StorefrontService
	siteSvc       *service.SiteService
	liffID        string
}

func NewStorefrontController(storefrontSvc *service.StorefrontService, siteSvc *service.SiteService, liffID string) *StorefrontController {
	return &StorefrontController{storefrontSvc: storefrontSvc, siteSvc: siteSvc, liffID: liffID}
}

// StorefrontPage 店铺页模板数据
type StorefrontPage struct {
	Slug       string
	Site       siteconfig.NormalizedSite
	Cart       cart.View
	ShowPDPA   bool
	LineUserID string
	LiffURL    string
}

// ==================== 页面 ====================

// ShowSite GET /public/:slug
func (c *StorefrontController) ShowSite(ctx *gin.Context) {
	slug := ctx.Param("slug")
	v := c.visitor(ctx)

	sf, cartView, err := c.storefrontSvc.Visit(ctx.Request.Context(), slug, v)
	if err != nil {
		c.notFound(ctx, err)
		return
	}

	publicURL := c.siteSvc.PublicURL(slug)
	ctx.HTML(http.StatusOK, viewStorefront, StorefrontPage{
		Slug:       slug,
		Site:       sf.Site,
		Cart:       cartView,
		ShowPDPA:   sf.Site.ShowPDPABanner() && !middleware.PDPAAccepted(ctx, sf.StoreID),
		LineUserID: v.LineUserID,
		LiffURL:    c.siteSvc.LiffURL(publicURL),
	})
}

// PDPAPage GET /pdpa/:storeId 独立同意页
func (c *StorefrontController) PDPAPage(ctx *gin.Context) {
	c.renderPDPA(ctx, "")
}

// SubmitPDPA POST /pdpa/:storeId 表单提交
func (c *StorefrontController) SubmitPDPA(ctx *gin.Context) {
	storeID := ctx.Param("storeId")
	lineUserID := ctx.PostForm("lineUserId")
	if lineUserID == "" {
		lineUserID = middleware.GetLineUserID(ctx)
	}
	consented := ctx.PostForm("consented") == "true"

	err := c.storefrontSvc.Consent(ctx.Request.Context(), storeID, lineUserID, middleware.GetVisitorID(ctx), "pdpa_page", consented)
	if err != nil {
		logFailure(ctx, err)
		c.renderPDPA(ctx, net.UserMessage(err, "บันทึกความยินยอมไม่สำเร็จ"))
		return
	}
	if consented {
		middleware.MarkPDPAAccepted(ctx, storeID)
		ctx.Redirect(http.StatusSeeOther, ctx.Request.URL.Path)
		return
	}
	c.renderPDPA(ctx, "บันทึกการไม่ยินยอมแล้ว")
}

// LiffBridge GET /liff-bridge?returnUrl= 拿到 LINE 用户 ID 后回跳
func (c *StorefrontController) LiffBridge(ctx *gin.Context) {
	returnURL := ctx.Query("returnUrl")
	if returnURL == "" {
		returnURL = "/"
	}
	ctx.HTML(http.StatusOK, view.LiffBridge, gin.H{"ReturnURL": returnURL, "LiffID": c.liffID})
}

// ProductClick 记录点击后跳转商品链接
func (c *StorefrontController) ProductClick(ctx *gin.Context) {
	slug := ctx.Param("slug")
	target, err := c.storefrontSvc.ProductClick(ctx.Request.Context(), slug, c.visitor(ctx), ctx.Param("productId"))
	if err != nil || target == "" {
		ctx.Redirect(http.StatusFound, "/public/"+slug)
		return
	}
	ctx.Redirect(http.StatusFound, target)
}

// CtaClick 记录点击后跳转 CTA 链接
func (c *StorefrontController) CtaClick(ctx *gin.Context) {
	slug := ctx.Param("slug")
	target, err := c.storefrontSvc.CtaClick(ctx.Request.Context(), slug, c.visitor(ctx))
	if err != nil || target == "" {
		ctx.Redirect(http.StatusFound, "/public/"+slug)
		return
	}
	ctx.Redirect(http.StatusFound, target)
}

// ==================== 购物车 JSON ====================

type addItemReq struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateQtyReq struct {
	Qty *int `json:"qty" binding:"required"`
}

type consentReq struct {
	Consented bool `json:"consented"`
}

func (c *StorefrontController) GetCart(ctx *gin.Context) {
	cartView, err := c.storefrontSvc.Cart(ctx.Request.Context(), ctx.Param("slug"), c.visitor(ctx))
	c.cartResp(ctx, cartView, err, "")
}

func (c *StorefrontController) AddItem(ctx *gin.Context) {
	var req addItemReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	cartView, err := c.storefrontSvc.AddToCart(ctx.Request.Context(), ctx.Param("slug"), c.visitor(ctx), req.ProductID)
	c.cartResp(ctx, cartView, err, "เพิ่มลงตะกร้าแล้ว")
}

func (c *StorefrontController) UpdateItem(ctx *gin.Context) {
	var req updateQtyReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	cartView, err := c.storefrontSvc.UpdateQty(ctx.Request.Context(), ctx.Param("slug"), c.visitor(ctx), ctx.Param("productId"), *req.Qty)
	c.cartResp(ctx, cartView, err, "")
}

func (c *StorefrontController) RemoveItem(ctx *gin.Context) {
	cartView, err := c.storefrontSvc.Remove(ctx.Request.Context(), ctx.Param("slug"), c.visitor(ctx), ctx.Param("productId"))
	c.cartResp(ctx, cartView, err, "")
}

func (c *StorefrontController) OpenCheckout(ctx *gin.Context) {
	cartView, err := c.storefrontSvc.StartCheckout(ctx.Request.Context(), ctx.Param("slug"), c.visitor(ctx))
	c.cartResp(ctx, cartView, err, "")
}

func (c *StorefrontController) CloseCheckout(ctx *gin.Context) {
	cartView, err := c.storefrontSvc.CloseCheckout(ctx.Request.Context(), ctx.Param("slug"), c.visitor(ctx))
	c.cartResp(ctx, cartView, err, "")
}

// Submit 下单
func (c *StorefrontController) Submit(ctx *gin.Context) {
	var form cart.CheckoutForm
	if err := ctx.ShouldBind(&form); err != nil {
		badRequest(ctx, err)
		return
	}
	cartView, err := c.storefrontSvc.Submit(ctx.Request.Context(), ctx.Param("slug"), c.visitor(ctx), form)
	c.cartResp(ctx, cartView, err, "สั่งซื้อสำเร็จ")
}

// UploadSlip multipart 字段 slip
func (c *StorefrontController) UploadSlip(ctx *gin.Context) {
	file, err := ctx.FormFile("slip")
	if err != nil {
		badRequest(ctx, err)
		return
	}
	f, err := file.Open()
	if err != nil {
		badRequest(ctx, err)
		return
	}
	defer f.Close()

	// 多读一个字节交给 Checkout 判断超限
	data, err := io.ReadAll(io.LimitReader(f, cart.MaxSlipBytes+1))
	if err != nil {
		badRequest(ctx, err)
		return
	}

	slip := cart.Slip{FileName: file.Filename, ContentType: file.Header.Get("Content-Type"), Data: data}
	cartView, err := c.storefrontSvc.UploadSlip(ctx.Request.Context(), ctx.Param("slug"), c.visitor(ctx), slip)
	c.cartResp(ctx, cartView, err, "ส่งสลิปเรียบร้อย")
}

// NewOrder 重新开始
func (c *StorefrontController) NewOrder(ctx *gin.Context) {
	cartView, err := c.storefrontSvc.NewOrder(ctx.Request.Context(), ctx.Param("slug"), c.visitor(ctx))
	c.cartResp(ctx, cartView, err, "")
}

// Consent 店铺页横幅的 PDPA 同意
func (c *StorefrontController) Consent(ctx *gin.Context) {
	var req consentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	sf, err := c.storefrontSvc.Load(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		fail(ctx, err, "ไม่พบร้านค้า")
		return
	}

	v := c.visitor(ctx)
	err = c.storefrontSvc.Consent(ctx.Request.Context(), sf.StoreID, v.LineUserID, v.SessionID, consentSourcePublicSite, req.Consented)
	if err != nil {
		fail(ctx, err, "บันทึกความยินยอมไม่สำเร็จ")
		return
	}
	if req.Consented {
		middleware.MarkPDPAAccepted(ctx, sf.StoreID)
	}
	done(ctx, gin.H{"accepted": req.Consented}, nil, "บันทึกความยินยอมแล้ว", "")
}

// ==================== 私有方法 ====================

const viewStorefront = view.Storefront

func (c *StorefrontController) visitor(ctx *gin.Context) cart.Visitor {
	return cart.Visitor{
		SessionID:  middleware.GetVisitorID(ctx),
		LineUserID: middleware.GetLineUserID(ctx),
		PageURL:    requestURL(ctx),
		Page:       ctx.Request.URL.Path,
	}
}

// cartResp 购物车错误带着最新的购物车返回
func (c *StorefrontController) cartResp(ctx *gin.Context, cartView cart.View, err error, success string) {
	if err == nil {
		done(ctx, cartView, nil, success, "")
		return
	}
	if msg, ok := cartMessage(err); ok {
		ctx.JSON(http.StatusBadRequest, dto.PageResp{
			Data:   cartView,
			Notice: &dto.Notice{Level: dto.NoticeWarning, Message: msg},
		})
		return
	}
	logFailure(ctx, err)
	ctx.JSON(statusOf(err), dto.PageResp{
		Data:   cartView,
		Notice: &dto.Notice{Level: noticeLevel(err), Message: net.UserMessage(err, "ทำรายการไม่สำเร็จ")},
	})
}

func (c *StorefrontController) notFound(ctx *gin.Context, err error) {
	status := http.StatusBadGateway
	msg := "โหลดร้านค้าไม่สำเร็จ กรุณาลองใหม่"
	if code := net.StatusCode(err); code == http.StatusNotFound || code == http.StatusOK {
		status = http.StatusNotFound
		msg = "ร้านค้านี้ยังไม่เปิดให้บริการ"
	}
	if status != http.StatusNotFound {
		logFailure(ctx, err)
	}
	ctx.HTML(status, view.NotFound, gin.H{"Message": msg})
}

func (c *StorefrontController) renderPDPA(ctx *gin.Context, notice string) {
	storeID := ctx.Param("storeId")
	ctx.HTML(http.StatusOK, view.PDPA, gin.H{
		"StoreID":    storeID,
		"LineUserID": middleware.GetLineUserID(ctx),
		"Accepted":   middleware.PDPAAccepted(ctx, storeID),
		"LiffURL":    c.siteSvc.LiffURL(c.siteSvc.AbsURL("/pdpa/" + url.PathEscape(storeID))),
		"Notice":     notice,
	})
}

// cartMessage 购物车本地错误直接展示
func cartMessage(err error) (string, bool) {
	for _, known := range []error{
		cart.ErrOutOfStock, cart.ErrNoPrice, cart.ErrNotInCart,
		cart.ErrEmptyCart, cart.ErrNoOrder, cart.ErrNoStore, service.ErrProductNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error(), true
		}
	}
	return "", false
}

func requestURL(ctx *gin.Context) string {
	scheme := "http"
	if ctx.Request.TLS != nil || ctx.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + ctx.Request.Host + ctx.Request.URL.RequestURI()
}
