package service

import (
	"context"
	"errors"
	"time"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/cart"
	"lineboost_console/internal/tracker"
	"lineboost_console/pkg/net"
	"lineboost_console/pkg/siteconfig"
	"lineboost_console/pkg/utils"
)

var (
	ErrProductNotFound = errors.New("ไม่พบสินค้า")
	ErrLineUserMissing = net.NewValidationError("lineUserId", "กรุณาเปิดผ่าน LINE เพื่อยืนยันตัวตน")
)

// ==================== 公开接口网关 ====================

// SiteGateway 公开店铺用到的无鉴权接口
// 实现 cart.OrderGateway 和 tracker.Sender
type SiteGateway struct {
	api *net.Client
}

func NewSiteGateway(api *net.Client) *SiteGateway {
	return &SiteGateway{api: api}
}

// PublicSite GET /public/sites/{slug}
func (g *SiteGateway) PublicSite(ctx context.Context, slug string) (dto.PublicSite, error) {
	return net.Flat[dto.PublicSite](ctx, g.api, net.Get(net.JoinPath("public", "sites", slug), ""), "success", "storeId", "config")
}

// PlaceOrder POST /sites/order
func (g *SiteGateway) PlaceOrder(ctx context.Context, req cart.OrderRequest) (cart.OrderResult, error) {
	return net.Flat[cart.OrderResult](ctx, g.api, net.Post("/sites/order", req, ""), "success", "orderId")
}

// ConfirmOrder POST /sites/order/confirm，返回凭证地址
func (g *SiteGateway) ConfirmOrder(ctx context.Context, req cart.SlipUpload) (string, error) {
	resp, err := net.Flat[struct {
		SlipURL string `json:"slipUrl"`
	}](ctx, g.api, net.Post("/sites/order/confirm", req, ""), "success")
	return resp.SlipURL, err
}

// SendEvent POST /sites/event
func (g *SiteGateway) SendEvent(ctx context.Context, ev tracker.Event) error {
	return g.api.Exec(ctx, net.Post("/sites/event", ev, ""))
}

// Consent POST /pdpa/consent
func (g *SiteGateway) Consent(ctx context.Context, req dto.ConsentReq) error {
	return g.api.Exec(ctx, net.Post("/pdpa/consent", req, ""))
}

// ==================== 访客店铺 ====================

// Storefront 渲染公开店铺需要的数据
type Storefront struct {
	Slug    string
	StoreID string
	Version int
	Site    siteconfig.NormalizedSite
}

// StorefrontService 公开店铺：站点缓存、访客购物车、PDPA
type StorefrontService struct {
	gateway  *SiteGateway
	tracker  *tracker.Tracker
	sites    *utils.TTLCache[Storefront]
	visitors *utils.TTLCache[*cart.Checkout]
}

// NewStorefrontService siteTTL 为站点配置缓存时间，visitorTTL 为购物车闲置过期时间
func NewStorefrontService(gateway *SiteGateway, t *tracker.Tracker, siteTTL, visitorTTL time.Duration) *StorefrontService {
	return &StorefrontService{
		gateway:  gateway,
		tracker:  t,
		sites:    utils.NewTTLCache[Storefront](siteTTL),
		visitors: utils.NewTTLCache[*cart.Checkout](visitorTTL),
	}
}

// Load 读取公开店铺，短时间缓存
func (s *StorefrontService) Load(ctx context.Context, slug string) (Storefront, error) {
	if sf, ok := s.sites.Get(slug); ok {
		return sf, nil
	}

	resp, err := s.gateway.PublicSite(ctx, slug)
	if err != nil {
		return Storefront{}, err
	}
	fallback := ""
	if resp.BusinessInfo != nil {
		fallback = resp.BusinessInfo.Name
	}
	sf := Storefront{
		Slug:    slug,
		StoreID: resp.StoreID,
		Version: resp.Version,
		Site:    siteconfig.NormalizeConfig(resp.Config, fallback),
	}
	s.sites.Set(slug, sf)
	return sf, nil
}

// Visit 打开店铺页面并记录 page_view
func (s *StorefrontService) Visit(ctx context.Context, slug string, v cart.Visitor) (Storefront, cart.View, error) {
	sf, err := s.Load(ctx, slug)
	if err != nil {
		return Storefront{}, cart.View{}, err
	}
	co := s.checkout(sf, v)
	s.tracker.Track(tracker.Event{
		StoreID:    sf.StoreID,
		SessionID:  v.SessionID,
		LineUserID: tracker.StringPtr(v.LineUserID),
		EventType:  tracker.EventPageView,
		URL:        v.PageURL,
		Page:       v.Page,
		Meta:       map[string]any{"layout": sf.Site.TemplateID, "version": sf.Version},
	})
	return sf, co.View(), nil
}

// Cart 当前购物车
func (s *StorefrontService) Cart(ctx context.Context, slug string, v cart.Visitor) (cart.View, error) {
	co, _, err := s.open(ctx, slug, v)
	if err != nil {
		return cart.View{}, err
	}
	return co.View(), nil
}

// AddToCart 加入购物车
func (s *StorefrontService) AddToCart(ctx context.Context, slug string, v cart.Visitor, productID string) (cart.View, error) {
	co, sf, err := s.open(ctx, slug, v)
	if err != nil {
		return cart.View{}, err
	}
	p, ok := sf.Site.FindProduct(productID)
	if !ok {
		return co.View(), ErrProductNotFound
	}
	return co.AddProduct(p)
}

// UpdateQty 修改数量
func (s *StorefrontService) UpdateQty(ctx context.Context, slug string, v cart.Visitor, productID string, qty int) (cart.View, error) {
	co, _, err := s.open(ctx, slug, v)
	if err != nil {
		return cart.View{}, err
	}
	return co.UpdateQty(productID, qty)
}

// Remove 移除商品
func (s *StorefrontService) Remove(ctx context.Context, slug string, v cart.Visitor, productID string) (cart.View, error) {
	co, _, err := s.open(ctx, slug, v)
	if err != nil {
		return cart.View{}, err
	}
	return co.Remove(productID), nil
}

// StartCheckout 打开结账表单
func (s *StorefrontService) StartCheckout(ctx context.Context, slug string, v cart.Visitor) (cart.View, error) {
	co, _, err := s.open(ctx, slug, v)
	if err != nil {
		return cart.View{}, err
	}
	return co.StartCheckout()
}

// CloseCheckout 关闭结账表单
func (s *StorefrontService) CloseCheckout(ctx context.Context, slug string, v cart.Visitor) (cart.View, error) {
	co, _, err := s.open(ctx, slug, v)
	if err != nil {
		return cart.View{}, err
	}
	return co.CloseCheckout(), nil
}

// Submit 下单
func (s *StorefrontService) Submit(ctx context.Context, slug string, v cart.Visitor, form cart.CheckoutForm) (cart.View, error) {
	co, _, err := s.open(ctx, slug, v)
	if err != nil {
		return cart.View{}, err
	}
	return co.Submit(ctx, form)
}

// UploadSlip 上传付款凭证
func (s *StorefrontService) UploadSlip(ctx context.Context, slug string, v cart.Visitor, slip cart.Slip) (cart.View, error) {
	co, _, err := s.open(ctx, slug, v)
	if err != nil {
		return cart.View{}, err
	}
	return co.UploadSlip(ctx, slip)
}

// NewOrder 完成后重新开始
func (s *StorefrontService) NewOrder(ctx context.Context, slug string, v cart.Visitor) (cart.View, error) {
	co, _, err := s.open(ctx, slug, v)
	if err != nil {
		return cart.View{}, err
	}
	return co.Reset(), nil
}

// ProductClick 记录点击并返回跳转地址
func (s *StorefrontService) ProductClick(ctx context.Context, slug string, v cart.Visitor, productID string) (string, error) {
	co, sf, err := s.open(ctx, slug, v)
	if err != nil {
		return "", err
	}
	p, ok := sf.Site.FindProduct(productID)
	if !ok {
		return "", ErrProductNotFound
	}
	return co.ProductClick(p), nil
}

// CtaClick 记录 CTA 点击并返回跳转地址
func (s *StorefrontService) CtaClick(ctx context.Context, slug string, v cart.Visitor) (string, error) {
	co, sf, err := s.open(ctx, slug, v)
	if err != nil {
		return "", err
	}
	return co.CtaClick(sf.Site.Hero), nil
}

// Consent 记录 PDPA 同意或拒绝，必须有 LINE 用户 ID
func (s *StorefrontService) Consent(ctx context.Context, storeID, lineUserID, sessionID, source string, consented bool) error {
	if storeID == "" {
		return cart.ErrNoStore
	}
	if lineUserID == "" {
		return ErrLineUserMissing
	}
	req := dto.ConsentReq{
		StoreID:       storeID,
		LineUserID:    lineUserID,
		Consented:     consented,
		Source:        source,
		Purpose:       "marketing",
		PolicyVersion: "v1",
	}
	if err := s.gateway.Consent(ctx, req); err != nil {
		return err
	}
	if consented {
		s.tracker.Track(tracker.Event{
			StoreID:    storeID,
			SessionID:  sessionID,
			LineUserID: tracker.StringPtr(lineUserID),
			EventType:  tracker.EventPDPAConsent,
			Meta:       map[string]any{"accepted": true, "source": source},
		})
	}
	return nil
}

// SweepVisitors 清理过期购物车
func (s *StorefrontService) SweepVisitors() int {
	s.sites.Sweep()
	return s.visitors.Sweep()
}

// ==================== 私有方法 ====================

func (s *StorefrontService) open(ctx context.Context, slug string, v cart.Visitor) (*cart.Checkout, Storefront, error) {
	sf, err := s.Load(ctx, slug)
	if err != nil {
		return nil, Storefront{}, err
	}
	return s.checkout(sf, v), sf, nil
}

// checkout 每个访客在每个店铺一份购物车
func (s *StorefrontService) checkout(sf Storefront, v cart.Visitor) *cart.Checkout {
	v.StoreID = sf.StoreID
	key := v.SessionID + ":" + sf.StoreID
	co := s.visitors.GetOrCreate(key, func() *cart.Checkout {
		return cart.NewCheckout(v, s.gateway, s.tracker)
	})
	co.SetVisitor(v)
	return co
}
