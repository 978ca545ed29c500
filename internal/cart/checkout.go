package cart

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"lineboost_console/internal/tracker"
	"lineboost_console/pkg/net"
	"lineboost_console/pkg/siteconfig"
)

// MaxSlipBytes 付款凭证大小上限 1 MiB
const MaxSlipBytes = 1024 * 1024

var (
	ErrEmptyCart    = errors.New("ตะกร้าว่าง")
	ErrNoOrder      = errors.New("ยังไม่มีคำสั่งซื้อ")
	ErrNoStore      = errors.New("ไม่พบร้านค้า")
	ErrSlipTooLarge = net.NewValidationError("slip", "ไฟล์ใหญ่เกิน 1MB")
)

const (
	msgOrderFailed  = "สร้างคำสั่งซื้อไม่สำเร็จ"
	msgSlipFailed   = "อัปโหลดสลิปไม่สำเร็จ"
	msgFormRequired = "กรุณากรอกชื่อ เบอร์โทร และที่อยู่"
)

// State 访客结账流程状态
type State string

const (
	StateEmpty         State = "empty"
	StateHasItems      State = "has_items"
	StateCheckoutOpen  State = "checkout_open"
	StateOrderPlaced   State = "order_placed"
	StateSlipUploading State = "slip_uploading"
	StateSlipUploaded  State = "slip_uploaded"
	StateSlipError     State = "slip_error"
)

// ==================== 请求与结果 ====================

// CheckoutForm 结账表单
type CheckoutForm struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Phone   string `json:"phone" form:"phone" validate:"required"`
	Address string `json:"address" form:"address" validate:"required"`
	Note    string `json:"note" form:"note"`
}

// OrderLine 下单行，价格按数字发送
type OrderLine struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	ImageURL *string `json:"imageUrl"`
}

// Customer 下单客户信息
type Customer struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Address    string  `json:"address"`
	Note       string  `json:"note"`
	LineUserID *string `json:"lineUserId"`
}

// OrderRequest POST /sites/order
type OrderRequest struct {
	StoreID  string      `json:"storeId"`
	Items    []OrderLine `json:"items"`
	Customer Customer    `json:"customer"`
}

// OrderResult 后端下单结果，原样保存
type OrderResult struct {
	OrderID     string      `json:"orderId"`
	Total       json.Number `json:"total"`
	PromptpayID string      `json:"promptpayId"`
	QRURL       string      `json:"qrUrl"`
	SlipURL     string      `json:"slipUrl,omitempty"`
}

// Slip 访客上传的付款凭证
type Slip struct {
	FileName    string
	ContentType string
	Data        []byte
}

// SlipUpload POST /sites/order/confirm
type SlipUpload struct {
	StoreID     string `json:"storeId"`
	OrderID     string `json:"orderId"`
	SlipBase64  string `json:"slipBase64"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// OrderGateway 下单与确认付款的后端调用
type OrderGateway interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
	ConfirmOrder(ctx context.Context, req SlipUpload) (string, error)
}

// EventSink 埋点出口
type EventSink interface {
	Track(ev tracker.Event) bool
}

// Visitor 访客上下文
type Visitor struct {
	StoreID    string
	SessionID  string
	LineUserID string
	PageURL    string
	Page       string
}

// View 渲染层读取的快照
type View struct {
	State         State           `json:"state"`
	Items         []Item          `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Count         int             `json:"count"`
	CheckoutOpen  bool            `json:"checkoutOpen"`
	Form          CheckoutForm    `json:"form"`
	CheckoutError string          `json:"checkoutError,omitempty"`
	Order         *OrderResult    `json:"order,omitempty"`
	SlipError     string          `json:"slipError,omitempty"`
}

var validate = validator.New()

// ==================== 状态机 ====================

// Checkout 单个访客在单个店铺下的购物车与结账流程
// 所有操作持有同一把锁，包括网络调用期间
type Checkout struct {
	mu sync.Mutex

	visitor Visitor
	gateway OrderGateway
	sink    EventSink

	cart          Cart
	checkoutOpen  bool
	form          CheckoutForm
	checkoutError string

	order     *OrderResult
	slipState State
	slipError string
}

// NewCheckout 创建访客结账流程
func NewCheckout(visitor Visitor, gateway OrderGateway, sink EventSink) *Checkout {
	return &Checkout{visitor: visitor, gateway: gateway, sink: sink}
}

// SetVisitor 更新 LINE 用户 ID 或页面信息 (店铺不变)
func (c *Checkout) SetVisitor(v Visitor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v.StoreID = c.visitor.StoreID
	c.visitor = v
}

// State 当前状态
func (c *Checkout) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Checkout) stateLocked() State {
	switch {
	case c.order != nil:
		return c.slipState
	case c.checkoutOpen:
		return StateCheckoutOpen
	case !c.cart.IsEmpty():
		return StateHasItems
	default:
		return StateEmpty
	}
}

// View 当前快照
func (c *Checkout) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Checkout) viewLocked() View {
	v := View{
		State:         c.stateLocked(),
		Items:         c.cart.Items(),
		Total:         c.cart.Total(),
		Count:         c.cart.Count(),
		CheckoutOpen:  c.checkoutOpen,
		Form:          c.form,
		CheckoutError: c.checkoutError,
		SlipError:     c.slipError,
	}
	if c.order != nil {
		o := *c.order
		v.Order = &o
	}
	return v
}

// AddProduct 加入购物车，成功后上报 add_to_cart
func (c *Checkout) AddProduct(p siteconfig.Product) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.cart.Add(p)
	if err != nil {
		return c.viewLocked(), err
	}
	c.track(tracker.EventAddToCart, p.ID, map[string]any{
		"productName": p.Name,
		"price":       item.Price.InexactFloat64(),
		"quantity":    1,
	})
	return c.viewLocked(), nil
}

// UpdateQty 修改数量
func (c *Checkout) UpdateQty(id string, qty int) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.cart.UpdateQty(id, qty)
	return c.viewLocked(), err
}

// Remove 移除一行
func (c *Checkout) Remove(id string) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart.Remove(id)
	return c.viewLocked()
}

// ProductClick 商品点击埋点，返回跳转链接
func (c *Checkout) ProductClick(p siteconfig.Product) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.track(tracker.EventProductClick, p.ID, map[string]any{
		"productName": p.Name,
		"productUrl":  p.URL,
		"imageUrl":    p.ImageURL,
		"price":       string(p.Price),
	})
	return p.URL
}

// CtaClick CTA 点击埋点
func (c *Checkout) CtaClick(hero siteconfig.Hero) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.track(tracker.EventCtaClick, "", map[string]any{
		"ctaText": hero.CtaText,
		"ctaUrl":  hero.CtaURL,
	})
	return hero.CtaURL
}

// StartCheckout 打开结账表单
func (c *Checkout) StartCheckout() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cart.IsEmpty() {
		return c.viewLocked(), ErrEmptyCart
	}
	c.checkoutOpen = true
	c.checkoutError = ""
	c.track(tracker.EventCheckoutStart, "", map[string]any{
		"total": c.cart.Total().InexactFloat64(),
	})
	return c.viewLocked(), nil
}

// CloseCheckout 关闭结账表单，购物车保留
func (c *Checkout) CloseCheckout() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkoutOpen = false
	return c.viewLocked()
}

// Submit 提交订单
// 1. 本地校验表单与购物车，失败不发请求
// 2. 成功: 保存结果、清空购物车、关闭表单
// 3. 失败: 保留购物车和表单，记录后端提示
func (c *Checkout) Submit(ctx context.Context, form CheckoutForm) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	form = trimForm(form)
	c.form = form

	if err := validate.Struct(form); err != nil {
		c.checkoutError = msgFormRequired
		return c.viewLocked(), net.NewValidationError(firstInvalidField(err), msgFormRequired)
	}
	if c.cart.IsEmpty() {
		c.checkoutError = ErrEmptyCart.Error()
		return c.viewLocked(), ErrEmptyCart
	}
	if c.visitor.StoreID == "" {
		return c.viewLocked(), ErrNoStore
	}

	total := c.cart.Total()
	result, err := c.gateway.PlaceOrder(ctx, OrderRequest{
		StoreID: c.visitor.StoreID,
		Items:   c.orderLines(),
		Customer: Customer{
			Name:       form.Name,
			Phone:      form.Phone,
			Address:    form.Address,
			Note:       form.Note,
			LineUserID: tracker.StringPtr(c.visitor.LineUserID),
		},
	})
	if err != nil {
		c.checkoutError = net.UserMessage(err, msgOrderFailed)
		return c.viewLocked(), err
	}

	c.order = &result
	c.slipState = StateOrderPlaced
	c.slipError = ""
	c.cart.Clear()
	c.checkoutOpen = false
	c.checkoutError = ""
	c.form = CheckoutForm{}
	c.track(tracker.EventCheckout, "", map[string]any{
		"total":   total.InexactFloat64(),
		"orderId": result.OrderID,
	})
	return c.viewLocked(), nil
}

// UploadSlip 上传付款凭证，超过 1 MiB 直接拒绝
func (c *Checkout) UploadSlip(ctx context.Context, slip Slip) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.order == nil {
		return c.viewLocked(), ErrNoOrder
	}
	if len(slip.Data) > MaxSlipBytes {
		c.slipState = StateSlipError
		c.slipError = ErrSlipTooLarge.Message
		return c.viewLocked(), ErrSlipTooLarge
	}

	contentType := slip.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	c.slipState = StateSlipUploading
	c.slipError = ""

	slipURL, err := c.gateway.ConfirmOrder(ctx, SlipUpload{
		StoreID:     c.visitor.StoreID,
		OrderID:     c.order.OrderID,
		SlipBase64:  DataURL(contentType, slip.Data),
		FileName:    slip.FileName,
		ContentType: contentType,
	})
	if err != nil {
		c.slipState = StateSlipError
		c.slipError = net.UserMessage(err, msgSlipFailed)
		return c.viewLocked(), err
	}

	c.order.SlipURL = slipURL
	c.slipState = StateSlipUploaded
	return c.viewLocked(), nil
}

// Reset 关闭付款视图，开始新一轮购物
func (c *Checkout) Reset() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.slipState = ""
	c.slipError = ""
	return c.viewLocked()
}

// DataURL 编码为 data:<type>;base64,<data>
func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ==================== 内部方法 ====================

func (c *Checkout) orderLines() []OrderLine {
	items := c.cart.Items()
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLine{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price.InexactFloat64(),
			Qty:      item.Qty,
			ImageURL: tracker.StringPtr(item.ImageURL),
		})
	}
	return lines
}

func (c *Checkout) track(eventType, productID string, meta map[string]any) {
	if c.sink == nil {
		return
	}
	c.sink.Track(tracker.Event{
		StoreID:    c.visitor.StoreID,
		SessionID:  c.visitor.SessionID,
		LineUserID: tracker.StringPtr(c.visitor.LineUserID),
		EventType:  eventType,
		URL:        c.visitor.PageURL,
		Page:       c.visitor.Page,
		ProductID:  tracker.StringPtr(productID),
		Meta:       meta,
	})
}

func trimForm(f CheckoutForm) CheckoutForm {
	return CheckoutForm{
		Name:    strings.TrimSpace(f.Name),
		Phone:   strings.TrimSpace(f.Phone),
		Address: strings.TrimSpace(f.Address),
		Note:    strings.TrimSpace(f.Note),
	}
}

func firstInvalidField(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return strings.ToLower(errs[0].Field())
	}
	return ""
}
