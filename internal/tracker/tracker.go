package tracker

import (
	"context"
	"sync"
	"time"

	"lineboost_console/pkg/logger"
)

// 事件类型
const (
	EventPageView      = "page_view"
	EventProductClick  = "product_click"
	EventAddToCart     = "add_to_cart"
	EventCtaClick      = "cta_click"
	EventCheckoutStart = "checkout_start"
	EventCheckout      = "checkout_submit"
	EventPDPAConsent   = "pdpa_consent"
)

// Event 发往 /sites/event 的埋点数据
type Event struct {
	StoreID    string         `json:"storeId"`
	SessionID  string         `json:"sessionId"`
	LineUserID *string        `json:"lineUserId"`
	EventType  string         `json:"eventType"`
	EventName  string         `json:"eventName"`
	URL        string         `json:"url"`
	Page       string         `json:"page"`
	ProductID  *string        `json:"productId"`
	Meta       map[string]any `json:"meta"`
	TS         string         `json:"ts"`
}

// Sender 真正发请求的一方 (StorefrontService)
type Sender interface {
	SendEvent(ctx context.Context, ev Event) error
}

// Tracker 尽力而为的异步埋点
// 并发数由信号量控制，满了直接丢弃，失败只记日志
type Tracker struct {
	sender  Sender
	enabled bool
	timeout time.Duration

	sem chan struct{}
	wg  sync.WaitGroup
	now func() time.Time
}

// New 创建 Tracker。enabled=false 时 Track 直接返回
func New(sender Sender, enabled bool, concurrency int) *Tracker {
	if concurrency <= 0 {
		concurrency = 20
	}
	return &Tracker{
		sender:  sender,
		enabled: enabled && sender != nil,
		timeout: 5 * time.Second,
		sem:     make(chan struct{}, concurrency),
		now:     time.Now,
	}
}

// Enabled 是否开启埋点
func (t *Tracker) Enabled() bool {
	return t != nil && t.enabled
}

// Track 非阻塞发送，返回是否已排队
func (t *Tracker) Track(ev Event) bool {
	if !t.Enabled() || ev.StoreID == "" || ev.EventType == "" {
		return false
	}
	if ev.EventName == "" {
		ev.EventName = ev.EventType
	}
	if ev.Meta == nil {
		ev.Meta = map[string]any{}
	}
	if ev.TS == "" {
		ev.TS = t.now().UTC().Format(time.RFC3339Nano)
	}

	// 1. 获取信号量，已满则丢弃
	select {
	case t.sem <- struct{}{}:
	default:
		logger.Module("tracker").Warnf("queue full, drop %s", ev.EventType)
		return false
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() { <-t.sem }()

		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		if err := t.sender.SendEvent(ctx, ev); err != nil {
			logger.Module("tracker").WithField("store_id", ev.StoreID).Warnf("send %s failed: %v", ev.EventType, err)
			return
		}
		logger.Module("tracker").Debugf("sent %s", ev.EventType)
	}()
	return true
}

// Wait 等待在途事件发送完成 (退出时调用)
func (t *Tracker) Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// StringPtr 空字符串转 nil，对应 JSON null
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
