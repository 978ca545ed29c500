package net

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"lineboost_console/pkg/logger"
)

// ==================== SSE 订阅 ====================

// Event 一条服务端事件
type Event struct {
	ID   string
	Type string
	Data string
}

// Backoff 指数退避，上限封顶
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	next    time.Duration
}

// NewBackoff 默认 1s 起步，30s 封顶
func NewBackoff() *Backoff {
	return &Backoff{Initial: time.Second, Max: 30 * time.Second}
}

// Next 返回本次等待时长并翻倍
func (b *Backoff) Next() time.Duration {
	if b.next <= 0 {
		b.next = b.Initial
	}
	d := b.next
	b.next *= 2
	if b.next > b.Max {
		b.next = b.Max
	}
	return d
}

// Reset 连接成功后重置
func (b *Backoff) Reset() {
	b.next = 0
}

// Subscription 一个会话对应的长连接
// 断线后按退避策略重连，带 Last-Event-ID 续传
type Subscription struct {
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}

	mu          sync.Mutex
	lastEventID string
	err         error
}

// Events 事件通道，订阅结束时关闭
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close 关闭订阅并等待后台协程退出
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// Err 订阅终止原因 (主动关闭时为 nil)
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// LastEventID 最后收到的事件 ID
func (s *Subscription) LastEventID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEventID
}

// Subscribe 打开 SSE 订阅。后端要求 token 走查询参数
func (c *Client) Subscribe(ctx context.Context, req *Request) *Subscription {
	return c.subscribe(ctx, req, NewBackoff())
}

func (c *Client) subscribe(ctx context.Context, req *Request, backoff *Backoff) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		events: make(chan Event, 16),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go sub.run(ctx, c, req, backoff)
	return sub
}

func (s *Subscription) run(ctx context.Context, c *Client, req *Request, backoff *Backoff) {
	log := logger.Module("sse").WithField("path", req.Path)
	defer close(s.done)
	defer close(s.events)

	for {
		received, err := s.connect(ctx, c, req)
		if ctx.Err() != nil {
			return
		}
		if received {
			backoff.Reset()
		}

		// 4xx (除 429) 不会自愈，直接结束订阅
		if code := StatusCode(err); code >= 400 && code < 500 && code != http.StatusTooManyRequests {
			log.Warnf("stream rejected: %v", err)
			s.setErr(err)
			return
		}

		wait := backoff.Next()
		log.Infof("stream disconnected (%v), reconnect in %s", err, wait)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// connect 建立一次连接并读到断开，返回是否收到过事件
func (s *Subscription) connect(ctx context.Context, c *Client, req *Request) (bool, error) {
	r := req.build(ctx, c.stream).
		SetHeader("Accept", "text/event-stream").
		SetDoNotParseResponse(true)
	if id := s.LastEventID(); id != "" {
		r.SetHeader("Last-Event-ID", id)
	}

	resp, err := r.Execute(http.MethodGet, req.Path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(body, 4096))
		return false, &APIError{StatusCode: code, Message: messageOf(msg)}
	}

	received := false
	err = readEvents(body, func(ev Event) bool {
		received = true
		if ev.ID != "" {
			s.mu.Lock()
			s.lastEventID = ev.ID
			s.mu.Unlock()
		}
		select {
		case s.events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	})
	if err == nil {
		err = io.EOF
	}
	return received, err
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// readEvents 按行解析 text/event-stream，emit 返回 false 时停止
func readEvents(r io.Reader, emit func(Event) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var ev Event
	var data []string
	hasField := false

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		// 空行: 派发事件
		if line == "" {
			if hasField && len(data) > 0 {
				ev.Data = strings.Join(data, "\n")
				if ev.Type == "" {
					ev.Type = "message"
				}
				if !emit(ev) {
					return nil
				}
			}
			ev, data, hasField = Event{}, nil, false
			continue
		}
		// 注释行 (心跳)
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		hasField = true
		switch field {
		case "event":
			ev.Type = value
		case "data":
			data = append(data, value)
		case "id":
			ev.ID = value
		}
	}
	return scanner.Err()
}
