package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"lineboost_console/internal/api/dto"
	"lineboost_console/pkg/net"
)

type InboxService struct {
	api *net.Client
}

func NewInboxService(api *net.Client) *InboxService {
	return &InboxService{api: api}
}

// 后端字段有新旧两种命名
type rawCustomer struct {
	UserID       string `json:"userId"`
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	PictureURL   string `json:"pictureUrl"`
	LastMessage  string `json:"lastMessage"`
	LastActivity any    `json:"lastActivity"`
	LastTime     any    `json:"lastTime"`
	IsAdmin      bool   `json:"isAdmin"`
}

type rawMessage struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	IsFromUser *bool  `json:"isFromUser"`
	From       string `json:"from"`
	Timestamp  any    `json:"timestamp"`
}

// Customers 会话列表
func (s *InboxService) Customers(ctx context.Context, sc Scope) ([]dto.InboxCustomer, error) {
	if err := sc.requireStore(); err != nil {
		return []dto.InboxCustomer{}, err
	}
	resp, err := net.Flat[struct {
		Customers []rawCustomer `json:"customers"`
	}](ctx, s.api, net.Get("/inbox/customers", sc.Token).WithQuery("storeId", sc.StoreID), "customers")
	if err != nil {
		return []dto.InboxCustomer{}, err
	}

	out := make([]dto.InboxCustomer, 0, len(resp.Customers))
	for _, c := range resp.Customers {
		id := firstNonBlank(c.UserID, c.ID)
		activity := stringify(c.LastActivity)
		if activity == "" {
			activity = stringify(c.LastTime)
		}
		out = append(out, dto.InboxCustomer{
			UserID:       id,
			DisplayName:  c.DisplayName,
			PictureURL:   c.PictureURL,
			LastMessage:  c.LastMessage,
			LastActivity: activity,
			IsAdmin:      c.IsAdmin,
		})
	}
	return out, nil
}

// History 聊天记录
func (s *InboxService) History(ctx context.Context, sc Scope, customerID string) ([]dto.InboxMessage, error) {
	if err := sc.requireStore(); err != nil {
		return []dto.InboxMessage{}, err
	}
	req := net.Get(net.JoinPath("inbox", "history", customerID), sc.Token).WithQuery("storeId", sc.StoreID)
	resp, err := net.Flat[struct {
		Messages []rawMessage `json:"messages"`
	}](ctx, s.api, req, "messages")
	if err != nil {
		return []dto.InboxMessage{}, err
	}

	out := make([]dto.InboxMessage, 0, len(resp.Messages))
	for i, m := range resp.Messages {
		ts := stringify(m.Timestamp)
		id := m.ID
		if id == "" {
			if ts == "" {
				id = "no-ts-" + strconv.Itoa(i)
			} else {
				id = ts + "-" + strconv.Itoa(i)
			}
		}
		fromUser := m.From == "user"
		if m.IsFromUser != nil {
			fromUser = *m.IsFromUser
		}
		out = append(out, dto.InboxMessage{ID: id, Text: m.Text, IsFromUser: fromUser, Timestamp: ts})
	}
	return out, nil
}

// Send 回复客户
func (s *InboxService) Send(ctx context.Context, sc Scope, customerID, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return net.NewValidationError("message", "กรุณาพิมพ์ข้อความ")
	}
	return s.api.Exec(ctx, net.Post(net.JoinPath("inbox", "send", customerID), dto.SendMessageReq{Message: message}, sc.Token))
}

// Suggest AI 建议回复
func (s *InboxService) Suggest(ctx context.Context, sc Scope, customerID string) ([]string, error) {
	if err := sc.requireStore(); err != nil {
		return []string{}, err
	}
	body := map[string]string{"storeId": sc.StoreID, "userId": customerID}
	resp, err := net.Flat[dto.SuggestResp](ctx, s.api, net.Post("/inbox/suggest", body, sc.Token), "replies")
	if err != nil || resp.Replies == nil {
		return []string{}, err
	}
	return resp.Replies, nil
}

// SetAdmin 标记客户为店铺管理员
func (s *InboxService) SetAdmin(ctx context.Context, sc Scope, customerID string, isAdmin bool) error {
	if err := sc.requireStore(); err != nil {
		return err
	}
	body := map[string]any{"storeId": sc.StoreID, "isAdmin": isAdmin}
	return s.api.Exec(ctx, net.Post(net.JoinPath("inbox", "customers", customerID, "admin"), body, sc.Token))
}

// ==================== 实时消息 ====================

// StreamMessage 推给浏览器的实时消息
type StreamMessage struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	IsFromUser bool   `json:"isFromUser"`
	Timestamp  string `json:"timestamp"`
}

type streamEvent struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	LineUserID  string `json:"lineUserId"`
	MessageText string `json:"messageText"`
	Text        string `json:"text"`
	CreatedAt   any    `json:"createdAt"`
	Timestamp   any    `json:"timestamp"`
}

// Stream 订阅单个客户的实时消息，ctx 取消或选中其他客户时关闭
func (s *InboxService) Stream(ctx context.Context, sc Scope, customerID string) (<-chan StreamMessage, *net.Subscription, error) {
	if err := sc.requireStore(); err != nil {
		return nil, nil, err
	}
	req := net.Get(net.JoinPath("inbox", "stream", customerID), "").
		WithQuery("storeId", sc.StoreID).
		WithQuery("token", sc.Token)
	sub := s.api.Subscribe(ctx, req)

	out := make(chan StreamMessage, 16)
	go func() {
		defer close(out)
		for ev := range sub.Events() {
			msg, ok := ParseStreamEvent(ev, customerID)
			if !ok {
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, sub, nil
}

// ParseStreamEvent 过滤其他客户的消息和空消息
func ParseStreamEvent(ev net.Event, customerID string) (StreamMessage, bool) {
	var data streamEvent
	if err := json.Unmarshal([]byte(ev.Data), &data); err != nil {
		return StreamMessage{}, false
	}
	if data.LineUserID != "" && data.LineUserID != customerID {
		return StreamMessage{}, false
	}
	text := firstNonBlank(data.MessageText, data.Text)
	if text == "" {
		return StreamMessage{}, false
	}

	fromUser := data.Type == "" || strings.HasPrefix(data.Type, "message")
	ts := stringify(data.CreatedAt)
	if ts == "" {
		ts = stringify(data.Timestamp)
	}
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	id := firstNonBlank(data.ID, ev.ID)
	if id == "" {
		id = strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return StreamMessage{ID: id, Text: text, IsFromUser: fromUser, Timestamp: ts}, true
}

// stringify 时间戳可能是字符串、毫秒数或 Firestore 对象
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any:
		if secs, ok := t["_seconds"].(float64); ok {
			return time.Unix(int64(secs), 0).UTC().Format(time.RFC3339)
		}
		if secs, ok := t["seconds"].(float64); ok {
			return time.Unix(int64(secs), 0).UTC().Format(time.RFC3339)
		}
	}
	raw, _ := json.Marshal(v)
	return string(raw)
}
