package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/session"
	"lineboost_console/pkg/net"
)

// MaxImageBytes 广播图片上限 1 MiB
const MaxImageBytes = 1024 * 1024

var (
	ErrTierRequired     = net.NewValidationError("tier", "ฟีเจอร์นี้สำหรับแพ็คเกจ Growth ขึ้นไป")
	ErrLineNotConnected = net.NewValidationError("line", "กรุณาเชื่อมต่อ LINE OA ก่อนส่ง")
	ErrImageTooLarge    = net.NewValidationError("image", "ไฟล์ใหญ่เกิน 1MB กรุณาลดขนาดก่อนอัปโหลด")
	ErrNoAIVariants     = net.NewValidationError("variants", "ไม่พบผลลัพธ์จาก AI")
)

type BroadcastService struct {
	api  *net.Client
	line *LineService
}

func NewBroadcastService(api *net.Client, line *LineService) *BroadcastService {
	return &BroadcastService{api: api, line: line}
}

// Send 直接发送文本广播
func (s *BroadcastService) Send(ctx context.Context, st *session.Store, content string) (dto.BroadcastResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return dto.BroadcastResult{}, net.NewValidationError("content", "กรุณากรอกข้อความก่อนส่ง")
	}
	sc, err := s.ready(ctx, st)
	if err != nil {
		return dto.BroadcastResult{}, err
	}

	body := map[string]any{"content": content, "sendNow": true, "storeId": sc.StoreID}
	return decodeBroadcastResult(ctx, s.api, net.Post("/broadcast", body, sc.Token))
}

// GenerateAI 生成多个版式，默认选中 card
func (s *BroadcastService) GenerateAI(ctx context.Context, sc Scope, content string) (dto.BroadcastAIResp, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return dto.BroadcastAIResp{}, net.NewValidationError("content", "กรุณากรอกข้อความก่อน")
	}
	if !session.CanUseAIBroadcast(sc.Tier) {
		return dto.BroadcastAIResp{}, ErrTierRequired
	}
	if err := sc.requireStore(); err != nil {
		return dto.BroadcastAIResp{}, err
	}

	body := map[string]string{"storeId": sc.StoreID, "content": content}
	resp, err := net.Data[dto.BroadcastAIResp](ctx, s.api, net.Post("/mcp/line/broadcast/ai", body, sc.Token))
	if err != nil {
		return dto.BroadcastAIResp{}, err
	}
	if len(resp.Variants) == 0 {
		return dto.BroadcastAIResp{}, ErrNoAIVariants
	}
	resp.Preferred = PreferredVariant(resp.Variants)
	return resp, nil
}

// PreferredVariant 优先 card，没有时取第一个
func PreferredVariant(variants []dto.BroadcastVariant) *dto.BroadcastVariant {
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		if variants[i].Type == "card" {
			v := variants[i]
			return &v
		}
	}
	v := variants[0]
	return &v
}

// SendVariant 发送编辑后的 AI 版式
func (s *BroadcastService) SendVariant(ctx context.Context, st *session.Store, req dto.BroadcastSendReq) (dto.BroadcastResult, error) {
	payload, err := variantPayload(req)
	if err != nil {
		return dto.BroadcastResult{}, err
	}
	sc, err := s.ready(ctx, st)
	if err != nil {
		return dto.BroadcastResult{}, err
	}
	payload["storeId"] = sc.StoreID
	return decodeBroadcastResult(ctx, s.api, net.Post("/mcp/line/broadcast/send", payload, sc.Token))
}

// UploadImage 上传卡片图片，返回公开地址
func (s *BroadcastService) UploadImage(ctx context.Context, sc Scope, fileName, contentType string, data []byte) (string, error) {
	if err := sc.requireStore(); err != nil {
		return "", err
	}
	if len(data) > MaxImageBytes {
		return "", ErrImageTooLarge
	}
	if contentType == "" {
		contentType = "image/png"
	}

	body := map[string]string{
		"storeId":     sc.StoreID,
		"fileName":    fileName,
		"contentType": contentType,
		"dataBase64":  base64.StdEncoding.EncodeToString(data),
	}
	resp, err := net.Data[dto.UploadImageResp](ctx, s.api, net.Post("/mcp/line/upload-image", body, sc.Token))
	if err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", net.NewValidationError("url", "ไม่พบ URL รูป")
	}
	return resp.URL, nil
}

// ==================== 私有方法 ====================

// ready 发送前确认 LINE 已连接，会话里状态未知时重新查询
func (s *BroadcastService) ready(ctx context.Context, st *session.Store) (Scope, error) {
	sc := ScopeOf(st)
	if err := sc.requireStore(); err != nil {
		return sc, err
	}
	if st.Snapshot().LineOA.Connected {
		return sc, nil
	}
	status, err := s.line.Status(ctx, st)
	if err != nil {
		return sc, err
	}
	if !status.Connected {
		return sc, ErrLineNotConnected
	}
	return sc, nil
}

func variantPayload(req dto.BroadcastSendReq) (map[string]any, error) {
	switch req.Type {
	case "text":
		text := strings.TrimSpace(req.Text)
		if text == "" {
			return nil, net.NewValidationError("text", "กรุณาระบุข้อความก่อนส่ง")
		}
		return map[string]any{"type": "text", "text": text}, nil
	case "card":
		c := req.Card
		if c == nil || c.Title == "" || c.Body == "" || c.AltText == "" {
			return nil, net.NewValidationError("card", "กรุณากรอกข้อมูล card ให้ครบ")
		}
		return map[string]any{"type": "card", "card": c}, nil
	case "flex":
		f := req.Flex
		if f == nil || f.AltText == "" || len(strings.TrimSpace(string(f.Contents))) == 0 {
			return nil, net.NewValidationError("flex", "กรุณากรอกข้อมูล flex ให้ครบ")
		}
		if !json.Valid(f.Contents) {
			return nil, net.NewValidationError("flex", "Flex JSON ไม่ถูกต้อง")
		}
		return map[string]any{"type": "flex", "flex": f}, nil
	}
	return nil, net.NewValidationError("type", "ไม่รองรับรูปแบบข้อความนี้")
}

// decodeBroadcastResult quota 可能在 data 里也可能在顶层
func decodeBroadcastResult(ctx context.Context, api *net.Client, req *net.Request) (dto.BroadcastResult, error) {
	body, err := api.Send(ctx, req)
	if err != nil {
		return dto.BroadcastResult{}, err
	}
	var env struct {
		Success *bool                `json:"success"`
		Message string               `json:"message"`
		Quota   *dto.BroadcastQuota  `json:"quota"`
		Data    *dto.BroadcastResult `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return dto.BroadcastResult{}, net.ErrContract
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "ส่ง Broadcast ไม่สำเร็จ"
		}
		return dto.BroadcastResult{}, &net.APIError{StatusCode: 200, Message: msg}
	}
	if env.Data != nil && env.Data.Quota != nil {
		return *env.Data, nil
	}
	return dto.BroadcastResult{Quota: env.Quota}, nil
}
