package service

import (
	"context"
	"strings"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/session"
	"lineboost_console/pkg/net"
)

type LineService struct {
	api *net.Client
}

func NewLineService(api *net.Client) *LineService {
	return &LineService{api: api}
}

// Status 查询当前店铺的 LINE 连接状态并写回会话
func (s *LineService) Status(ctx context.Context, st *session.Store) (dto.LineStatus, error) {
	sc := ScopeOf(st)
	req := net.Get("/line/status", sc.Token).WithQuery("storeId", sc.StoreID)
	status, err := net.Data[dto.LineStatus](ctx, s.api, req)
	if err != nil {
		return dto.LineStatus{}, err
	}

	// 请求期间切换了店铺，结果作废
	if ScopeOf(st).StoreID != sc.StoreID {
		return status, nil
	}

	patch := session.LineOAPatch{Connected: session.Bool(status.Connected)}
	if status.DisplayName != "" {
		patch.Name = session.String(status.DisplayName)
	}
	if id := firstNonBlank(status.LineAccountID, status.LineUserID); id != "" {
		patch.ID = session.String(id)
	}
	st.SetLineOA(patch)
	return status, nil
}

// Connect 生成 LINE 授权地址
func (s *LineService) Connect(ctx context.Context, sc Scope, state map[string]any) (dto.LineConnectResp, error) {
	var body any
	if len(state) > 0 {
		body = dto.LineConnectReq{State: state}
	}
	resp, err := net.Data[dto.LineConnectResp](ctx, s.api, net.Post("/line/connect", body, sc.Token))
	if err != nil {
		return resp, err
	}
	if resp.URL == "" {
		return resp, net.NewValidationError("url", "ไม่ได้รับลิงก์เชื่อมต่อ LINE")
	}
	return resp, nil
}

// Callback 完成授权，成功后会话标记为已连接
func (s *LineService) Callback(ctx context.Context, st *session.Store, q dto.LineCallbackQuery) (dto.LineCallbackResp, error) {
	req := net.Get("/callback", st.Token()).WithQuery("code", q.Code).WithQuery("state", q.State)
	info, err := net.Data[dto.LineCallbackResp](ctx, s.api, req)
	if err != nil {
		return info, err
	}

	name := info.DisplayName
	if name == "" {
		name = "LINE OA"
	}
	st.SetLineOA(session.LineOAPatch{
		Connected:    session.Bool(true),
		Name:         session.String(name),
		ID:           session.String(info.UserID),
		Followers:    session.Int(info.Followers),
		ResponseRate: session.Int(info.ResponseRate),
	})
	return info, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
