package service

import (
	"context"
	"strings"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/session"
	"lineboost_console/pkg/net"
)

type StoreService struct {
	api *net.Client
}

func NewStoreService(api *net.Client) *StoreService {
	return &StoreService{api: api}
}

// List 当前用户的店铺
func (s *StoreService) List(ctx context.Context, token string) ([]dto.StoreItem, error) {
	resp, err := net.Data[dto.StoreListResp](ctx, s.api, net.Get("/stores", token))
	if err != nil {
		return nil, err
	}
	if resp.Stores == nil {
		return []dto.StoreItem{}, nil
	}
	return resp.Stores, nil
}

// Sync 拉取店铺列表写入会话，当前店铺已被删除时重新选择
func (s *StoreService) Sync(ctx context.Context, st *session.Store) error {
	stores, err := s.List(ctx, st.Token())
	if err != nil {
		return err
	}

	infos := make([]session.StoreInfo, 0, len(stores))
	for _, it := range stores {
		infos = append(infos, session.StoreInfo{ID: it.ID, Name: it.Name})
	}

	if active := st.Snapshot().Store; active != nil && !containsStore(infos, active.ID) {
		st.ResetStore()
	}
	st.SetStores(infos)
	return nil
}

// Create 新建店铺并切换过去
func (s *StoreService) Create(ctx context.Context, st *session.Store, name string) (dto.StoreItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dto.StoreItem{}, net.NewValidationError("name", "กรุณากรอกชื่อร้าน")
	}

	resp, err := net.Data[dto.CreateStoreResp](ctx, s.api, net.Post("/stores", map[string]string{"name": name}, st.Token()))
	if err != nil {
		return dto.StoreItem{}, err
	}

	if err := s.Sync(ctx, st); err != nil {
		return resp.Store, err
	}
	st.SetActiveStoreByID(resp.Store.ID)
	return resp.Store, nil
}

// Select 切换当前店铺，LINE 状态随之重置
func (s *StoreService) Select(st *session.Store, storeID string) error {
	if !st.SetActiveStoreByID(storeID) {
		return net.NewValidationError("storeId", "ไม่พบร้านค้านี้")
	}
	return nil
}

// Reset 清空店铺数据
func (s *StoreService) Reset(ctx context.Context, sc Scope) error {
	if err := sc.requireStore(); err != nil {
		return err
	}
	return s.api.Exec(ctx, net.Post(net.JoinPath("stores", sc.StoreID, "reset"), map[string]string{"confirm": "RESET"}, sc.Token))
}

// Stats 店铺统计
func (s *StoreService) Stats(ctx context.Context, sc Scope) (dto.StoreStats, error) {
	if err := sc.requireStore(); err != nil {
		return dto.StoreStats{}, err
	}
	stats, err := net.Data[dto.StoreStats](ctx, s.api, net.Get(net.JoinPath("stores", sc.StoreID, "stats"), sc.Token))
	if stats == nil {
		stats = dto.StoreStats{}
	}
	return stats, err
}

// ==================== LINE 凭证 ====================

// LineCredentials 店铺的 Messaging API 凭证
func (s *StoreService) LineCredentials(ctx context.Context, sc Scope) (dto.LineCredentials, error) {
	if err := sc.requireStore(); err != nil {
		return dto.LineCredentials{}, err
	}
	creds, err := net.Data[dto.LineCredentials](ctx, s.api, net.Get(net.JoinPath("stores", sc.StoreID, "line-credentials"), sc.Token))
	if err != nil {
		return creds, err
	}
	creds.LineOAURL = LineOALinkOf(creds).URL
	return creds, nil
}

// SaveLineCredentials 保存凭证
func (s *StoreService) SaveLineCredentials(ctx context.Context, sc Scope, req dto.SaveLineCredentialsReq) error {
	if err := sc.requireStore(); err != nil {
		return err
	}
	req.ChannelAccessToken = strings.TrimSpace(req.ChannelAccessToken)
	req.ChannelSecret = strings.TrimSpace(req.ChannelSecret)
	if req.ChannelAccessToken == "" {
		return net.NewValidationError("channelAccessToken", "กรุณากรอก Channel Access Token")
	}
	return s.api.Exec(ctx, net.Post(net.JoinPath("stores", sc.StoreID, "line-credentials"), req, sc.Token))
}

// OALink 加好友链接
func (s *StoreService) OALink(ctx context.Context, sc Scope) (dto.LineOALink, error) {
	creds, err := s.LineCredentials(ctx, sc)
	if err != nil {
		return dto.LineOALink{}, err
	}
	return LineOALinkOf(creds), nil
}

// LineOALinkOf basicId 补 @ 前缀后拼出 line.me 链接，后端已给出链接时直接使用
func LineOALinkOf(creds dto.LineCredentials) dto.LineOALink {
	raw := creds.BasicID
	if raw == "" {
		raw = creds.LineID
	}
	basicID := ""
	if raw != "" {
		basicID = raw
		if !strings.HasPrefix(basicID, "@") {
			basicID = "@" + basicID
		}
	}

	link := dto.LineOALink{BasicID: basicID, URL: creds.LineOAURL}
	if link.URL == "" && basicID != "" {
		link.URL = "https://line.me/R/ti/p/" + basicID
	}
	return link
}

// ==================== AI 设置 ====================

// AISettings 读取 AI 自动回复开关，后端没有返回时默认开启
func (s *StoreService) AISettings(ctx context.Context, sc Scope) (dto.AISettings, error) {
	if err := sc.requireStore(); err != nil {
		return dto.AISettings{AIEnable: true}, err
	}
	raw, err := net.Data[aiSettingsRaw](ctx, s.api, net.Get(net.JoinPath("stores", sc.StoreID, "ai-settings"), sc.Token))
	if err != nil {
		return dto.AISettings{AIEnable: true}, err
	}
	if raw.AIEnable == nil {
		return dto.AISettings{AIEnable: true}, nil
	}
	return dto.AISettings{AIEnable: *raw.AIEnable}, nil
}

// UpdateAISettings 修改开关
func (s *StoreService) UpdateAISettings(ctx context.Context, sc Scope, enable bool) error {
	if err := sc.requireStore(); err != nil {
		return err
	}
	return s.api.Exec(ctx, net.Post(net.JoinPath("stores", sc.StoreID, "ai-settings"), dto.AISettings{AIEnable: enable}, sc.Token))
}

type aiSettingsRaw struct {
	AIEnable *bool `json:"aiEnable"`
}

func containsStore(list []session.StoreInfo, id string) bool {
	for _, st := range list {
		if st.ID == id {
			return true
		}
	}
	return false
}
