package service

import (
	"context"
	"fmt"

	"lineboost_console/internal/session"
	"lineboost_console/pkg/logger"
	"lineboost_console/pkg/net"
)

type AuthService struct {
	api      *net.Client
	sessions *session.Manager
	stores   *StoreService
}

func NewAuthService(api *net.Client, sessions *session.Manager, stores *StoreService) *AuthService {
	return &AuthService{api: api, sessions: sessions, stores: stores}
}

// Login 用 Firebase ID Token 换取控制台会话
// 1. /auth/me 校验 Token 并拿到用户
// 2. 创建会话
// 3. 拉店铺列表，自动选中第一个 (失败不影响登录)
func (s *AuthService) Login(ctx context.Context, idToken string) (*session.Store, error) {
	user, err := s.me(ctx, idToken)
	if err != nil {
		return nil, err
	}

	st, err := s.sessions.Create(ctx, user, idToken)
	if err != nil {
		return nil, err
	}

	if err := s.stores.Sync(ctx, st); err != nil {
		logger.LogError("service", "Login", "加载店铺列表失败", user.ID, err)
	}
	st.SetAuthReady(true)
	return st, nil
}

// RefreshToken Firebase Token 过期后前端提交新 Token
func (s *AuthService) RefreshToken(ctx context.Context, st *session.Store, idToken string) error {
	user, err := s.me(ctx, idToken)
	if err != nil {
		return err
	}
	current := st.Snapshot().User
	if current != nil && current.ID != user.ID {
		return net.NewValidationError("idToken", "บัญชีไม่ตรงกับเซสชันปัจจุบัน")
	}
	st.SetToken(idToken)
	st.SetUser(&user)
	return nil
}

// Bootstrap 页面加载时刷新用户和店铺列表 (会话恢复后店铺列表为空)
func (s *AuthService) Bootstrap(ctx context.Context, st *session.Store) error {
	user, err := s.me(ctx, st.Token())
	if err != nil {
		return err
	}
	st.SetUser(&user)
	if err := s.stores.Sync(ctx, st); err != nil {
		return err
	}
	st.SetAuthReady(true)
	return nil
}

// Logout 清理会话
func (s *AuthService) Logout(ctx context.Context, st *session.Store) error {
	return s.sessions.Destroy(ctx, st.Key())
}

func (s *AuthService) me(ctx context.Context, token string) (session.User, error) {
	user, err := net.Data[session.User](ctx, s.api, net.Get("/auth/me", token))
	if err != nil {
		return session.User{}, fmt.Errorf("获取用户信息失败: %w", err)
	}
	if user.ID == "" {
		return session.User{}, fmt.Errorf("%w: /auth/me: missing id", net.ErrContract)
	}
	if user.Tier == "" {
		user.Tier = session.TierStarter
	}
	return user, nil
}
