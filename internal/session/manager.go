package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lineboost_console/pkg/logger"
	"lineboost_console/pkg/utils"
)

const persistTimeout = 5 * time.Second

// Manager 管理所有在线会话
// 内存里缓存活跃的 Store，未命中时从 Persister 恢复
type Manager struct {
	live      *utils.TTLCache[*Store]
	persister Persister
	ttl       time.Duration
}

// NewManager ttl 同时作为内存缓存和持久化的过期时间
func NewManager(p Persister, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{
		live:      utils.NewTTLCache[*Store](ttl),
		persister: p,
		ttl:       ttl,
	}
}

// TTL 会话有效期
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create 登录成功后创建新会话并立即落盘
func (m *Manager) Create(ctx context.Context, user User, token string) (*Store, error) {
	key := uuid.NewString()
	st := NewStore(key)
	st.user = cloneUser(&user)
	st.token = token
	st.authReady = true

	if err := m.save(ctx, st.persistedLocked()); err != nil {
		return nil, fmt.Errorf("保存会话失败: %w", err)
	}
	m.attach(st)
	return st, nil
}

// Get 获取会话，内存未命中时恢复
func (m *Manager) Get(ctx context.Context, key string) (*Store, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	if st, ok := m.live.Get(key); ok {
		return st, nil
	}

	p, err := m.persister.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if p.Empty() {
		return nil, ErrNotFound
	}

	restored := restore(p)
	// 并发恢复时以先放入缓存的为准
	st := m.live.GetOrCreate(key, func() *Store { return restored })
	if st == restored {
		m.attach(st)
		logger.Module("session").WithField("key", short(key)).Debug("session rehydrated")
	}
	return st, nil
}

// Destroy 登出并删除持久化数据
func (m *Manager) Destroy(ctx context.Context, key string) error {
	if st, ok := m.live.Get(key); ok {
		st.setPersist(nil)
		st.Logout()
	}
	m.live.Delete(key)
	if err := m.persister.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// SweepLive 清理内存里过期的会话
func (m *Manager) SweepLive() int {
	return m.live.Sweep()
}

// PurgeExpired 清理持久化层的过期会话，后端不支持时返回 0
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	purger, ok := m.persister.(Purger)
	if !ok {
		return 0, nil
	}
	return purger.PurgeExpired(ctx, time.Now())
}

// LiveCount 内存中的会话数
func (m *Manager) LiveCount() int {
	return m.live.Len()
}

// ==================== 内部方法 ====================

func (m *Manager) attach(st *Store) {
	st.setPersist(func(p Persisted) {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if p.Empty() {
			if err := m.persister.Delete(ctx, p.Key); err != nil {
				logger.LogError("session", "persist", "删除会话失败", short(p.Key), err)
			}
			return
		}
		if err := m.save(ctx, p); err != nil {
			logger.LogError("session", "persist", "保存会话失败", short(p.Key), err)
		}
	})
	m.live.Set(st.key, st)
}

func (m *Manager) save(ctx context.Context, p Persisted) error {
	p.ExpiresAt = time.Now().Add(m.ttl)
	return m.persister.Save(ctx, p)
}

func (s *Store) persistedLocked() Persisted {
	return Persisted{
		Key:   s.key,
		User:  cloneUser(s.user),
		Theme: s.theme,
		Store: cloneStore(s.store),
		Token: s.token,
	}
}

func short(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8]
}
