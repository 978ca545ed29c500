package session

import (
	"sync"
	"time"
)

// Tier 用户套餐等级
type Tier string

const (
	TierStarter    Tier = "starter"
	TierGrowth     Tier = "growth"
	TierEnterprise Tier = "enterprise"
)

// ThemeLight 目前只有浅色主题
const ThemeLight = "light"

// User 登录用户
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Avatar  string `json:"avatar,omitempty"`
	Tier    Tier   `json:"tier"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
}

// StoreInfo 租户 (店铺)
type StoreInfo struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// LineOA 最近一次拿到的 LINE OA 连接状态
type LineOA struct {
	Connected    bool   `json:"connected"`
	Name         string `json:"name,omitempty"`
	ID           string `json:"id,omitempty"`
	Followers    int    `json:"followers,omitempty"`
	ResponseRate int    `json:"responseRate,omitempty"`
}

// LineOAPatch 局部更新，nil 字段保持不变
type LineOAPatch struct {
	Connected    *bool   `json:"connected,omitempty"`
	Name         *string `json:"name,omitempty"`
	ID           *string `json:"id,omitempty"`
	Followers    *int    `json:"followers,omitempty"`
	ResponseRate *int    `json:"responseRate,omitempty"`
}

// Snapshot 会话只读快照
type Snapshot struct {
	Key       string      `json:"-"`
	User      *User       `json:"user"`
	AuthReady bool        `json:"authReady"`
	Theme     string      `json:"theme"`
	Stores    []StoreInfo `json:"stores"`
	Store     *StoreInfo  `json:"store"`
	LineOA    LineOA      `json:"lineOA"`
}

// ActiveStoreID 当前店铺 ID，没有时为空串
func (s Snapshot) ActiveStoreID() string {
	if s.Store == nil {
		return ""
	}
	return s.Store.ID
}

// Persisted 需要落盘的子集
type Persisted struct {
	Key       string     `json:"key"`
	User      *User      `json:"user"`
	Theme     string     `json:"theme"`
	Store     *StoreInfo `json:"store"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// Empty 用户和 Token 都没有时视为已登出
func (p Persisted) Empty() bool {
	return p.User == nil && p.Token == ""
}

// Store 单个浏览器会话的状态
// 所有修改都走 setter，持久化子集变化时回调 persist
type Store struct {
	mu sync.RWMutex

	key       string
	user      *User
	authReady bool
	theme     string
	stores    []StoreInfo
	store     *StoreInfo
	lineOA    LineOA
	token     string

	persist func(Persisted)
}

// NewStore 创建空会话
func NewStore(key string) *Store {
	return &Store{key: key, theme: ThemeLight}
}

// restore 用持久化数据恢复，authReady 和店铺列表不恢复
func restore(p Persisted) *Store {
	s := NewStore(p.Key)
	s.user = cloneUser(p.User)
	s.store = cloneStore(p.Store)
	s.token = p.Token
	if p.Theme != "" {
		s.theme = p.Theme
	}
	return s
}

func (s *Store) Key() string {
	return s.key
}

// Token 上游 Bearer Token
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Snapshot 返回副本
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stores := make([]StoreInfo, len(s.stores))
	copy(stores, s.stores)
	return Snapshot{
		Key:       s.key,
		User:      cloneUser(s.user),
		AuthReady: s.authReady,
		Theme:     s.theme,
		Stores:    stores,
		Store:     cloneStore(s.store),
		LineOA:    s.lineOA,
	}
}

// ==================== Setter ====================

func (s *Store) SetUser(u *User) {
	s.update(true, func() { s.user = cloneUser(u) })
}

func (s *Store) SetToken(token string) {
	s.update(true, func() { s.token = token })
}

func (s *Store) SetAuthReady(ready bool) {
	s.update(false, func() { s.authReady = ready })
}

// SetTheme 只接受 light
func (s *Store) SetTheme(string) {
	s.update(true, func() { s.theme = ThemeLight })
}

// SetStores 没有当前店铺时自动选第一个
func (s *Store) SetStores(stores []StoreInfo) {
	s.mu.Lock()
	list := make([]StoreInfo, len(stores))
	copy(list, stores)
	s.stores = list
	selected := false
	if s.store == nil && len(list) > 0 {
		first := list[0]
		s.store = &first
		selected = true
	}
	s.mu.Unlock()

	if selected {
		s.flush()
	}
}

// SetActiveStoreByID 切换店铺并重置 LINE 状态，ID 不在列表中时当前店铺置空
func (s *Store) SetActiveStoreByID(id string) bool {
	found := false
	s.update(true, func() {
		s.store = nil
		for _, st := range s.stores {
			if st.ID == id {
				next := st
				s.store = &next
				found = true
				break
			}
		}
		s.lineOA = LineOA{}
	})
	return found
}

// SetStore 直接设置当前店铺，不重置 LINE 状态
func (s *Store) SetStore(st *StoreInfo) {
	s.update(true, func() { s.store = cloneStore(st) })
}

// SetLineOA 合并更新
func (s *Store) SetLineOA(p LineOAPatch) {
	s.update(false, func() {
		if p.Connected != nil {
			s.lineOA.Connected = *p.Connected
		}
		if p.Name != nil {
			s.lineOA.Name = *p.Name
		}
		if p.ID != nil {
			s.lineOA.ID = *p.ID
		}
		if p.Followers != nil {
			s.lineOA.Followers = *p.Followers
		}
		if p.ResponseRate != nil {
			s.lineOA.ResponseRate = *p.ResponseRate
		}
	})
}

// ResetStore 清掉当前店铺和 LINE 状态
func (s *Store) ResetStore() {
	s.update(true, func() {
		s.store = nil
		s.lineOA = LineOA{}
	})
}

// Logout 清空全部状态
func (s *Store) Logout() {
	s.update(true, func() {
		s.user = nil
		s.authReady = false
		s.stores = nil
		s.store = nil
		s.lineOA = LineOA{}
		s.token = ""
	})
}

// ==================== 内部方法 ====================

func (s *Store) update(persisted bool, fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	if persisted {
		s.flush()
	}
}

func (s *Store) flush() {
	s.mu.RLock()
	hook := s.persist
	p := s.persistedLocked()
	s.mu.RUnlock()
	if hook != nil {
		hook(p)
	}
}

func (s *Store) setPersist(fn func(Persisted)) {
	s.mu.Lock()
	s.persist = fn
	s.mu.Unlock()
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneStore(st *StoreInfo) *StoreInfo {
	if st == nil {
		return nil
	}
	c := *st
	return &c
}

// Bool 构造 *bool
func Bool(v bool) *bool {
	return &v
}

// String 构造 *string
func String(v string) *string {
	return &v
}

// Int 构造 *int
func Int(v int) *int {
	return &v
}
