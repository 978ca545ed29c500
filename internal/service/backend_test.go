package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lineboost_console/internal/model"
	"lineboost_console/internal/repository"
	"lineboost_console/internal/session"
	"lineboost_console/pkg/net"
)

// ==================== 假后端 ====================

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]func(w http.ResponseWriter, r *http.Request)
	calls  []recorded
}

// newFakeBackend 未注册的路由返回 404
func newFakeBackend(t *testing.T) (*fakeBackend, *net.Client) {
	b := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){}}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)
	return b, net.NewClient(net.ClientConfig{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second})
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Auth: r.Header.Get("Authorization")}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.Body)
	}

	b.mu.Lock()
	b.calls = append(b.calls, rec)
	h, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"message":"not found"}`)
		return
	}
	h(w, r)
}

// on 固定响应，path 不含 /api 前缀
func (b *fakeBackend) on(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" /api"+path] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (b *fakeBackend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Method == method && c.Path == "/api"+path {
			n++
		}
	}
	return n
}

func (b *fakeBackend) last(method, path string) (recorded, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.calls) - 1; i >= 0; i-- {
		if c := b.calls[i]; c.Method == method && c.Path == "/api"+path {
			return c, true
		}
	}
	return recorded{}, false
}

// ==================== 会话 ====================

func setupTestSessions(t *testing.T) *session.Manager {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.ConsoleSession{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return session.NewManager(session.NewDBPersister(repository.NewSessionRepository(db)), time.Hour)
}

// newTestStore 已登录并选中 s1 的会话
func newTestStore(t *testing.T, tier session.Tier) *session.Store {
	st, err := setupTestSessions(t).Create(context.Background(), session.User{ID: "u1", Name: "Somchai", Tier: tier}, "tok")
	if err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}
	st.SetStores([]session.StoreInfo{{ID: "s1", Name: "ร้านชา"}, {ID: "s2", Name: "ร้านกาแฟ"}})
	return st
}
