package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"lineboost_console/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeLoader struct {
	stores map[string]*session.Store
}

func (f *fakeLoader) Get(_ context.Context, key string) (*session.Store, error) {
	if st, ok := f.stores[key]; ok {
		return st, nil
	}
	return nil, session.ErrNotFound
}

func newLoggedIn(key string, admin bool) *session.Store {
	st := session.NewStore(key)
	st.SetUser(&session.User{ID: "u-" + key, Tier: session.TierStarter, IsAdmin: admin})
	return st
}

func performRequest(r http.Handler, method, path, cookie, bearer string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: GetJWTConfig().CookieName, Value: cookie})
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionAuth(t *testing.T) {
	loader := &fakeLoader{stores: map[string]*session.Store{"k1": newLoggedIn("k1", false)}}
	r := gin.New()
	r.GET("/api/console/me", SessionAuth(loader), func(c *gin.Context) {
		c.String(http.StatusOK, GetSession(c).Key())
	})
	r.GET("/app/dashboard", PageAuth(loader), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	token, err := GenerateSessionToken("k1", "u-k1")
	assert.NoError(t, err)
	unknown, _ := GenerateSessionToken("gone", "u")

	t.Run("Cookie 登录", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/console/me", token, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "k1", w.Body.String())
	})

	t.Run("Bearer 登录", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/console/me", "", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("未登录 API 返回 401", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/console/me", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("会话已不存在", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/console/me", unknown, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("伪造 Token", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/api/console/me", token+"x", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("未登录页面跳转登录", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/app/dashboard?tab=1", "", "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?next=%2Fapp%2Fdashboard%3Ftab%3D1", w.Header().Get("Location"))
	})
}

func TestRequireAdmin(t *testing.T) {
	loader := &fakeLoader{stores: map[string]*session.Store{
		"user":  newLoggedIn("user", false),
		"admin": newLoggedIn("admin", true),
	}}
	r := gin.New()
	r.GET("/api/console/admin/shops", SessionAuth(loader), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	userToken, _ := GenerateSessionToken("user", "u")
	adminToken, _ := GenerateSessionToken("admin", "a")

	assert.Equal(t, http.StatusForbidden, performRequest(r, http.MethodGet, "/api/console/admin/shops", userToken, "").Code)
	assert.Equal(t, http.StatusOK, performRequest(r, http.MethodGet, "/api/console/admin/shops", adminToken, "").Code)
}

func TestLocalGuard(t *testing.T) {
	g := NewLocalGuard()
	ctx := context.Background()

	release, ok, err := g.Acquire(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, g.Running("k"))

	_, ok, _ = g.Acquire(ctx, "k")
	assert.False(t, ok)

	// 不同 key 互不影响
	other, ok, _ := g.Acquire(ctx, "other")
	assert.True(t, ok)
	other()

	release()
	release() // 重复释放无副作用
	assert.False(t, g.Running("k"))

	_, ok, _ = g.Acquire(ctx, "k")
	assert.True(t, ok)
}

func TestInFlight_RejectsDuplicateAndReleases(t *testing.T) {
	loader := &fakeLoader{stores: map[string]*session.Store{"k1": newLoggedIn("k1", false)}}
	guard := NewLocalGuard()
	entered := make(chan struct{})
	proceed := make(chan struct{})

	r := gin.New()
	r.POST("/api/console/broadcast", SessionAuth(loader), InFlight(guard, "broadcast"), func(c *gin.Context) {
		if c.Query("block") == "1" {
			close(entered)
			<-proceed
		}
		c.Status(http.StatusOK)
	})
	r.POST("/api/console/panic", SessionAuth(loader), InFlight(guard, "panic"), func(c *gin.Context) {
		panic("boom")
	})

	token, _ := GenerateSessionToken("k1", "u")

	var wg sync.WaitGroup
	wg.Add(1)
	var first *httptest.ResponseRecorder
	go func() {
		defer wg.Done()
		first = performRequest(r, http.MethodPost, "/api/console/broadcast?block=1", token, "")
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("第一个请求没有进入处理函数")
	}

	dup := performRequest(r, http.MethodPost, "/api/console/broadcast", token, "")
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.True(t, strings.Contains(dup.Body.String(), "broadcast"))

	close(proceed)
	wg.Wait()
	assert.Equal(t, http.StatusOK, first.Code)

	// 完成后可以再次提交
	again := performRequest(r, http.MethodPost, "/api/console/broadcast", token, "")
	assert.Equal(t, http.StatusOK, again.Code)

	// panic 后锁同样释放
	assert.Panics(t, func() { performRequest(r, http.MethodPost, "/api/console/panic", token, "") })
	assert.False(t, guard.Running(InFlightKey("k1", "panic")))
}

func TestVisitor_SetsCookieOnce(t *testing.T) {
	r := gin.New()
	r.GET("/public/shop", Visitor(), func(c *gin.Context) {
		c.String(http.StatusOK, GetVisitorID(c))
	})

	w := performRequest(r, http.MethodGet, "/public/shop", "", "")
	assert.True(t, strings.HasPrefix(w.Body.String(), "anon_"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), VisitorCookie+"=")

	req, _ := http.NewRequest(http.MethodGet, "/public/shop", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: "anon_fixed_1"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "anon_fixed_1", w.Body.String())
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}
