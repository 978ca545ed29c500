package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"lineboost_console/internal/session"
	"lineboost_console/pkg/net"
)

func TestAuthService_Login(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/auth/me", 200, `{"success":true,"data":{"id":"u1","name":"Somchai","email":"a@b.c"}}`)
	b.on("GET", "/stores", 200, `{"success":true,"data":{"stores":[{"id":"s9","name":"ร้าน"}]}}`)
	sessions := setupTestSessions(t)
	svc := NewAuthService(api, sessions, NewStoreService(api))

	st, err := svc.Login(context.Background(), "id-token")

	assert.NoError(t, err)
	snap := st.Snapshot()
	assert.True(t, snap.AuthReady)
	assert.Equal(t, "u1", snap.User.ID)
	// 没有返回套餐时按 starter
	assert.Equal(t, session.TierStarter, snap.User.Tier)
	assert.Equal(t, "s9", snap.ActiveStoreID())
	assert.Equal(t, "id-token", st.Token())

	got, err := sessions.Get(context.Background(), st.Key())
	assert.NoError(t, err)
	assert.Equal(t, st.Key(), got.Key())
}

func TestAuthService_LoginStoreFailureStillLogsIn(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/auth/me", 200, `{"success":true,"data":{"id":"u1","tier":"growth"}}`)
	b.on("GET", "/stores", 500, `{"message":"boom"}`)
	svc := NewAuthService(api, setupTestSessions(t), NewStoreService(api))

	st, err := svc.Login(context.Background(), "id-token")

	assert.NoError(t, err)
	assert.True(t, st.Snapshot().AuthReady)
	assert.Empty(t, st.Snapshot().Stores)
}

func TestAuthService_LoginErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name: "缺少用户 ID", status: 200, body: `{"success":true,"data":{"name":"x"}}`,
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, net.ErrContract) },
		},
		{
			name: "Token 无效", status: 401, body: `{"message":"invalid token"}`,
			check: func(t *testing.T, err error) {
				var apiErr *net.APIError
				assert.True(t, errors.As(err, &apiErr))
				assert.Equal(t, 401, apiErr.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, api := newFakeBackend(t)
			b.on("GET", "/auth/me", tt.status, tt.body)
			svc := NewAuthService(api, setupTestSessions(t), NewStoreService(api))

			st, err := svc.Login(context.Background(), "bad")

			assert.Nil(t, st)
			tt.check(t, err)
			assert.Equal(t, 0, b.count("GET", "/stores"))
		})
	}
}

func TestAuthService_RefreshTokenRejectsOtherUser(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/auth/me", 200, `{"success":true,"data":{"id":"someone-else"}}`)
	svc := NewAuthService(api, setupTestSessions(t), NewStoreService(api))
	st := newTestStore(t, session.TierStarter)

	err := svc.RefreshToken(context.Background(), st, "new-token")

	var vErr *net.ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "tok", st.Token())
}
