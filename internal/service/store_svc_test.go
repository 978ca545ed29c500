package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/session"
	"lineboost_console/pkg/net"
)

func TestLineOALinkOf(t *testing.T) {
	tests := []struct {
		name  string
		creds dto.LineCredentials
		want  dto.LineOALink
	}{
		{name: "basicId 补 @", creds: dto.LineCredentials{BasicID: "shop"}, want: dto.LineOALink{BasicID: "@shop", URL: "https://line.me/R/ti/p/@shop"}},
		{name: "已有 @", creds: dto.LineCredentials{BasicID: "@shop"}, want: dto.LineOALink{BasicID: "@shop", URL: "https://line.me/R/ti/p/@shop"}},
		{name: "退回 lineId", creds: dto.LineCredentials{LineID: "abc"}, want: dto.LineOALink{BasicID: "@abc", URL: "https://line.me/R/ti/p/@abc"}},
		{name: "后端已给链接", creds: dto.LineCredentials{BasicID: "shop", LineOAURL: "https://lin.ee/x"}, want: dto.LineOALink{BasicID: "@shop", URL: "https://lin.ee/x"}},
		{name: "都没有", creds: dto.LineCredentials{}, want: dto.LineOALink{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineOALinkOf(tt.creds))
		})
	}
}

func TestStoreService_SyncDropsDeletedStore(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/stores", 200, `{"success":true,"data":{"stores":[{"id":"s2","name":"ร้านกาแฟ"},{"id":"s3","name":"ใหม่"}]}}`)
	svc := NewStoreService(api)
	st := newTestStore(t, session.TierStarter)
	assert.Equal(t, "s1", st.Snapshot().ActiveStoreID())

	err := svc.Sync(context.Background(), st)

	assert.NoError(t, err)
	snap := st.Snapshot()
	// s1 已被删除，重新选第一个
	assert.Equal(t, "s2", snap.ActiveStoreID())
	assert.Len(t, snap.Stores, 2)
	if rec, ok := b.last("GET", "/stores"); assert.True(t, ok) {
		assert.Equal(t, "Bearer tok", rec.Auth)
	}
}

func TestStoreService_CreateValidation(t *testing.T) {
	b, api := newFakeBackend(t)
	svc := NewStoreService(api)
	st := newTestStore(t, session.TierStarter)

	_, err := svc.Create(context.Background(), st, "   ")

	var vErr *net.ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, 0, b.count("POST", "/stores"))
}

func TestStoreService_AISettingsDefaultsOn(t *testing.T) {
	b, api := newFakeBackend(t)
	svc := NewStoreService(api)
	sc := Scope{Token: "tok", StoreID: "s1"}

	b.on("GET", "/stores/s1/ai-settings", 200, `{"success":true,"data":{}}`)
	got, err := svc.AISettings(context.Background(), sc)
	assert.NoError(t, err)
	assert.True(t, got.AIEnable)

	b.on("GET", "/stores/s1/ai-settings", 200, `{"success":true,"data":{"aiEnable":false}}`)
	got, err = svc.AISettings(context.Background(), sc)
	assert.NoError(t, err)
	assert.False(t, got.AIEnable)

	// 没有店铺不发请求
	_, err = svc.AISettings(context.Background(), Scope{Token: "tok"})
	assert.ErrorIs(t, err, ErrNoActiveStore)
}

func TestStoreService_Reset(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("POST", "/stores/s1/reset", 200, `{"success":true}`)
	svc := NewStoreService(api)

	assert.NoError(t, svc.Reset(context.Background(), Scope{Token: "tok", StoreID: "s1"}))
	if rec, ok := b.last("POST", "/stores/s1/reset"); assert.True(t, ok) {
		assert.Equal(t, "RESET", rec.Body["confirm"])
	}
}
