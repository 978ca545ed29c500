package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/session"
)

func TestLineService_StatusWritesSession(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/line/status", 200, `{"success":true,"data":{"connected":true,"displayName":"Tea OA","lineUserId":"U-oa"}}`)
	svc := NewLineService(api)
	st := newTestStore(t, session.TierStarter)

	status, err := svc.Status(context.Background(), st)

	assert.NoError(t, err)
	assert.True(t, status.Connected)
	oa := st.Snapshot().LineOA
	assert.True(t, oa.Connected)
	assert.Equal(t, "Tea OA", oa.Name)
	assert.Equal(t, "U-oa", oa.ID)
	rec, _ := b.last("GET", "/line/status")
	assert.Equal(t, "storeId=s1", rec.Query)
}

func TestLineService_ConnectOptionalBody(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("POST", "/line/connect", 200, `{"success":true,"data":{"url":"https://access.line.me/oauth"}}`)
	svc := NewLineService(api)

	resp, err := svc.Connect(context.Background(), Scope{Token: "tok"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "https://access.line.me/oauth", resp.URL)
	rec, _ := b.last("POST", "/line/connect")
	assert.Nil(t, rec.Body)

	_, err = svc.Connect(context.Background(), Scope{Token: "tok"}, map[string]any{"storeId": "s1"})
	assert.NoError(t, err)
	rec, _ = b.last("POST", "/line/connect")
	state, _ := rec.Body["state"].(map[string]any)
	assert.Equal(t, "s1", state["storeId"])
}

func TestLineService_CallbackDefaultsName(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/callback", 200, `{"success":true,"data":{"userId":"U-oa","followers":120,"responseRate":95}}`)
	svc := NewLineService(api)
	st := newTestStore(t, session.TierStarter)

	_, err := svc.Callback(context.Background(), st, dto.LineCallbackQuery{Code: "c", State: "s"})

	assert.NoError(t, err)
	oa := st.Snapshot().LineOA
	assert.Equal(t, "LINE OA", oa.Name)
	assert.Equal(t, 120, oa.Followers)
	assert.Equal(t, 95, oa.ResponseRate)
	rec, _ := b.last("GET", "/callback")
	assert.Equal(t, "code=c&state=s", rec.Query)
}
