package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"lineboost_console/pkg/net"
)

func TestParseStreamEvent(t *testing.T) {
	tests := []struct {
		name     string
		ev       net.Event
		wantOK   bool
		wantText string
		wantUser bool
		wantID   string
		wantTS   string
	}{
		{
			name:   "客户消息",
			ev:     net.Event{ID: "e1", Data: `{"type":"message","lineUserId":"U1","messageText":"สวัสดี","createdAt":"2024-01-01T00:00:00Z"}`},
			wantOK: true, wantText: "สวัสดี", wantUser: true, wantID: "e1", wantTS: "2024-01-01T00:00:00Z",
		},
		{
			name:   "店铺回复",
			ev:     net.Event{Data: `{"id":"m9","type":"reply","lineUserId":"U1","text":"ได้เลย","timestamp":{"_seconds":1700000000}}`},
			wantOK: true, wantText: "ได้เลย", wantUser: false, wantID: "m9", wantTS: "2023-11-14T22:13:20Z",
		},
		{name: "其他客户", ev: net.Event{Data: `{"lineUserId":"U2","text":"x"}`}},
		{name: "空消息", ev: net.Event{Data: `{"lineUserId":"U1","text":""}`}},
		{name: "非法 JSON", ev: net.Event{Data: `ping`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := ParseStreamEvent(tt.ev, "U1")
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantText, msg.Text)
			assert.Equal(t, tt.wantUser, msg.IsFromUser)
			assert.Equal(t, tt.wantID, msg.ID)
			assert.Equal(t, tt.wantTS, msg.Timestamp)
		})
	}
}

func TestInboxService_CustomersFieldAliases(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/inbox/customers", 200, `{"customers":[
		{"userId":"U1","displayName":"A","lastActivity":"2024-01-02"},
		{"id":"U2","displayName":"B","lastTime":1700000000000,"isAdmin":true}
	]}`)
	svc := NewInboxService(api)

	got, err := svc.Customers(context.Background(), Scope{Token: "tok", StoreID: "s1"})

	assert.NoError(t, err)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "U1", got[0].UserID)
		assert.Equal(t, "2024-01-02", got[0].LastActivity)
		assert.Equal(t, "U2", got[1].UserID)
		assert.Equal(t, "1700000000000", got[1].LastActivity)
		assert.True(t, got[1].IsAdmin)
	}
	rec, _ := b.last("GET", "/inbox/customers")
	assert.Equal(t, "storeId=s1", rec.Query)
}

func TestInboxService_CustomersMissingKey(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/inbox/customers", 200, `{"success":true,"data":[]}`)
	svc := NewInboxService(api)

	got, err := svc.Customers(context.Background(), Scope{Token: "tok", StoreID: "s1"})

	assert.ErrorIs(t, err, net.ErrContract)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInboxService_HistoryIDs(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/inbox/history/U1", 200, `{"messages":[
		{"id":"m1","text":"a","isFromUser":true,"timestamp":"t1"},
		{"text":"b","from":"shop","timestamp":"t2"},
		{"text":"c","from":"user"}
	]}`)
	svc := NewInboxService(api)

	got, err := svc.History(context.Background(), Scope{Token: "tok", StoreID: "s1"}, "U1")

	assert.NoError(t, err)
	if assert.Len(t, got, 3) {
		assert.Equal(t, "m1", got[0].ID)
		assert.True(t, got[0].IsFromUser)
		assert.Equal(t, "t2-1", got[1].ID)
		assert.False(t, got[1].IsFromUser)
		assert.Equal(t, "no-ts-2", got[2].ID)
		assert.True(t, got[2].IsFromUser)
	}
}

func TestInboxService_SendEmptyMessage(t *testing.T) {
	b, api := newFakeBackend(t)
	svc := NewInboxService(api)

	err := svc.Send(context.Background(), Scope{Token: "tok", StoreID: "s1"}, "U1", "   ")

	assert.Error(t, err)
	assert.Equal(t, 0, b.count("POST", "/inbox/send/U1"))
}
