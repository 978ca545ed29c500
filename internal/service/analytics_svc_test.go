package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"lineboost_console/internal/session"
)

func TestAnalyticsService_DashboardConcurrent(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/stores/s1/stats", 200, `{"success":true,"data":{"orders":3}}`)
	b.on("GET", "/dashboard/recent-messages", 200, `{"success":true,"data":[{"id":"m1","text":"hi"}]}`)
	b.on("GET", "/line/status", 200, `{"success":true,"data":{"connected":true}}`)
	stores := NewStoreService(api)
	line := NewLineService(api)
	svc := NewAnalyticsService(api, stores, NewSiteService(api, stores, ""), line)
	st := newTestStore(t, session.TierStarter)

	got, err := svc.Dashboard(context.Background(), st)

	assert.NoError(t, err)
	assert.Equal(t, float64(3), got.Stats["orders"])
	assert.Len(t, got.RecentMessages, 1)
	assert.True(t, got.Line.Connected)
}

func TestAnalyticsService_DashboardFailureKeepsDefaults(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/stores/s1/stats", 500, `{"message":"boom"}`)
	b.on("GET", "/dashboard/recent-messages", 200, `{"success":true,"data":[]}`)
	b.on("GET", "/line/status", 200, `{"success":true,"data":{"connected":false}}`)
	stores := NewStoreService(api)
	svc := NewAnalyticsService(api, stores, NewSiteService(api, stores, ""), NewLineService(api))
	st := newTestStore(t, session.TierStarter)

	got, err := svc.Dashboard(context.Background(), st)

	assert.Error(t, err)
	assert.NotNil(t, got.Stats)
	assert.NotNil(t, got.RecentMessages)
}

func TestAnalyticsService_MessagesEmptyShape(t *testing.T) {
	_, api := newFakeBackend(t)
	stores := NewStoreService(api)
	svc := NewAnalyticsService(api, stores, NewSiteService(api, stores, ""), NewLineService(api))

	got, err := svc.Messages(context.Background(), Scope{Token: "tok"}, 0)

	assert.ErrorIs(t, err, ErrNoActiveStore)
	assert.Equal(t, 30, got.Period)
	assert.NotNil(t, got.DailyMessages)
	assert.NotNil(t, got.FollowerTrend)
	assert.Equal(t, "0", got.Summary.AvgClickRate)
}
