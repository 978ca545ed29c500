package service

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/session"
	"lineboost_console/pkg/net"
)

// AnalyticsService 仪表盘和数据分析页
type AnalyticsService struct {
	api    *net.Client
	stores *StoreService
	sites  *SiteService
	line   *LineService
}

func NewAnalyticsService(api *net.Client, stores *StoreService, sites *SiteService, line *LineService) *AnalyticsService {
	return &AnalyticsService{api: api, stores: stores, sites: sites, line: line}
}

// Messages GET /analytics
func (s *AnalyticsService) Messages(ctx context.Context, sc Scope, period int) (dto.AnalyticsData, error) {
	if period <= 0 {
		period = 30
	}
	if err := sc.requireStore(); err != nil {
		return emptyAnalytics(period), err
	}
	req := net.Get("/analytics", sc.Token).WithQuery("storeId", sc.StoreID).WithQuery("period", strconv.Itoa(period))
	data, err := net.Data[dto.AnalyticsData](ctx, s.api, req)
	if err != nil {
		return emptyAnalytics(period), err
	}
	fillAnalytics(&data)
	return data, nil
}

// Overview 消息分析和网站分析并发拉取
func (s *AnalyticsService) Overview(ctx context.Context, sc Scope, period, days int) (dto.AnalyticsOverview, error) {
	var out dto.AnalyticsOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Messages, err = s.Messages(gctx, sc, period)
		return err
	})
	g.Go(func() error {
		var err error
		out.Site, err = s.sites.Analytics(gctx, sc, days)
		return err
	})
	err := g.Wait()
	return out, err
}

// Dashboard 店铺统计、最近消息、LINE 状态并发拉取
// 任一失败返回第一个错误，其余结果保留默认值
func (s *AnalyticsService) Dashboard(ctx context.Context, st *session.Store) (dto.Dashboard, error) {
	sc := ScopeOf(st)
	out := dto.Dashboard{Stats: dto.StoreStats{}, RecentMessages: []dto.RecentMessage{}}
	if err := sc.requireStore(); err != nil {
		return out, err
	}

	var (
		stats  dto.StoreStats
		recent []dto.RecentMessage
		line   dto.LineStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.stores.Stats(gctx, sc)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = net.Data[[]dto.RecentMessage](gctx, s.api, net.Get("/dashboard/recent-messages", sc.Token).WithQuery("storeId", sc.StoreID))
		return err
	})
	g.Go(func() error {
		var err error
		line, err = s.line.Status(gctx, st)
		return err
	})
	if err := g.Wait(); err != nil {
		return out, err
	}

	if stats != nil {
		out.Stats = stats
	}
	if recent != nil {
		out.RecentMessages = recent
	}
	out.Line = line
	return out, nil
}

func emptyAnalytics(period int) dto.AnalyticsData {
	data := dto.AnalyticsData{Period: period, Summary: dto.AnalyticsSummary{AvgClickRate: "0"}}
	fillAnalytics(&data)
	return data
}

func fillAnalytics(d *dto.AnalyticsData) {
	if d.DailyMessages == nil {
		d.DailyMessages = map[string]dto.DailyMessages{}
	}
	if d.EventTypeStats == nil {
		d.EventTypeStats = []dto.EventTypeStat{}
	}
	if d.BroadcastStats == nil {
		d.BroadcastStats = []dto.BroadcastStat{}
	}
	if d.FollowerTrend == nil {
		d.FollowerTrend = map[string]int{}
	}
}
