package dto

// ================== 数据分析 DTO ==================

// DailyMessages 每日收发量
type DailyMessages struct {
	Received int `json:"received"`
	Sent     int `json:"sent"`
}

// EventTypeStat 事件类型统计
type EventTypeStat struct {
	EventType string `json:"eventType"`
	Count     int    `json:"count"`
}

// BroadcastStat 单次广播效果
type BroadcastStat struct {
	ID         string  `json:"id"`
	SentAt     *string `json:"sentAt"`
	SentCount  int     `json:"sentCount"`
	ClickCount int     `json:"clickCount"`
	ClickRate  string  `json:"clickRate"`
}

// AnalyticsSummary 汇总
type AnalyticsSummary struct {
	TotalMessages   int    `json:"totalMessages"`
	TotalBroadcasts int    `json:"totalBroadcasts"`
	AvgClickRate    string `json:"avgClickRate"`
}

// AnalyticsData GET /analytics
type AnalyticsData struct {
	Period         int                      `json:"period"`
	DailyMessages  map[string]DailyMessages `json:"dailyMessages"`
	EventTypeStats []EventTypeStat          `json:"eventTypeStats"`
	BroadcastStats []BroadcastStat          `json:"broadcastStats"`
	FollowerTrend  map[string]int           `json:"followerTrend"`
	Summary        AnalyticsSummary         `json:"summary"`
}

// AnalyticsOverview 分析页：消息分析 + 网站分析
type AnalyticsOverview struct {
	Messages AnalyticsData `json:"messages"`
	Site     SiteAnalytics `json:"site"`
}

// Dashboard 仪表盘
type Dashboard struct {
	Stats          StoreStats      `json:"stats"`
	RecentMessages []RecentMessage `json:"recentMessages"`
	Line           LineStatus      `json:"line"`
}

// AnalyticsQuery 分析页参数
type AnalyticsQuery struct {
	StoreID string `form:"storeId"`
	Period  int    `form:"period,default=30"`
	Days    int    `form:"days,default=7"`
}
