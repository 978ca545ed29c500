package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"lineboost_console/pkg/logger"
)

// SessionHousekeeper 会话清理，由 session.Manager 实现
type SessionHousekeeper interface {
	PurgeExpired(ctx context.Context) (int64, error)
	SweepLive() int
}

// VisitorSweeper 访客购物车清理，由 service.StorefrontService 实现
type VisitorSweeper interface {
	SweepVisitors() int
}

// HousekeepingTask 定时清理过期会话和购物车
type HousekeepingTask struct {
	sessions SessionHousekeeper
	visitors VisitorSweeper
	Cron     *cron.Cron

	purgeSpec string
	sweepSpec string
	timeout   time.Duration
}

func NewHousekeepingTask(sessions SessionHousekeeper, visitors VisitorSweeper) *HousekeepingTask {
	return &HousekeepingTask{
		sessions:  sessions,
		visitors:  visitors,
		Cron:      cron.New(cron.WithSeconds()), // 支持秒级控制
		purgeSpec: "0 0 * * * *",                // 每小时清理持久化会话
		sweepSpec: "0 0/10 * * * *",             // 每 10 分钟清理内存
		timeout:   2 * time.Minute,
	}
}

// SetSchedule 修改调度表达式 (六段，带秒)
func (t *HousekeepingTask) SetSchedule(purgeSpec, sweepSpec string) {
	if purgeSpec != "" {
		t.purgeSpec = purgeSpec
	}
	if sweepSpec != "" {
		t.sweepSpec = sweepSpec
	}
}

// Start 注册并启动定时任务
func (t *HousekeepingTask) Start() error {
	if t.sessions != nil {
		if _, err := t.Cron.AddFunc(t.purgeSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
			defer cancel()
			t.PurgeNow(ctx)
		}); err != nil {
			return err
		}
	}

	if _, err := t.Cron.AddFunc(t.sweepSpec, func() {
		t.SweepNow()
	}); err != nil {
		return err
	}

	t.Cron.Start()
	logger.Module("task").Infof("清理任务已启动 (purge: %s, sweep: %s)", t.purgeSpec, t.sweepSpec)
	return nil
}

// Stop 停止调度并等待正在执行的任务
func (t *HousekeepingTask) Stop() {
	<-t.Cron.Stop().Done()
}

// PurgeNow 删除已过期的持久化会话
func (t *HousekeepingTask) PurgeNow(ctx context.Context) int64 {
	if t.sessions == nil {
		return 0
	}
	n, err := t.sessions.PurgeExpired(ctx)
	if err != nil {
		logger.LogError("task", "PurgeNow", "清理过期会话失败", nil, err)
		return 0
	}
	if n > 0 {
		logger.Module("task").Infof("[Cron] 已清理 %d 个过期会话", n)
	}
	return n
}

// SweepNow 清理内存中的过期会话和购物车
func (t *HousekeepingTask) SweepNow() (sessions, visitors int) {
	if t.sessions != nil {
		sessions = t.sessions.SweepLive()
	}
	if t.visitors != nil {
		visitors = t.visitors.SweepVisitors()
	}
	logger.Module("task").Debugf("[Cron] sweep sessions=%d visitors=%d", sessions, visitors)
	return sessions, visitors
}
