package task

import (
	"context"

	"lineboost_console/pkg/logger"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台任务
// 目前只有清理任务，埋点发送由 tracker 自行管理
type TaskManager struct {
	housekeeping *HousekeepingTask
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	Sessions SessionHousekeeper
	Visitors VisitorSweeper
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	HousekeepingEnabled bool
	PurgeSpec           string
	SweepSpec           string
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		HousekeepingEnabled: true,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{}
	if cfg.HousekeepingEnabled && (deps.Sessions != nil || deps.Visitors != nil) {
		tm.housekeeping = NewHousekeepingTask(deps.Sessions, deps.Visitors)
		tm.housekeeping.SetSchedule(cfg.PurgeSpec, cfg.SweepSpec)
	}
	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务
func (tm *TaskManager) Start() error {
	logger.Module("task").Info("[TaskManager] 正在启动后台任务...")
	if tm.housekeeping != nil {
		if err := tm.housekeeping.Start(); err != nil {
			return err
		}
	}
	logger.Module("task").Info("[TaskManager] 后台任务已全部启动")
	return nil
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	if tm.housekeeping != nil {
		tm.housekeeping.Stop()
	}
	logger.Module("task").Info("[TaskManager] 后台任务已全部停止")
}

// ==================== 手动触发接口 ====================

// TriggerPurge 立即清理过期会话
func (tm *TaskManager) TriggerPurge(ctx context.Context) (int64, error) {
	if tm.housekeeping == nil {
		return 0, ErrTaskDisabled
	}
	return tm.housekeeping.PurgeNow(ctx), nil
}

// TriggerSweep 立即清理内存缓存
func (tm *TaskManager) TriggerSweep() error {
	if tm.housekeeping == nil {
		return ErrTaskDisabled
	}
	tm.housekeeping.SweepNow()
	return nil
}

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"housekeeping": tm.housekeeping != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)
