package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lineboost_console/internal/model"
	"lineboost_console/internal/repository"
	"lineboost_console/internal/session"
)

// ==================== 辅助函数 ====================

func setupTaskSessions(t *testing.T, ttl time.Duration) *session.Manager {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.ConsoleSession{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return session.NewManager(session.NewDBPersister(repository.NewSessionRepository(db)), ttl)
}

type fakeSweeper struct {
	mu    sync.Mutex
	calls int
	n     int
}

func (f *fakeSweeper) SweepVisitors() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.n
}

func (f *fakeSweeper) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// ==================== HousekeepingTask 测试 ====================

func TestHousekeeping_清理过期会话(t *testing.T) {
	sessions := setupTaskSessions(t, 10*time.Millisecond)
	ctx := context.Background()

	_, err := sessions.Create(ctx, session.User{ID: "u1"}, "token-1")
	assert.NoError(t, err)
	_, err = sessions.Create(ctx, session.User{ID: "u2"}, "token-2")
	assert.NoError(t, err)
	assert.Equal(t, 2, sessions.LiveCount())

	time.Sleep(30 * time.Millisecond)

	task := NewHousekeepingTask(sessions, nil)
	assert.Equal(t, int64(2), task.PurgeNow(ctx))

	live, visitors := task.SweepNow()
	assert.Equal(t, 2, live)
	assert.Equal(t, 0, visitors)
	assert.Equal(t, 0, sessions.LiveCount())

	// 再清理一次没有可删的
	assert.Equal(t, int64(0), task.PurgeNow(ctx))
}

func TestHousekeeping_未过期会话保留(t *testing.T) {
	sessions := setupTaskSessions(t, time.Hour)
	ctx := context.Background()

	st, err := sessions.Create(ctx, session.User{ID: "u1"}, "token-1")
	assert.NoError(t, err)

	task := NewHousekeepingTask(sessions, &fakeSweeper{n: 3})
	assert.Equal(t, int64(0), task.PurgeNow(ctx))

	live, visitors := task.SweepNow()
	assert.Equal(t, 0, live)
	assert.Equal(t, 3, visitors)

	got, err := sessions.Get(ctx, st.Key())
	assert.NoError(t, err)
	assert.Equal(t, "u1", got.Snapshot().User.ID)
}

func TestHousekeeping_定时执行(t *testing.T) {
	sweeper := &fakeSweeper{}
	task := NewHousekeepingTask(nil, sweeper)
	task.SetSchedule("", "* * * * * *")

	assert.NoError(t, task.Start())
	defer task.Stop()

	assert.Eventually(t, func() bool { return sweeper.Calls() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestHousekeeping_非法表达式(t *testing.T) {
	task := NewHousekeepingTask(nil, &fakeSweeper{})
	task.SetSchedule("", "every ten minutes")
	assert.Error(t, task.Start())
}

// ==================== TaskManager 测试 ====================

func TestTaskManager_Status(t *testing.T) {
	tm := NewTaskManager(&TaskManagerDeps{Visitors: &fakeSweeper{}}, nil)
	assert.True(t, tm.Status()["housekeeping"])
	assert.NoError(t, tm.TriggerSweep())

	disabled := NewTaskManager(&TaskManagerDeps{}, &TaskManagerConfig{HousekeepingEnabled: true})
	assert.False(t, disabled.Status()["housekeeping"])
	assert.ErrorIs(t, disabled.TriggerSweep(), ErrTaskDisabled)

	_, err := disabled.TriggerPurge(context.Background())
	assert.ErrorIs(t, err, ErrTaskDisabled)
}
