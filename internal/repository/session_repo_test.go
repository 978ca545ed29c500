package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lineboost_console/internal/model"
)

func setupSessionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.ConsoleSession{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func TestSessionRepo_UpsertAndGet(t *testing.T) {
	repo := NewSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()

	err := repo.Upsert(ctx, &model.ConsoleSession{
		SessionKey:    "k1",
		UserID:        "u1",
		UserData:      datatypes.JSON(`{"id":"u1"}`),
		ActiveStoreID: "s1",
		Token:         "t1",
		ExpiresAt:     time.Now().Add(time.Hour),
	})
	assert.NoError(t, err)

	// 同一个 key 再写一次覆盖
	err = repo.Upsert(ctx, &model.ConsoleSession{
		SessionKey:    "k1",
		UserID:        "u1",
		ActiveStoreID: "s2",
		Token:         "t2",
		ExpiresAt:     time.Now().Add(time.Hour),
	})
	assert.NoError(t, err)

	got, err := repo.GetByKey(ctx, "k1")
	assert.NoError(t, err)
	assert.Equal(t, "s2", got.ActiveStoreID)
	assert.Equal(t, "t2", got.Token)
}

func TestSessionRepo_ExpiredAndDelete(t *testing.T) {
	repo := NewSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()

	_ = repo.Upsert(ctx, &model.ConsoleSession{SessionKey: "old", ExpiresAt: time.Now().Add(-time.Minute)})
	_ = repo.Upsert(ctx, &model.ConsoleSession{SessionKey: "live", ExpiresAt: time.Now().Add(time.Hour)})

	_, err := repo.GetByKey(ctx, "old")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	n, err := repo.DeleteExpired(ctx, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.NoError(t, repo.DeleteByKey(ctx, "live"))
	_, err = repo.GetByKey(ctx, "live")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
