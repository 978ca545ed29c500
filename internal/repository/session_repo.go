package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lineboost_console/internal/model"
)

// ==================== 接口定义 ====================

// SessionRepository 控制台会话仓储接口
type SessionRepository interface {
	Upsert(ctx context.Context, s *model.ConsoleSession) error
	GetByKey(ctx context.Context, key string) (*model.ConsoleSession, error)
	DeleteByKey(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ==================== 仓储实现 ====================

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepository 创建会话仓储
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

// Upsert 按 session_key 插入或覆盖
func (r *sessionRepo) Upsert(ctx context.Context, s *model.ConsoleSession) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "user_data", "theme", "active_store_id", "active_store_name",
			"token", "expires_at", "updated_at",
		}),
	}).Create(s).Error
}

// GetByKey 查询未过期的会话，不存在返回 gorm.ErrRecordNotFound
func (r *sessionRepo) GetByKey(ctx context.Context, key string) (*model.ConsoleSession, error) {
	var s model.ConsoleSession
	if err := r.db.WithContext(ctx).
		Where("session_key = ? AND expires_at > ?", key, time.Now()).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteByKey 物理删除，保证 session_key 可复用
func (r *sessionRepo) DeleteByKey(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("session_key = ?", key).
		Delete(&model.ConsoleSession{}).Error
}

// DeleteExpired 清理过期会话
func (r *sessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Where("expires_at <= ?", before).
		Delete(&model.ConsoleSession{})
	return result.RowsAffected, result.Error
}
