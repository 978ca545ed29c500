package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lineboost_console/internal/model"
	"lineboost_console/internal/repository"
)

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("session not found")

// Persister 会话持久化后端
type Persister interface {
	Save(ctx context.Context, p Persisted) error
	Load(ctx context.Context, key string) (Persisted, error)
	Delete(ctx context.Context, key string) error
}

// Purger 支持批量清理过期会话的后端 (Redis 靠 TTL 自动过期，不需要)
type Purger interface {
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

// ==================== 数据库实现 ====================

type dbPersister struct {
	repo repository.SessionRepository
}

// NewDBPersister 基于 console_sessions 表
func NewDBPersister(repo repository.SessionRepository) Persister {
	return &dbPersister{repo: repo}
}

func (d *dbPersister) Save(ctx context.Context, p Persisted) error {
	row := &model.ConsoleSession{
		SessionKey: p.Key,
		Theme:      p.Theme,
		Token:      p.Token,
		ExpiresAt:  p.ExpiresAt,
	}
	if p.User != nil {
		raw, err := json.Marshal(p.User)
		if err != nil {
			return fmt.Errorf("序列化用户失败: %w", err)
		}
		row.UserID = p.User.ID
		row.UserData = raw
	}
	if p.Store != nil {
		row.ActiveStoreID = p.Store.ID
		row.ActiveStoreName = p.Store.Name
	}
	return d.repo.Upsert(ctx, row)
}

func (d *dbPersister) Load(ctx context.Context, key string) (Persisted, error) {
	row, err := d.repo.GetByKey(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Persisted{}, ErrNotFound
	}
	if err != nil {
		return Persisted{}, err
	}

	p := Persisted{Key: row.SessionKey, Theme: row.Theme, Token: row.Token, ExpiresAt: row.ExpiresAt}
	if len(row.UserData) > 0 && string(row.UserData) != "null" {
		var u User
		if err := json.Unmarshal(row.UserData, &u); err == nil {
			p.User = &u
		}
	}
	if row.ActiveStoreID != "" {
		p.Store = &StoreInfo{ID: row.ActiveStoreID, Name: row.ActiveStoreName}
	}
	return p, nil
}

func (d *dbPersister) Delete(ctx context.Context, key string) error {
	return d.repo.DeleteByKey(ctx, key)
}

func (d *dbPersister) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	return d.repo.DeleteExpired(ctx, before)
}

// ==================== Redis 实现 ====================

const redisKeyPrefix = "lineboost:console:session:"

type redisPersister struct {
	rdb *redis.Client
}

// NewRedisPersister 以 JSON 存储，过期交给 Redis TTL
func NewRedisPersister(rdb *redis.Client) Persister {
	return &redisPersister{rdb: rdb}
}

func (r *redisPersister) Save(ctx context.Context, p Persisted) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, p.Key)
	}
	return r.rdb.Set(ctx, redisKeyPrefix+p.Key, raw, ttl).Err()
}

func (r *redisPersister) Load(ctx context.Context, key string) (Persisted, error) {
	raw, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Persisted{}, ErrNotFound
	}
	if err != nil {
		return Persisted{}, err
	}
	var p Persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		return Persisted{}, fmt.Errorf("会话数据损坏: %w", err)
	}
	return p, nil
}

func (r *redisPersister) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, redisKeyPrefix+key).Err()
}
