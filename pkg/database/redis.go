package database

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"lineboost_console/pkg/logger"
)

// InitRedis 连接 Redis，返回客户端和分布式锁客户端
// 启动阶段只尝试 attempts 次，失败由调用方回退到本地实现
func InitRedis(ctx context.Context, addr, password string, attempts int) (*redis.Client, *redislock.Client, error) {
	if attempts <= 0 {
		attempts = 1
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		PoolSize: 50,
	})

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			logger.Module("redis").WithField("addr", addr).Infof("connected (attempt=%d)", attempt)
			return rdb, redislock.New(rdb), nil
		}

		logger.Module("redis").WithField("addr", addr).Warnf("connect failed (attempt=%d): %v", attempt, err)
		if attempt < attempts {
			sleep := time.Second * time.Duration(1<<min(attempt, 4))
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return nil, nil, ctx.Err()
			case <-time.After(sleep):
			}
		}
	}

	_ = rdb.Close()
	return nil, nil, err
}
