package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 控制台运行配置
type Config struct {
	ServerPort string

	// 后端 API
	APIBaseURL string        // 例如 https://api.example.com/api
	APITimeout time.Duration // 单次 REST 调用超时
	LiffID     string

	// 会话
	JWTSecret  string
	SessionTTL time.Duration
	DBDSN      string
	RedisAddr  string
	RedisPass  string

	// 公开店铺
	PublicBaseURL   string // 生成公开链接用，例如 https://shop.example.com
	CORSOrigins     []string
	TrackingEnabled bool

	LogLevel string
}

// Load 读取 .env 与环境变量
func Load() *Config {
	// .env 不存在时忽略
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:3000/api"),
		APITimeout:      getDuration("API_TIMEOUT", 30*time.Second),
		LiffID:          getEnv("LIFF_ID", ""),
		JWTSecret:       getEnv("JWT_SECRET", "lineboost-console-secret-change-in-production"),
		SessionTTL:      getDuration("SESSION_TTL", 7*24*time.Hour),
		DBDSN:           getEnv("DB_DSN", "host=localhost user=lineboost password=lineboost dbname=lineboost_console port=5432 sslmode=disable"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPass:       getEnv("REDIS_PASSWORD", ""),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		CORSOrigins:     getList("CORS_ORIGINS", []string{"*"}),
		TrackingEnabled: getBool("TRACKING_ENABLED", true),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	// 纯数字按秒处理
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
