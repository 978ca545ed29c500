package utils

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

// GenerateRandomString 生成指定长度的随机字符串
func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	var result strings.Builder
	for _, bVal := range b {
		result.WriteByte(charset[int(bVal)%len(charset)])
	}
	return result.String(), nil
}

// NewAnonSessionID 访客会话 ID，格式 anon_<9位随机>_<毫秒时间戳>
func NewAnonSessionID() string {
	suffix, err := GenerateRandomString(9)
	if err != nil {
		suffix = strconv.FormatInt(time.Now().UnixNano()%1e9, 36)
	}
	return "anon_" + suffix + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
