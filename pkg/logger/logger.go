package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logg = newLogger("info")

func newLogger(level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)
	l.SetLevel(parseLevel(level))
	return l
}

func parseLevel(level string) logrus.Level {
	lv, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lv
}

// Get 获取全局 Logger
func Get() *logrus.Logger {
	return logg
}

// SetLevel 调整日志级别 (debug/info/warn/error)
func SetLevel(level string) {
	logg.SetLevel(parseLevel(level))
}

// Module 带模块标签的 Entry，对应旧代码里的 "[Tag]" 前缀
func Module(name string) *logrus.Entry {
	return logg.WithField("module", name)
}

// LogError 统一错误日志格式
func LogError(moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	if err == nil {
		logg.WithFields(fields).Error(context)
		return
	}
	logg.WithFields(fields).Error(err.Error())
}
