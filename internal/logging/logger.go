// Package logging 全局日志，基于 charmbracelet/log，输出到 stderr
package logging

import (
	stdlog "log"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	Logger *log.Logger
	once   sync.Once
)

func defaultLogger() *log.Logger {
	once.Do(func() {
		if Logger == nil {
			Logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.RFC3339,
				Level:           log.InfoLevel,
			})
		}
	})
	return Logger
}

// Init 设置日志级别；未调用时按 Info 级别输出
func Init(debug bool) {
	l := defaultLogger()
	if debug {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.InfoLevel)
	}
}

// StdLogger 供 cron / gin 等只认标准库 logger 的组件使用
func StdLogger() *stdlog.Logger {
	return defaultLogger().StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel})
}

func Info(msg string, keyvals ...interface{}) {
	defaultLogger().Info(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	defaultLogger().Debug(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	defaultLogger().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	defaultLogger().Error(msg, keyvals...)
}

// Fatal 记录错误后退出进程
func Fatal(msg string, keyvals ...interface{}) {
	defaultLogger().Fatal(msg, keyvals...)
}
