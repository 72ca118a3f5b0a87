package storage

import (
	"context"
	"errors"
	"time"

	alog "github.com/cxykevin/tinyjson/log"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var aLogger = alog.New("gorm")

// Logger 把 GORM 日志转发到模块日志，并标记慢查询
type Logger struct {
	slow  time.Duration
	level gormLogger.LogLevel
}

// New 创建日志器
func New() gormLogger.Interface {
	return &Logger{
		slow:  time.Millisecond * 300,
		level: gormLogger.Warn,
	}
}

// LogMode 返回指定级别的副本
func (l *Logger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info 打印信息级别日志
func (l *Logger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormLogger.Info {
		aLogger.Info(msg, data...)
	}
}

// Warn 打印警告级别日志
func (l *Logger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormLogger.Warn {
		aLogger.Warn(msg, data...)
	}
}

// Error 打印错误级别日志
func (l *Logger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormLogger.Error {
		aLogger.Error(msg, data...)
	}
}

// Trace 跟踪 SQL 执行耗时与错误
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	elapsedMs := float64(elapsed.Nanoseconds()) / 1e6

	// 未命中由调用方转换为 ErrDocumentNotFound，不算错误
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		sql, rows := fc()
		aLogger.Error("[%.3fms] rows:%d %s; error: %v", elapsedMs, rows, sql, err)
		return
	}

	if l.slow > 0 && elapsed > l.slow {
		sql, rows := fc()
		aLogger.Warn("slow query > %s [%.3fms] rows:%d %s", l.slow, elapsedMs, rows, sql)
		return
	}

	if l.level >= gormLogger.Info {
		sql, rows := fc()
		aLogger.Debug("[%.3fms] rows:%d %s", elapsedMs, rows, sql)
	}
}
