package dao

import (
	"context"
	"errors"
	"github.com/btcsuite/btclog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"time"
)

// GormLogger routes gorm's logging to a btclog subsystem logger.
type GormLogger struct {
	btclog.Logger
}

// LogMode maps gorm log levels onto the btclog level of the subsystem.
func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	switch level {
	case logger.Silent:
		g.Logger.SetLevel(btclog.LevelOff)
	case logger.Error:
		g.Logger.SetLevel(btclog.LevelError)
	case logger.Warn:
		g.Logger.SetLevel(btclog.LevelWarn)
	case logger.Info:
		g.Logger.SetLevel(btclog.LevelInfo)
	}
	return g
}

func (g *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	g.Logger.Infof(msg, data...)
}

func (g *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	g.Logger.Warnf(msg, data...)
}

func (g *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	g.Logger.Errorf(msg, data...)
}

// Trace logs every statement at trace level and failed ones at error level.
// A missing record is not a failure.
func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		g.Logger.Errorf("%s [%s rows=%d]: %v", sql, elapsed, rows, err)
		return
	}
	g.Logger.Tracef("%s [%s rows=%d]", sql, elapsed, rows)
}
