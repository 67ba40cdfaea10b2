package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gorm_logger "gorm.io/gorm/logger"
)

// gormLogger forwards gorm's log output to zerolog. Levels are handled
// by zerolog's global level, LogMode is a no-op.
type gormLogger struct {
	log zerolog.Logger
}

func (l *gormLogger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *gormLogger) Info(_ context.Context, format string, args ...interface{}) {
	l.log.Info().Msgf(format, args...)
}

func (l *gormLogger) Warn(_ context.Context, format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l *gormLogger) Error(_ context.Context, format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, rows := fc()

	event := l.log.Debug()

	// Missing records are expected and reported to the caller, they are
	// not query errors
	if err != nil && !errors.Is(err, ErrResourceNotFound) {
		event = l.log.Error().Err(err)
	}

	event.
		Str("sql", sql).
		Int64("rows", rows).
		Dur("duration", time.Since(begin)).
		Msg("database query")
}
