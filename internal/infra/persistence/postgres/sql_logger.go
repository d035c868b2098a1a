package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"

	"gorm.io/gorm/logger"
)

const defaultSlowQueryThreshold = 250 * time.Millisecond

// sqlLogger writes GORM output through slog. Inside a request it uses the
// request-scoped logger, so statements carry the request id of the checkout
// or admin call that issued them.
type sqlLogger struct {
	base          *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

var _ logger.Interface = (*sqlLogger)(nil)

func newSQLLogger(base *slog.Logger, cfg *config.Config) *sqlLogger {
	l := &sqlLogger{
		base:          base,
		level:         logger.Warn,
		slowThreshold: defaultSlowQueryThreshold,
	}
	if cfg == nil {
		return l
	}

	if cfg.Postgres != nil {
		if level, ok := parseSQLLogLevel(cfg.Postgres.LogLevel); ok {
			l.level = level
		}
		if cfg.Postgres.SlowQueryThreshold > 0 {
			l.slowThreshold = cfg.Postgres.SlowQueryThreshold
		}
	}
	if cfg.Env.Debug {
		l.level = logger.Info
	}

	return l
}

func parseSQLLogLevel(name string) (logger.LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent":
		return logger.Silent, true
	case "error":
		return logger.Error, true
	case "warn":
		return logger.Warn, true
	case "info":
		return logger.Info, true
	default:
		return 0, false
	}
}

func (l *sqlLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *sqlLogger) Info(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, args...)
}

func (l *sqlLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, args...)
}

func (l *sqlLogger) Error(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, args...)
}

func (l *sqlLogger) printf(ctx context.Context, threshold logger.LogLevel, level slog.Level, msg string, args ...any) {
	log := l.loggerFor(ctx)
	if l.level < threshold || log == nil {
		return
	}

	log.LogAttrs(ctx, level, "GORM", slog.String("message", fmt.Sprintf(msg, args...)))
}

// Trace logs one executed statement. Missing rows are expected by every
// FindByID and are never logged. Constraint violations are translated into
// domain errors by the repositories, so they are warnings, not failures.
func (l *sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	log := l.loggerFor(ctx)
	if log == nil || l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && isNotFound(err):
		return
	case err != nil && isConstraintViolation(err) && l.level >= logger.Warn:
		l.statement(ctx, log, slog.LevelWarn, "SQL constraint violation", fc, elapsed, slog.String("error", err.Error()))
	case err != nil && l.level >= logger.Error:
		l.statement(ctx, log, slog.LevelError, "SQL statement failed", fc, elapsed, slog.String("error", err.Error()))
	case err == nil && elapsed > l.slowThreshold && l.level >= logger.Warn:
		l.statement(ctx, log, slog.LevelWarn, "Slow SQL statement", fc, elapsed, slog.Duration("threshold", l.slowThreshold))
	case err == nil && l.level >= logger.Info:
		l.statement(ctx, log, slog.LevelInfo, "SQL statement", fc, elapsed)
	}
}

func (l *sqlLogger) statement(
	ctx context.Context,
	log *slog.Logger,
	level slog.Level,
	msg string,
	fc func() (string, int64),
	elapsed time.Duration,
	extra ...slog.Attr,
) {
	sql, rows := fc()
	attrs := append([]slog.Attr{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}, extra...)

	log.LogAttrs(ctx, level, msg, attrs...)
}

func (l *sqlLogger) loggerFor(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return l.base
	}

	return deliverycontext.GetLoggerOrDefault(ctx, l.base)
}

func isConstraintViolation(err error) bool {
	return isUniqueConstraintViolation(err) ||
		isForeignKeyConstraintViolation(err) ||
		isCheckConstraintViolation(err)
}
