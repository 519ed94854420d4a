package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	DBName          string
	LogFullSQL      bool // include bound variables in span statements
	SlowQueryThresh time.Duration
}

// DefaultDBTracingConfig returns default configuration for database tracing.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		DBName:          "billing",
		SlowQueryThresh: 200 * time.Millisecond,
	}
}

// DBTracingPlugin registers otelgorm and flags slow statements on the active span.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = DefaultDBTracingConfig().SlowQueryThresh
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Register installs the plugin on db. It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBName)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("billing:timing_before_create", p.before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("billing:timing_after_create", p.after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("billing:timing_before_query", p.before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("billing:timing_after_query", p.after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("billing:timing_before_update", p.before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("billing:timing_after_update", p.after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("billing:timing_before_raw", p.before); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("billing:timing_after_raw", p.after); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

type queryStartKey struct{}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed <= p.config.SlowQueryThresh {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
	p.logger.Warn("Slow query",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Bool("failed", db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound)),
		zap.String("trace_id", GetTraceID(ctx)),
	)
}
